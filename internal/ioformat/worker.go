/**
 * CONTEXT:   JSON wire format for workers, translating to/from domain.Worker
 * INPUT:     A workers document using dd/mm/yyyy task-map dates and yyyy-mm-dd scalars
 * OUTPUT:    []*domain.Worker ready for the scheduling engine, and the reverse
 * BUSINESS:  domain.Worker stores time.Time exclusively and is never marshalled
 *            directly; every caller-facing surface goes through this translation
 * CHANGE:    Initial wire format matching the roster's historical JSON shape
 * RISK:      Medium - a translation bug here silently corrupts closing history
 */

package ioformat

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

const (
	taskDateLayout  = "02/01/2006"
	scalarDateLayout = "2006-01-02"
)

// wireWorker mirrors the JSON shape workers are loaded and saved in.
type wireWorker struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	StartDate        string            `json:"start_date"`
	Qualifications   []string          `json:"qualifications"`
	ClosingInterval  int               `json:"closing_interval"`
	Officer          bool              `json:"officer"`
	Seniority        string            `json:"seniority"`
	Score            float64           `json:"score"`
	LongTimer        bool              `json:"long_timer"`
	WeekendsHomeOwed int               `json:"weekends_home_owed"`
	XTasks           map[string]string `json:"x_tasks"`
	ClosingHistory   []string          `json:"closing_history"`
}

type wireDocument struct {
	Workers []wireWorker `json:"workers"`
}

// DecodeWorkers parses a workers document from r into domain.Worker values.
func DecodeWorkers(r io.Reader) ([]*domain.Worker, error) {
	var doc wireDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode workers document: %w", err)
	}

	workers := make([]*domain.Worker, 0, len(doc.Workers))
	for _, ww := range doc.Workers {
		w, err := ww.toDomain()
		if err != nil {
			return nil, fmt.Errorf("worker %q: %w", ww.ID, err)
		}
		workers = append(workers, w)
	}
	return workers, nil
}

func (ww wireWorker) toDomain() (*domain.Worker, error) {
	var startDate time.Time
	if ww.StartDate != "" {
		parsed, err := time.Parse(scalarDateLayout, ww.StartDate)
		if err != nil {
			return nil, fmt.Errorf("start_date %q: %w", ww.StartDate, err)
		}
		startDate = parsed
	}

	w := domain.NewWorker(ww.ID, ww.Name, startDate, ww.Qualifications, ww.ClosingInterval)
	w.Officer = ww.Officer
	w.Seniority = ww.Seniority
	w.Score = ww.Score
	w.LongTimer = ww.LongTimer
	w.WeekendsHomeOwed = ww.WeekendsHomeOwed

	for dateStr, task := range ww.XTasks {
		if _, err := time.Parse(taskDateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("x_tasks date %q: %w", dateStr, err)
		}
		w.XTasks[dateStr] = task
	}

	for _, dateStr := range ww.ClosingHistory {
		d, err := time.Parse(taskDateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("closing_history date %q: %w", dateStr, err)
		}
		w.AssignClosing(d)
	}

	return w, nil
}

// EncodeWorkers serializes workers back into the wire document shape,
// suitable for persisting state between scheduling runs.
func EncodeWorkers(w io.Writer, workers []*domain.Worker) error {
	doc := wireDocument{Workers: make([]wireWorker, len(workers))}
	for i, worker := range workers {
		doc.Workers[i] = fromDomain(worker)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode workers document: %w", err)
	}
	return nil
}

func fromDomain(w *domain.Worker) wireWorker {
	ww := wireWorker{
		ID:               w.ID,
		Name:             w.Name,
		Qualifications:   append([]string(nil), w.Qualifications...),
		ClosingInterval:  w.ClosingInterval,
		Officer:          w.Officer,
		Seniority:        w.Seniority,
		Score:            w.Score,
		LongTimer:        w.LongTimer,
		WeekendsHomeOwed: w.WeekendsHomeOwed,
		XTasks:           make(map[string]string, len(w.XTasks)),
	}
	if !w.StartDate.IsZero() {
		ww.StartDate = w.StartDate.Format(scalarDateLayout)
	}
	for dateStr, task := range w.XTasks {
		ww.XTasks[dateStr] = task
	}

	history := append([]time.Time(nil), w.ClosingHistory...)
	sort.Slice(history, func(i, j int) bool { return history[i].Before(history[j]) })
	ww.ClosingHistory = make([]string, len(history))
	for i, d := range history {
		ww.ClosingHistory[i] = d.Format(taskDateLayout)
	}

	return ww
}

// weekdayTasksDocument is the wire shape of the --weekday-tasks file: a map
// of yyyy-mm-dd date strings to the Y-task types requested that day.
type weekdayTasksDocument map[string][]string

// DecodeWeekdayTasks parses a weekday-task map keyed by scalar dates into the
// time.Time-keyed map the engine expects.
func DecodeWeekdayTasks(r io.Reader) (map[time.Time][]string, error) {
	var doc weekdayTasksDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode weekday tasks document: %w", err)
	}

	out := make(map[time.Time][]string, len(doc))
	for dateStr, tasks := range doc {
		d, err := time.Parse(scalarDateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("weekday task date %q: %w", dateStr, err)
		}
		out[domain.DateOnly(d)] = tasks
	}
	return out, nil
}
