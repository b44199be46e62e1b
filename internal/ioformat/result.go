/**
 * CONTEXT:   JSON wire format for a completed scheduling run's Result
 * INPUT:     scheduling.Result keyed by time.Time
 * OUTPUT:    A JSON document keyed by yyyy-mm-dd, suitable for CLI/HTTP output
 * BUSINESS:  time.Time is not a valid JSON object key; this is the one place
 *            that renders a Result for display or transport
 * CHANGE:    Initial result encoder mirroring the wire worker date conventions
 * RISK:      Low - output-only, never read back into the engine
 */

package ioformat

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/scheduling"
)

type wireResult struct {
	Closers          map[string][]string          `json:"closers"`
	YTasks           map[string][]wireYAssignment `json:"y_tasks"`
	Logs             []string                     `json:"logs"`
	AssignmentErrors []wireAssignmentError        `json:"assignment_errors"`
	Success          bool                         `json:"success"`
}

type wireYAssignment struct {
	TaskType string `json:"task_type"`
	WorkerID string `json:"worker_id"`
}

type wireAssignmentError struct {
	TaskType string `json:"task_type"`
	Date     string `json:"date"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}

// EncodeResult renders result as JSON with every date key in yyyy-mm-dd form.
func EncodeResult(w io.Writer, result scheduling.Result) error {
	out := wireResult{
		Closers: make(map[string][]string, len(result.Closers)),
		YTasks:  make(map[string][]wireYAssignment, len(result.YTasks)),
		Logs:    result.Logs,
		Success: result.Success,
	}

	for d, ids := range result.Closers {
		out.Closers[d.Format(scalarDateLayout)] = ids
	}
	for d, assigns := range result.YTasks {
		wireAssigns := make([]wireYAssignment, len(assigns))
		for i, a := range assigns {
			wireAssigns[i] = wireYAssignment{TaskType: a.TaskType, WorkerID: a.WorkerID}
		}
		out.YTasks[d.Format(scalarDateLayout)] = wireAssigns
	}
	for _, e := range result.AssignmentErrors {
		out.AssignmentErrors = append(out.AssignmentErrors, wireAssignmentError{
			TaskType: e.TaskType,
			Date:     e.Date.Format(scalarDateLayout),
			Reason:   e.Reason,
			Severity: string(e.Severity),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// SortedDates returns the keys of a time.Time-keyed map in ascending order,
// used by the CLI to render its tables deterministically.
func SortedDates[T any](m map[time.Time]T) []time.Time {
	dates := make([]time.Time, 0, len(m))
	for d := range m {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
