/**
 * CONTEXT:   Demonstration HTTP surface for the duty scheduling engine
 * INPUT:     HTTP requests describing a roster and date range to schedule
 * OUTPUT:    HTTP responses carrying the resulting schedule as JSON
 * BUSINESS:  Lets other systems request a schedule without shelling out to the CLI
 * CHANGE:    Initial Go port of the embedded HTTP server, retargeted at one
 *            stateless POST /schedule endpoint instead of daemon activity tracking
 * RISK:      Medium - a shared Engine across requests would let concurrent runs
 *            corrupt each other's worker state, so every request builds its own
 */

package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/arlen-roster/dutyplanner/internal/ioformat"
	"github.com/arlen-roster/dutyplanner/internal/scheduling"
	"github.com/arlen-roster/dutyplanner/pkg/logger"
)

const apiDateLayout = "02/01/2006"

// Server is a demonstration surface only: no auth, no persistence wiring
// beyond what the CLI already does via internal/infrastructure/database.
type Server struct {
	router *mux.Router
	log    *logger.DefaultLogger

	defaultWeeklyLimit     int
	defaultMaxSameTaskType int
	scoringConfigPath      string
}

// New builds a Server with its routes registered and ready to serve.
func New(defaultWeeklyLimit, defaultMaxSameTaskType int, scoringConfigPath string) *Server {
	s := &Server{
		router:                 mux.NewRouter(),
		log:                    logger.NewDefaultLogger("httpapi", "info"),
		defaultWeeklyLimit:     defaultWeeklyLimit,
		defaultMaxSameTaskType: defaultMaxSameTaskType,
		scoringConfigPath:      scoringConfigPath,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/schedule", s.handleSchedule).Methods("POST")
}

// Handler returns the configured router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var raw struct {
		Workers              json.RawMessage     `json:"workers"`
		Start                string              `json:"start"`
		End                  string              `json:"end"`
		NumClosersPerWeekend int                 `json:"num_closers_per_weekend"`
		WeekdayTasks         map[string][]string `json:"weekday_tasks"`
		WeeklyLimit          int                 `json:"weekly_limit"`
		MaxSameTaskType      int                 `json:"max_same_task_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// internal/ioformat decodes a whole {"workers": [...]} document; rewrap
	// the request's workers array so the same decoder and date rules apply.
	doc := append(append([]byte(`{"workers":`), raw.Workers...), '}')
	workers, err := ioformat.DecodeWorkers(bytes.NewReader(doc))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid workers: %v", err), http.StatusBadRequest)
		return
	}
	// Each request constructs its own Engine over its own freshly-decoded
	// roster, so concurrent requests never share mutable worker state.

	start, err := time.Parse(apiDateLayout, raw.Start)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid start date %q: %v", raw.Start, err), http.StatusBadRequest)
		return
	}
	end, err := time.Parse(apiDateLayout, raw.End)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid end date %q: %v", raw.End, err), http.StatusBadRequest)
		return
	}

	weekdayTasks := make(map[time.Time][]string, len(raw.WeekdayTasks))
	for dateStr, tasks := range raw.WeekdayTasks {
		d, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid weekday task date %q: %v", dateStr, err), http.StatusBadRequest)
			return
		}
		weekdayTasks[domain.DateOnly(d)] = tasks
	}

	weeklyLimit := raw.WeeklyLimit
	if weeklyLimit <= 0 {
		weeklyLimit = s.defaultWeeklyLimit
	}
	maxSameTaskType := raw.MaxSameTaskType
	if maxSameTaskType <= 0 {
		maxSameTaskType = s.defaultMaxSameTaskType
	}
	numClosers := raw.NumClosersPerWeekend
	if numClosers <= 0 {
		numClosers = 2
	}

	scoringCfg, err := domain.LoadScoringConfig(s.scoringConfigPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("load scoring config: %v", err), http.StatusInternalServerError)
		return
	}

	engine := scheduling.NewEngine(scoringCfg)
	result := engine.ScheduleRange(workers, start, end, numClosers, weekdayTasks, weeklyLimit, maxSameTaskType)

	s.log.Info("schedule request handled", "start", raw.Start, "end", raw.End, "success", result.Success)

	w.Header().Set("Content-Type", "application/json")
	if err := ioformat.EncodeResult(w, result); err != nil {
		s.log.Error("failed to encode schedule response", "error", err)
	}
}
