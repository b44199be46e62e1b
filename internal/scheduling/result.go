/**
 * CONTEXT:   Output shape produced by one ScheduleRange call
 * INPUT:     n/a - pure data type
 * OUTPUT:    Closers, Y-task assignments, narrative log, and structured errors
 * BUSINESS:  This is the external operation contract callers depend on
 * CHANGE:    Initial Go port of schedule_range's return dict
 * RISK:      Low - plain data
 */

package scheduling

import (
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

// YAssignment pairs a Y-task type with the worker it was given to.
type YAssignment struct {
	TaskType string
	WorkerID string
}

// Result is the full outcome of a ScheduleRange call.
type Result struct {
	// Closers maps each weekend's Friday to the IDs of workers closing that weekend.
	Closers map[time.Time][]string
	// YTasks maps each date to the Y-task assignments made on it.
	YTasks map[time.Time][]YAssignment
	// Logs is an operator-facing narrative, appended to verbatim by callers.
	Logs []string
	// AssignmentErrors is the structured, closed vocabulary of assignment failures.
	AssignmentErrors []domain.AssignmentError
	// Success is false iff at least one AssignmentError has Severity == error.
	Success bool
}
