/**
 * CONTEXT:   Structured assignment failure vocabulary distinct from Go errors
 * INPUT:     Task type, date, and reason produced by the scheduling engine
 * OUTPUT:    AssignmentError values collected across a schedule_range call
 * BUSINESS:  Callers need machine-readable severities, not just log lines
 * CHANGE:    Initial port of the engine's AssignmentError dataclass
 * RISK:      Low - plain data, no behavior
 */

package domain

import "time"

// AssignmentSeverity classifies how serious an AssignmentError is.
type AssignmentSeverity string

const (
	SeverityWarning AssignmentSeverity = "warning"
	SeverityError   AssignmentSeverity = "error"
)

// AssignmentError records a single task the engine could not, or could only
// partially, assign. It is never represented as a Go error value: ordinary
// `error` is reserved for ambient-stack failures (I/O, config, parsing).
type AssignmentError struct {
	TaskType string
	Date     time.Time
	Reason   string
	Severity AssignmentSeverity
}
