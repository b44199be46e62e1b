/**
 * CONTEXT:   Backwards-looking closing-schedule calculation per worker
 * INPUT:     A worker and the ordered list of weekend-block Fridays in range
 * OUTPUT:    Required (X-task) and optimal (interval) closing dates plus updated debt
 * BUSINESS:  Drives who is due to close and who is owed a HOME weekend
 * CHANGE:    Initial Go port of the closing schedule calculator
 * RISK:      Medium - the consecutive-close guard is the algorithm's core invariant
 */

package scheduling

import (
	"fmt"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

const (
	weekHome  = "HOME"
	weekClose = "CLOSE"
)

// ClosingScheduleResult is the outcome of calculating one worker's schedule
// across a set of semester weeks (Fridays).
type ClosingScheduleResult struct {
	RequiredDates        []time.Time
	OptimalDates         []time.Time
	FinalWeekendsHomeOwed int
	CalculationLog       []string
	UserAlerts           []string
}

// ClosingScheduleCalculator implements the roster's backwards-looking
// required/optimal close derivation, including consecutive-close avoidance
// and weekends-owed debt tracking.
type ClosingScheduleCalculator struct{}

// NewClosingScheduleCalculator constructs a calculator. It carries no state
// between calls; one instance can be reused across workers.
func NewClosingScheduleCalculator() *ClosingScheduleCalculator {
	return &ClosingScheduleCalculator{}
}

// Calculate derives the worker's required and optimal closing dates over
// semesterWeeks (each entry a Friday) and the resulting weekends-home-owed
// balance, without mutating the worker.
func (c *ClosingScheduleCalculator) Calculate(w *domain.Worker, semesterWeeks []time.Time) ClosingScheduleResult {
	if len(semesterWeeks) == 0 {
		return ClosingScheduleResult{
			FinalWeekendsHomeOwed: w.WeekendsHomeOwed,
			CalculationLog:        []string{"No semester weeks provided"},
		}
	}

	schedule := make([]string, len(semesterWeeks))
	for i := range schedule {
		schedule[i] = weekHome
	}
	owed := w.WeekendsHomeOwed
	var log []string
	var alerts []string

	lastClose := c.lastClosingDate(w, semesterWeeks[0])
	weeksSinceLastClose := c.weeksSinceLastClose(lastClose, semesterWeeks[0])

	xTaskWeeks := c.xTaskWeeks(w, semesterWeeks)
	intervalCloses := c.smartIntervalCloses(w, semesterWeeks, weeksSinceLastClose, xTaskWeeks)

	for weekIdx := range semesterWeeks {
		weekNum := weekIdx + 1
		_, hasX := xTaskWeeks[weekIdx]
		_, shouldCloseByInterval := intervalCloses[weekIdx]
		prevWasClose := weekIdx > 0 && schedule[weekIdx-1] == weekClose

		switch {
		case hasX:
			if prevWasClose {
				alerts = append(alerts, fmt.Sprintf(
					"CRITICAL ERROR: Week %d X task would cause consecutive close for %s - ALGORITHM FAILURE!",
					weekNum, w.Name))
				schedule[weekIdx] = weekHome
				log = append(log, fmt.Sprintf(
					"Week %d: X task SKIPPED to prevent consecutive close", weekNum))
			} else {
				debtChange, alert := c.handleXTaskWeek(w, weekIdx, schedule, shouldCloseByInterval)
				owed += debtChange
				if alert != "" {
					alerts = append(alerts, fmt.Sprintf("Week %d: %s", weekNum, alert))
				}
				log = append(log, fmt.Sprintf(
					"Week %d: X task - FORCED CLOSE, debt change: +%d, total owed: %d", weekNum, debtChange, owed))
				schedule[weekIdx] = weekClose
			}
		case shouldCloseByInterval:
			switch {
			case prevWasClose:
				schedule[weekIdx] = weekHome
				owed++
				log = append(log, fmt.Sprintf(
					"Week %d: Interval close skipped (would be consecutive) - HOME given, debt +1, total owed: %d", weekNum, owed))
			case owed > 0:
				schedule[weekIdx] = weekHome
				owed--
				log = append(log, fmt.Sprintf(
					"Week %d: Paying back debt - HOME instead of close, debt reduced to: %d", weekNum, owed))
			default:
				schedule[weekIdx] = weekClose
				log = append(log, fmt.Sprintf("Week %d: Normal interval close", weekNum))
			}
		default:
			schedule[weekIdx] = weekHome
			log = append(log, fmt.Sprintf("Week %d: Home week", weekNum))
		}
	}

	var required, optimal []time.Time
	for weekIdx, action := range schedule {
		if action != weekClose {
			continue
		}
		weekDate := semesterWeeks[weekIdx]
		if _, ok := xTaskWeeks[weekIdx]; ok {
			required = append(required, weekDate)
		} else {
			optimal = append(optimal, weekDate)
		}
	}

	return ClosingScheduleResult{
		RequiredDates:         required,
		OptimalDates:          optimal,
		FinalWeekendsHomeOwed: owed,
		CalculationLog:        log,
		UserAlerts:            alerts,
	}
}

// handleXTaskWeek decides the debt impact of an X-task-forced close, using the
// number of consecutive HOME weeks immediately preceding it.
func (c *ClosingScheduleCalculator) handleXTaskWeek(w *domain.Worker, weekIdx int, schedule []string, shouldCloseByInterval bool) (int, string) {
	homeWeeksBefore := c.countHomeWeeksBefore(schedule, weekIdx)

	if homeWeeksBefore >= 2 {
		if shouldCloseByInterval {
			return 0, ""
		}
		return 1, ""
	}

	alert := fmt.Sprintf("Worker %s has X task but only %d home weeks before. Forced assignment.", w.Name, homeWeeksBefore)

	if c.tryConvertRecentCloseToHome(schedule, weekIdx) {
		return 1, fmt.Sprintf("Converted recent close to home for %s", w.Name)
	}

	penalty := 1
	if homeWeeksBefore == 0 {
		penalty = 2
	}
	return penalty, alert
}

func (c *ClosingScheduleCalculator) countHomeWeeksBefore(schedule []string, weekIdx int) int {
	count := 0
	for i := weekIdx - 1; i >= 0; i-- {
		if schedule[i] != weekHome {
			break
		}
		count++
	}
	return count
}

// tryConvertRecentCloseToHome looks back up to three weeks for a close that
// can be flipped to HOME to make room for an X-task close, mutating schedule
// in place when it finds one.
func (c *ClosingScheduleCalculator) tryConvertRecentCloseToHome(schedule []string, weekIdx int) bool {
	start := weekIdx - 3
	if start < 0 {
		start = 0
	}
	for i := start; i < weekIdx; i++ {
		if schedule[i] == weekClose {
			schedule[i] = weekHome
			return true
		}
	}
	return false
}

// smartIntervalCloses computes which week indices should close purely by the
// worker's closing interval, shifting a candidate week away from any X-task
// week it would otherwise land adjacent to.
func (c *ClosingScheduleCalculator) smartIntervalCloses(w *domain.Worker, semesterWeeks []time.Time, weeksSinceLastClose int, xTaskWeeks map[int]struct{}) map[int]struct{} {
	result := make(map[int]struct{})
	if w.ClosingInterval <= 0 {
		return result
	}

	var firstCloseWeek int
	if weeksSinceLastClose >= w.ClosingInterval {
		firstCloseWeek = 0
	} else {
		weeksUntilDue := w.ClosingInterval - weeksSinceLastClose
		firstCloseWeek = weeksUntilDue - 1
	}

	step := w.ClosingInterval
	if step < 1 {
		step = 1
	}

	adjacentToX := func(week int) bool {
		prev, next := week-1, week+1
		_, prevHasX := xTaskWeeks[prev]
		_, nextHasX := xTaskWeeks[next]
		return (prev >= 0 && prevHasX) || (next < len(semesterWeeks) && nextHasX)
	}

	for current := firstCloseWeek; current < len(semesterWeeks); current += step {
		if current < 0 {
			continue
		}
		if !adjacentToX(current) {
			result[current] = struct{}{}
			continue
		}

		shifted := false
		for shift := 1; shift < w.ClosingInterval; shift++ {
			candidate := current + shift
			if candidate >= len(semesterWeeks) {
				break
			}
			if !adjacentToX(candidate) {
				result[candidate] = struct{}{}
				shifted = true
				break
			}
		}
		if !shifted {
			for shift := 1; shift < w.ClosingInterval; shift++ {
				candidate := current - shift
				if candidate < 0 {
					break
				}
				if !adjacentToX(candidate) {
					result[candidate] = struct{}{}
					shifted = true
					break
				}
			}
		}
		// If no shift works, the interval close is simply dropped; the weekly
		// loop will record it as a skipped HOME week and add debt.
	}

	return result
}

func (c *ClosingScheduleCalculator) xTaskWeeks(w *domain.Worker, semesterWeeks []time.Time) map[int]struct{} {
	weeks := make(map[int]struct{})
	for idx, weekDate := range semesterWeeks {
		if _, ok := w.XTaskOn(weekDate); ok {
			weeks[idx] = struct{}{}
		}
	}
	return weeks
}

// lastClosingDate returns the worker's most recent recorded close (which can
// fall inside the semester once the scheduler has appended to the history),
// or a synthetic date one interval back when there is no history at all.
func (c *ClosingScheduleCalculator) lastClosingDate(w *domain.Worker, semesterStart time.Time) time.Time {
	if len(w.ClosingHistory) > 0 {
		return w.ClosingHistory[len(w.ClosingHistory)-1]
	}
	weeksBack := w.ClosingInterval - 1
	if weeksBack < 0 {
		weeksBack = 0
	}
	return semesterStart.AddDate(0, 0, -7*weeksBack)
}

func (c *ClosingScheduleCalculator) weeksSinceLastClose(lastClose, semesterStart time.Time) int {
	days := int(semesterStart.Sub(lastClose).Hours() / 24)
	return days / 7
}
