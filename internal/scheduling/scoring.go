/**
 * CONTEXT:   Fairness scoring mutators applied to workers during scheduling
 * INPUT:     A worker (or cohort of workers) plus a ScoringConfig
 * OUTPUT:    In-place score/debt adjustments on the affected worker(s)
 * BUSINESS:  Score is the single number every ranking decision sorts on
 * CHANGE:    Initial Go port of scoring.py
 * RISK:      Low - pure mutation helpers with no control flow of their own
 */

package scheduling

import (
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

// CohortStrategy groups workers for fairness comparisons. It is the
// tagged-variant replacement for the roster's COHORT_STRATEGY string switch.
type CohortStrategy interface {
	Cohort(worker *domain.Worker, allWorkers []*domain.Worker, taskType string) []*domain.Worker
}

// SameQualificationCountCohort groups workers sharing the same number of
// qualifications as the subject worker.
type SameQualificationCountCohort struct{}

func (SameQualificationCountCohort) Cohort(worker *domain.Worker, allWorkers []*domain.Worker, _ string) []*domain.Worker {
	target := len(worker.Qualifications)
	var out []*domain.Worker
	for _, w := range allWorkers {
		if len(w.Qualifications) == target {
			out = append(out, w)
		}
	}
	return out
}

// HasRequiredQualificationCohort groups workers whose YTaskCounts has an entry
// for the given task type. NewWorker pre-populates every Y-task type, so this
// includes workers who are not qualified for the task.
type HasRequiredQualificationCohort struct{}

func (HasRequiredQualificationCohort) Cohort(_ *domain.Worker, allWorkers []*domain.Worker, taskType string) []*domain.Worker {
	if taskType == "" {
		return allWorkers
	}
	var out []*domain.Worker
	for _, w := range allWorkers {
		if _, tracked := w.YTaskCounts[taskType]; tracked {
			out = append(out, w)
		}
	}
	return out
}

// CohortStrategyFor resolves a ScoringConfig's named strategy to its
// implementation, defaulting to HasRequiredQualificationCohort.
func CohortStrategyFor(cfg *domain.ScoringConfig) CohortStrategy {
	if cfg.CohortStrategy == domain.CohortSameQualificationCount {
		return SameQualificationCountCohort{}
	}
	return HasRequiredQualificationCohort{}
}

// UpdateScoreOnCloseEarly applies the fixed early-close bonus. Kept simple
// deliberately: once required/optimal dates are pre-computed, there's no need
// for interval-aware compensation here.
func UpdateScoreOnCloseEarly(w *domain.Worker, cfg *domain.ScoringConfig) float64 {
	w.AddScoreBonus(cfg.EarlyCloseBonus)
	return cfg.EarlyCloseBonus
}

// UpdateScoreOnCloseOverdue reduces score proportionally to how many weeks
// overdue a close was, rewarding the worker for having waited.
func UpdateScoreOnCloseOverdue(w *domain.Worker, weeksOverdue int, cfg *domain.ScoringConfig) float64 {
	reduction := float64(weeksOverdue) * cfg.OverdueReductionPerWeek
	if reduction <= 0 {
		return 0
	}
	return w.SubtractScoreBonus(reduction)
}

// ApplySemesterEndCompensation converts any remaining weekends-home-owed debt
// into score credit and clears the debt, used when a scheduling horizon ends
// before the debt could be paid back in kind.
func ApplySemesterEndCompensation(w *domain.Worker, cfg *domain.ScoringConfig) float64 {
	if w.WeekendsHomeOwed <= 0 {
		return 0
	}
	converted := float64(w.WeekendsHomeOwed) * cfg.OweToScoreConversion
	w.SubtractScoreBonus(converted)
	w.WeekendsHomeOwed = 0
	return converted
}

// UpdateScoreOnYFairness penalizes a worker whose total Y-task count is
// more than one above the average across allWorkers.
func UpdateScoreOnYFairness(w *domain.Worker, allWorkers []*domain.Worker, cfg *domain.ScoringConfig) float64 {
	workerTotal := sumYTaskCounts(w)
	if len(allWorkers) == 0 {
		return 0
	}
	total := 0
	for _, other := range allWorkers {
		total += sumYTaskCounts(other)
	}
	avg := float64(total) / float64(len(allWorkers))

	overAverage := float64(workerTotal) - avg
	if overAverage <= 1.0 {
		return 0
	}
	bonus := overAverage * cfg.YTaskFairnessWeight
	w.AddScoreBonus(bonus)
	return bonus
}

func sumYTaskCounts(w *domain.Worker) int {
	total := 0
	for _, c := range w.YTaskCounts {
		total += c
	}
	return total
}

// RecalcWorkerSchedule recomputes one worker's required/optimal closing dates
// and syncs WeekendsHomeOwed, used both at precompute time and after every
// new closing assignment.
func RecalcWorkerSchedule(w *domain.Worker, semesterWeeks []time.Time) ClosingScheduleResult {
	calc := NewClosingScheduleCalculator()
	result := calc.Calculate(w, semesterWeeks)
	w.RequiredClosingDates = result.RequiredDates
	w.OptimalClosingDates = result.OptimalDates
	w.WeekendsHomeOwed = result.FinalWeekendsHomeOwed
	return result
}

// ReverseAssignmentPenalty subtracts the configured switch penalty when a
// previously made assignment is undone by a caller (e.g. a manual override).
func ReverseAssignmentPenalty(w *domain.Worker, assignmentType string, cfg *domain.ScoringConfig) float64 {
	var penalty float64
	switch assignmentType {
	case "y_task":
		penalty = cfg.SwitchPenaltyYTask
	case "closing":
		penalty = cfg.SwitchPenaltyClosing
	}
	if penalty <= 0 {
		return 0
	}
	return w.SubtractScoreBonus(penalty)
}

// formatDate renders a date the way engine logs present it everywhere: dd/mm/yyyy.
func formatDate(d time.Time) string {
	return d.Format("02/01/2006")
}
