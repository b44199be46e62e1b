package scheduling

import (
	"testing"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newScoredWorker(id string, qualifications []string, score float64) *domain.Worker {
	w := domain.NewWorker(id, id, time.Time{}, qualifications, 4)
	w.Score = score
	return w
}

func TestSameQualificationCountCohort_GroupsByCount(t *testing.T) {
	a := newScoredWorker("a", []string{"Supervisor", "C&N Driver"}, 1)
	b := newScoredWorker("b", []string{"Supervisor"}, 2)
	c := newScoredWorker("c", []string{"C&N Escort", "Southern Driver"}, 3)
	workers := []*domain.Worker{a, b, c}

	cohort := SameQualificationCountCohort{}.Cohort(a, workers, "")

	assert.ElementsMatch(t, []*domain.Worker{a, c}, cohort)
}

func TestHasRequiredQualificationCohort_GroupsByTrackedTask(t *testing.T) {
	a := newScoredWorker("a", []string{"Supervisor"}, 1)
	b := newScoredWorker("b", []string{"C&N Driver"}, 2)
	workers := []*domain.Worker{a, b}

	cohort := HasRequiredQualificationCohort{}.Cohort(a, workers, "Supervisor")

	// Both workers track every Y-task count regardless of qualification, so
	// this strategy groups on tracking, not on actual qualification.
	assert.ElementsMatch(t, []*domain.Worker{a, b}, cohort)
}

func TestCohortStrategyFor_ResolvesConfiguredStrategy(t *testing.T) {
	sameCfg := &domain.ScoringConfig{CohortStrategy: domain.CohortSameQualificationCount}
	assert.IsType(t, SameQualificationCountCohort{}, CohortStrategyFor(sameCfg))

	requiredCfg := &domain.ScoringConfig{CohortStrategy: domain.CohortHasRequiredQualification}
	assert.IsType(t, HasRequiredQualificationCohort{}, CohortStrategyFor(requiredCfg))
}

func TestUpdateScoreOnCloseEarly_AddsFixedBonus(t *testing.T) {
	w := newScoredWorker("a", nil, 0)
	cfg := domain.DefaultScoringConfig()

	delta := UpdateScoreOnCloseEarly(w, cfg)

	assert.Equal(t, cfg.EarlyCloseBonus, delta)
	assert.Equal(t, cfg.EarlyCloseBonus, w.Score)
}

func TestUpdateScoreOnCloseOverdue_ScalesWithWeeksOverdue(t *testing.T) {
	w := newScoredWorker("a", nil, 10)
	cfg := domain.DefaultScoringConfig()

	delta := UpdateScoreOnCloseOverdue(w, 2, cfg)

	assert.Equal(t, 1.5, delta)
	assert.Equal(t, 8.5, w.Score)
}

func TestApplySemesterEndCompensation_ConvertsDebtAndClearsIt(t *testing.T) {
	w := newScoredWorker("a", nil, 5)
	w.WeekendsHomeOwed = 4
	cfg := domain.DefaultScoringConfig()

	converted := ApplySemesterEndCompensation(w, cfg)

	assert.Equal(t, 2.0, converted)
	assert.Equal(t, 3.0, w.Score)
	assert.Equal(t, 0, w.WeekendsHomeOwed)
}

func TestApplySemesterEndCompensation_NoOpWithoutDebt(t *testing.T) {
	w := newScoredWorker("a", nil, 5)
	cfg := domain.DefaultScoringConfig()

	converted := ApplySemesterEndCompensation(w, cfg)

	assert.Equal(t, 0.0, converted)
	assert.Equal(t, 5.0, w.Score)
}

func TestUpdateScoreOnYFairness_PenalizesWorkersFarAboveAverage(t *testing.T) {
	overworked := newScoredWorker("a", nil, 0)
	overworked.YTaskCounts["Supervisor"] = 10
	rested := newScoredWorker("b", nil, 0)
	rested.YTaskCounts["Supervisor"] = 0
	workers := []*domain.Worker{overworked, rested}
	cfg := domain.DefaultScoringConfig()

	bonus := UpdateScoreOnYFairness(overworked, workers, cfg)

	assert.Greater(t, bonus, 0.0)
	assert.Greater(t, overworked.Score, 0.0)
}

func TestUpdateScoreOnYFairness_NoPenaltyWithinOneOfAverage(t *testing.T) {
	a := newScoredWorker("a", nil, 0)
	a.YTaskCounts["Supervisor"] = 1
	b := newScoredWorker("b", nil, 0)
	b.YTaskCounts["Supervisor"] = 1
	workers := []*domain.Worker{a, b}
	cfg := domain.DefaultScoringConfig()

	bonus := UpdateScoreOnYFairness(a, workers, cfg)

	assert.Equal(t, 0.0, bonus)
	assert.Equal(t, 0.0, a.Score)
}

func TestReverseAssignmentPenalty_UsesConfiguredPenaltyPerType(t *testing.T) {
	w := newScoredWorker("a", nil, 5)
	cfg := domain.DefaultScoringConfig()

	yPenalty := ReverseAssignmentPenalty(w, "y_task", cfg)
	assert.Equal(t, cfg.SwitchPenaltyYTask, yPenalty)

	closingPenalty := ReverseAssignmentPenalty(w, "closing", cfg)
	assert.Equal(t, cfg.SwitchPenaltyClosing, closingPenalty)
}

func TestRecalcWorkerSchedule_SyncsWorkerFieldsFromResult(t *testing.T) {
	w := domain.NewWorker("a", "Alice", time.Time{}, nil, 4)
	friday, _ := time.Parse("2006-01-02", "2025-01-10")
	semesterWeeks := []time.Time{domain.DateOnly(friday)}

	result := RecalcWorkerSchedule(w, semesterWeeks)

	assert.Equal(t, result.RequiredDates, w.RequiredClosingDates)
	assert.Equal(t, result.OptimalDates, w.OptimalClosingDates)
	assert.Equal(t, result.FinalWeekendsHomeOwed, w.WeekendsHomeOwed)
}
