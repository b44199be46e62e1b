package scheduling

import (
	"strings"
	"testing"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fridays(t *testing.T, dates ...string) []time.Time {
	t.Helper()
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		parsed, err := time.Parse("2006-01-02", d)
		require.NoError(t, err)
		out[i] = domain.DateOnly(parsed)
	}
	return out
}

func TestCalculate_ConsecutiveXTaskWeeks_SecondIsSkippedWithCriticalAlert(t *testing.T) {
	semesterWeeks := fridays(t, "2025-01-03", "2025-01-10", "2025-01-17", "2025-01-24")
	w := domain.NewWorker("w1", "Nora", time.Time{}, nil, 4)
	w.ClosingHistory = []time.Time{semesterWeeks[0].AddDate(0, 0, -7)}
	w.XTasks["03/01/2025"] = "Rituk"
	w.XTasks["10/01/2025"] = "Rituk"

	calc := NewClosingScheduleCalculator()
	result := calc.Calculate(w, semesterWeeks)

	require.Len(t, result.RequiredDates, 1)
	assert.True(t, result.RequiredDates[0].Equal(semesterWeeks[0]), "only the first X-task week should become a required close")
	assert.Empty(t, result.OptimalDates, "the interval close this run should have been converted to a debt payback HOME week")
	assert.Equal(t, 1, result.FinalWeekendsHomeOwed)

	foundCritical := false
	for _, alert := range result.UserAlerts {
		if strings.Contains(alert, "CRITICAL ERROR") {
			foundCritical = true
		}
	}
	assert.True(t, foundCritical, "expected a critical alert for the skipped second X-task week")
}

func TestCalculate_OutOfTurnForcedCloseWithTwoHomeWeeksBefore_AddsOneOwedWeekend(t *testing.T) {
	semesterWeeks := fridays(t, "2025-02-07", "2025-02-14", "2025-02-21")
	w := domain.NewWorker("w1", "Alice", time.Time{}, nil, 100)
	w.ClosingHistory = []time.Time{semesterWeeks[0].AddDate(0, 0, -7)}
	w.XTasks["21/02/2025"] = "Rituk"

	calc := NewClosingScheduleCalculator()
	result := calc.Calculate(w, semesterWeeks)

	require.Len(t, result.RequiredDates, 1)
	assert.True(t, result.RequiredDates[0].Equal(semesterWeeks[2]))
	assert.Equal(t, 1, result.FinalWeekendsHomeOwed, "a forced close that is not also an interval close owes the worker one weekend")
}

func TestCalculate_NoSemesterWeeks_ReturnsExistingDebtUnchanged(t *testing.T) {
	w := domain.NewWorker("w1", "Alice", time.Time{}, nil, 4)
	w.WeekendsHomeOwed = 3

	calc := NewClosingScheduleCalculator()
	result := calc.Calculate(w, nil)

	assert.Equal(t, 3, result.FinalWeekendsHomeOwed)
	assert.Empty(t, result.RequiredDates)
	assert.Empty(t, result.OptimalDates)
}

func TestCalculate_IntervalCloseAvoidsLandingAdjacentToXTaskWeek(t *testing.T) {
	semesterWeeks := fridays(t, "2025-03-07", "2025-03-14", "2025-03-21", "2025-03-28")
	w := domain.NewWorker("w1", "Ben", time.Time{}, nil, 2)
	w.ClosingHistory = []time.Time{semesterWeeks[0].AddDate(0, 0, -7)}
	w.XTasks["14/03/2025"] = "Rituk"

	calc := NewClosingScheduleCalculator()
	result := calc.Calculate(w, semesterWeeks)

	for _, optimal := range result.OptimalDates {
		assert.False(t, optimal.Equal(semesterWeeks[1]), "an optimal close should never be scheduled on the X-task week itself")
		assert.False(t, optimal.Equal(semesterWeeks[0]), "an optimal close should never land the week before the X-task week")
		assert.False(t, optimal.Equal(semesterWeeks[2]), "an optimal close should never land the week after the X-task week")
	}
}
