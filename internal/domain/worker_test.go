package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func TestNewWorker_InitializesYTaskCountsForEveryType(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), []string{"Supervisor"}, 4)

	for _, taskType := range YTaskTypes {
		count, ok := w.YTaskCounts[taskType]
		assert.True(t, ok, "expected %s to be pre-populated", taskType)
		assert.Equal(t, 0, count)
	}
}

func TestHasQualification(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), []string{"Supervisor", "C&N Driver"}, 4)

	assert.True(t, w.HasQualification("Supervisor"))
	assert.False(t, w.HasQualification("Southern Escort"))
}

func TestScoreBonusRoundTrip(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)

	w.AddScoreBonus(2.5)
	assert.Equal(t, 2.5, w.Score)

	reduced := w.SubtractScoreBonus(1.0)
	assert.Equal(t, 1.0, reduced)
	assert.Equal(t, 1.5, w.Score)
}

func TestSubtractScoreBonus_FloorsAtZero(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	w.Score = 1.0

	reduced := w.SubtractScoreBonus(5.0)
	assert.Equal(t, 1.0, reduced)
	assert.Equal(t, 0.0, w.Score)
}

func TestXTaskOn_MatchesDateOnly(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	friday := mustDate(t, "2025-01-10")
	w.XTasks["10/01/2025"] = "Rituk"

	task, ok := w.XTaskOn(friday)
	require.True(t, ok)
	assert.Equal(t, "Rituk", task)
}

func TestHasXTaskConflict_RitukIsExempt(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	d := mustDate(t, "2025-01-10")
	w.XTasks["10/01/2025"] = "RITUK"

	assert.False(t, w.HasXTaskConflict(d), "Rituk should never be a conflict, case-insensitively")
}

func TestHasXTaskConflict_OtherTasksConflict(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	d := mustDate(t, "2025-01-10")
	w.XTasks["10/01/2025"] = "Reserves"

	assert.True(t, w.HasXTaskConflict(d))
}

func TestAssignYTask_BumpsCount(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), []string{"Supervisor"}, 4)
	d := mustDate(t, "2025-01-06")

	w.AssignYTask(d, "Supervisor")

	assert.True(t, w.HasYTaskOn(d))
	assert.Equal(t, 1, w.YTaskCounts["Supervisor"])
}

func TestAssignClosing_DeduplicatesAndSorts(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	d1 := mustDate(t, "2025-01-17")
	d2 := mustDate(t, "2025-01-03")

	w.AssignClosing(d1)
	w.AssignClosing(d2)
	w.AssignClosing(d1)

	require.Len(t, w.ClosingHistory, 2)
	assert.True(t, w.ClosingHistory[0].Equal(d2), "history should be sorted ascending")
	assert.True(t, w.ClosingHistory[1].Equal(d1))
}

func TestLastClosingDate_EmptyHistoryReturnsZero(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	assert.True(t, w.LastClosingDate().IsZero())
}

func TestRequiredAndOptimalClosingLookups(t *testing.T) {
	w := NewWorker("w1", "Alice", mustDate(t, "2023-01-01"), nil, 4)
	friday := mustDate(t, "2025-01-10")
	w.RequiredClosingDates = []time.Time{friday}

	assert.True(t, w.HasRequiredClosingOn(friday))
	assert.False(t, w.HasOptimalClosingOn(friday))
}
