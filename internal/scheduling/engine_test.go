package scheduling

import (
	"testing"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return domain.DateOnly(d)
}

// fiveAllRounders builds the five-worker roster used by the boundary
// scenarios: each qualified for every Y-task type, scored 1 through 5 so
// closer and candidate ranking is deterministic.
func fiveAllRounders() []*domain.Worker {
	names := []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}
	workers := make([]*domain.Worker, len(names))
	for i, name := range names {
		w := domain.NewWorker(name, name, time.Time{}, append([]string(nil), domain.YTaskTypes...), 100)
		w.Score = float64(i + 1)
		workers[i] = w
	}
	return workers
}

func TestScheduleRange_WeekdayOnly_SixDistinctAssignments(t *testing.T) {
	workers := fiveAllRounders()
	mon := parseDate(t, "2025-01-06")
	tue := parseDate(t, "2025-01-07")
	wed := parseDate(t, "2025-01-08")

	weekdayTasks := map[time.Time][]string{
		mon: {"Supervisor", "C&N Driver"},
		tue: {"C&N Escort", "Southern Driver"},
		wed: {"Southern Escort", "Supervisor"},
	}

	engine := NewEngine(domain.DefaultScoringConfig())
	result := engine.ScheduleRange(workers, mon, wed, 0, weekdayTasks, 2, 2)

	assert.True(t, result.Success)
	assert.Empty(t, result.Closers)

	total := 0
	for day, assigns := range result.YTasks {
		workersToday := make(map[string]struct{})
		for _, a := range assigns {
			total++
			_, dup := workersToday[a.WorkerID]
			assert.False(t, dup, "worker %s assigned twice on %s", a.WorkerID, day)
			workersToday[a.WorkerID] = struct{}{}
		}
	}
	assert.Equal(t, 6, total)
}

func TestScheduleRange_WeekendOnly_TwoClosersAndFiveDailyAssignments(t *testing.T) {
	workers := fiveAllRounders()
	thursday := parseDate(t, "2025-01-02")
	friday := parseDate(t, "2025-01-03")
	saturday := parseDate(t, "2025-01-04")

	engine := NewEngine(domain.DefaultScoringConfig())
	result := engine.ScheduleRange(workers, thursday, saturday, 2, nil, 10, 10)

	require.Contains(t, result.Closers, friday)
	assert.Len(t, result.Closers[friday], 2)

	for _, day := range []time.Time{thursday, friday, saturday} {
		assigns := result.YTasks[day]
		assert.Len(t, assigns, len(domain.YTaskTypes), "expected one assignment per Y-task type on %s", day)

		taskTypesSeen := make(map[string]struct{})
		workersSeen := make(map[string]struct{})
		for _, a := range assigns {
			taskTypesSeen[a.TaskType] = struct{}{}
			_, dup := workersSeen[a.WorkerID]
			assert.False(t, dup, "worker %s appears twice on %s", a.WorkerID, day)
			workersSeen[a.WorkerID] = struct{}{}
		}
		assert.Len(t, taskTypesSeen, len(domain.YTaskTypes))
	}
}

func TestScheduleRange_Mixed_WeekendClosersDisjointFromWeekdayAssignees(t *testing.T) {
	workers := fiveAllRounders()
	mon := parseDate(t, "2025-01-06")
	tue := parseDate(t, "2025-01-07")
	wed := parseDate(t, "2025-01-08")
	sat := parseDate(t, "2025-01-11")
	friday := parseDate(t, "2025-01-10")

	weekdayTasks := map[time.Time][]string{
		mon: {"Supervisor", "C&N Driver"},
		tue: {"C&N Escort", "Southern Driver"},
		wed: {"Southern Escort", "Supervisor"},
	}

	engine := NewEngine(domain.DefaultScoringConfig())
	result := engine.ScheduleRange(workers, mon, sat, 2, weekdayTasks, 3, 2)

	closerIDs := make(map[string]struct{})
	for _, id := range result.Closers[friday] {
		closerIDs[id] = struct{}{}
	}
	require.NotEmpty(t, closerIDs)

	for _, d := range []time.Time{mon, tue, wed} {
		for _, a := range result.YTasks[d] {
			_, isCloser := closerIDs[a.WorkerID]
			assert.False(t, isCloser, "weekend closer %s should not be assigned a weekday Y-task in the same week", a.WorkerID)
		}
	}
}

func TestScheduleRange_ScarcityTie_LowerScoreWorkerChosenFirst(t *testing.T) {
	lowScore := domain.NewWorker("low", "LowScore", time.Time{}, []string{"Supervisor"}, 100)
	lowScore.Score = 10
	highScore := domain.NewWorker("high", "HighScore", time.Time{}, []string{"Supervisor"}, 100)
	highScore.Score = 20
	workers := []*domain.Worker{lowScore, highScore}

	mon := parseDate(t, "2025-01-06")
	weekdayTasks := map[time.Time][]string{mon: {"Supervisor"}}

	engine := NewEngine(domain.DefaultScoringConfig())
	result := engine.ScheduleRange(workers, mon, mon, 0, weekdayTasks, 1, 1)

	require.Len(t, result.YTasks[mon], 1)
	assert.Equal(t, "low", result.YTasks[mon][0].WorkerID)
}
