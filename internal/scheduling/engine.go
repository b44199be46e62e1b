/**
 * CONTEXT:   Chronological weekend/weekday duty assignment over a date range
 * INPUT:     A worker roster, a date range, closer quota, and a weekday task map
 * OUTPUT:    Closers per weekend, Y-task assignments, a narrative log, and errors
 * BUSINESS:  This is the single entry point that actually builds a schedule
 * CHANGE:    Initial Go port of SchedulingEngineV2.schedule_range and its helpers
 * RISK:      High - the weekend/weekday fallback staging is the most load-bearing
 *            logic in the repo; small ordering changes change who gets assigned what
 */

package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

// pythonWeekday maps Go's Sunday=0..Saturday=6 onto the roster's
// Monday=0..Sunday=6 convention used throughout the original specification.
func pythonWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

const (
	weekdayThursday = 3
	weekdayFriday   = 4
	weekdaySaturday = 5
)

// Engine runs the full scheduling workflow over a worker roster. It holds no
// goroutines, channels, or mutexes: ScheduleRange runs synchronously to
// completion and the caller owns all concurrency concerns around it.
type Engine struct {
	cfg  *domain.ScoringConfig
	calc *ClosingScheduleCalculator

	assignmentErrors []domain.AssignmentError

	availability        map[string]int
	taskScarcity        map[string]float64
	workerScarcityIndex map[string]float64
}

// NewEngine constructs an Engine. A nil cfg falls back to documented defaults.
func NewEngine(cfg *domain.ScoringConfig) *Engine {
	if cfg == nil {
		cfg = domain.DefaultScoringConfig()
	}
	return &Engine{
		cfg:  cfg,
		calc: NewClosingScheduleCalculator(),
	}
}

// precomputeAll recalculates every worker's closing schedule and refreshes
// the scarcity indices the rest of the run reads from.
func (e *Engine) precomputeAll(workers []*domain.Worker, semesterWeeks []time.Time) {
	for _, w := range workers {
		RecalcWorkerSchedule(w, semesterWeeks)
	}

	scarcity := ComputeQualificationScarcity(workers)
	e.availability = scarcity.Availability
	e.taskScarcity = scarcity.Scarcity

	e.workerScarcityIndex = make(map[string]float64, len(workers))
	for _, w := range workers {
		e.workerScarcityIndex[w.ID] = ComputeWorkerScarcityIndex(w, e.taskScarcity)
	}
}

type closerCandidate struct {
	worker       *domain.Worker
	isDueRank    int
	distanceToDue int
	score        float64
	lastClose    time.Time
	id           string
}

func closerCandidateLess(a, b closerCandidate) bool {
	if a.isDueRank != b.isDueRank {
		return a.isDueRank < b.isDueRank
	}
	if a.distanceToDue != b.distanceToDue {
		return a.distanceToDue < b.distanceToDue
	}
	if a.score != b.score {
		return a.score < b.score
	}
	if !a.lastClose.Equal(b.lastClose) {
		return a.lastClose.Before(b.lastClose)
	}
	return a.id < b.id
}

// RankWeekendCloserCandidates orders workers for the upcoming friday using
// pre-computed optimal closing dates: workers who are due close first, then
// by proximity to their optimal date, then basic fairness.
func (e *Engine) RankWeekendCloserCandidates(workers []*domain.Worker, friday time.Time) []*domain.Worker {
	weekAgo := friday.AddDate(0, 0, -7)
	var candidates []closerCandidate
	for _, w := range workers {
		if w.ClosedOn(weekAgo) {
			continue
		}

		isDue := w.HasOptimalClosingOn(friday)
		isDueRank := 1
		if isDue {
			isDueRank = 0
		}

		distanceToDue := 999
		for _, d := range w.OptimalClosingDates {
			weeks := int(friday.Sub(d).Hours()/24/7 + 0.5)
			if weeks < 0 {
				weeks = -weeks
			}
			if weeks < distanceToDue {
				distanceToDue = weeks
			}
		}

		lastClose := w.LastClosingDate()
		if lastClose.IsZero() {
			lastClose = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
		}

		candidates = append(candidates, closerCandidate{
			worker:        w,
			isDueRank:     isDueRank,
			distanceToDue: distanceToDue,
			score:         w.Score,
			lastClose:     lastClose,
			id:            w.ID,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return closerCandidateLess(candidates[i], candidates[j])
	})

	out := make([]*domain.Worker, len(candidates))
	for i, c := range candidates {
		out[i] = c.worker
	}
	return out
}

// eligibleWeekendWorker checks the hard constraints for assigning a weekend
// Y-task: not already assigned today, no consecutive close, not required to
// close next week, and under the per-task-type cap.
func (e *Engine) eligibleWeekendWorker(w *domain.Worker, friday time.Time, alreadyAssigned map[string]struct{}, task string, taskTypeCounts map[string]map[string]int, maxSameTaskType int) bool {
	if _, ok := alreadyAssigned[w.ID]; ok {
		return false
	}
	if w.ClosedOn(friday.AddDate(0, 0, -7)) {
		return false
	}
	if w.HasRequiredClosingOn(friday.AddDate(0, 0, 7)) {
		return false
	}
	if task != "" && maxSameTaskType > 0 {
		if taskTypeCounts[w.ID][task] >= maxSameTaskType {
			return false
		}
	}
	return true
}

// filterWeekdayCandidates applies the full weekday eligibility pipeline:
// not assigned today, under the weekly limit, under the task-type cap, not a
// weekend closer this week, and clear of yesterday's X-task cooldown. When
// nothing survives and fallback is allowed, it relaxes the weekly limit and
// then the task-type limit in turn before giving up.
func (e *Engine) filterWeekdayCandidates(
	qualified []*domain.Worker,
	taskDate time.Time,
	taskType string,
	dayAssigned map[string]struct{},
	weeklyAssigned map[string]struct{},
	logs *[]string,
	weeklyCounts map[string]int,
	taskTypeCounts map[string]map[string]int,
	weeklyLimit, maxSameTaskType int,
	allowFallback bool,
) []*domain.Worker {
	friday := upcomingFriday(taskDate)

	var eligible []*domain.Worker
	for _, w := range qualified {
		if _, ok := dayAssigned[w.ID]; ok {
			continue
		}
		if _, ok := weeklyAssigned[w.ID]; ok || weeklyCounts[w.ID] >= weeklyLimit {
			continue
		}
		if taskTypeCounts[w.ID][taskType] >= maxSameTaskType {
			*logs = append(*logs, fmt.Sprintf("  %s excluded: already assigned %s %d times (limit: %d)", w.Name, taskType, taskTypeCounts[w.ID][taskType], maxSameTaskType))
			continue
		}
		if w.HasRequiredClosingOn(friday) {
			*logs = append(*logs, fmt.Sprintf("  %s excluded: weekend closer on %s", w.Name, formatDate(friday)))
			continue
		}
		yesterday := taskDate.AddDate(0, 0, -1)
		if w.HasXTaskConflict(yesterday) {
			task, _ := w.XTaskOn(yesterday)
			*logs = append(*logs, fmt.Sprintf("  %s excluded: X-task cooldown (%s on %s)", w.Name, task, formatDate(yesterday)))
			continue
		}
		if w.HasYTaskOn(taskDate) {
			*logs = append(*logs, fmt.Sprintf("  %s excluded: already has Y-task on %s", w.Name, formatDate(taskDate)))
			continue
		}
		eligible = append(eligible, w)
	}

	if len(eligible) > 0 || !allowFallback {
		return eligible
	}

	*logs = append(*logs, fmt.Sprintf("FALLBACK: No ideal candidates for %s on %s, relaxing limits", taskType, formatDate(taskDate)))

	var fallback []*domain.Worker
	for _, w := range qualified {
		if _, ok := dayAssigned[w.ID]; ok {
			continue
		}
		if w.HasYTaskOn(taskDate) {
			continue
		}
		if taskTypeCounts[w.ID][taskType] >= maxSameTaskType {
			continue
		}
		fallback = append(fallback, w)
	}

	if len(fallback) == 0 {
		*logs = append(*logs, fmt.Sprintf("EXTREME FALLBACK: No candidates for %s even with relaxed weekly limit, relaxing task type limit too", taskType))
		for _, w := range qualified {
			if _, ok := dayAssigned[w.ID]; ok {
				continue
			}
			if w.HasYTaskOn(taskDate) {
				continue
			}
			fallback = append(fallback, w)
		}
	}

	sort.SliceStable(fallback, func(i, j int) bool { return fallback[i].Score < fallback[j].Score })
	return fallback
}

// filterWeekdayCandidatesRelaxed keeps only the constraints that are true
// hard conflicts: already assigned today, already has a Y-task that day, or
// is a weekend closer this week.
func (e *Engine) filterWeekdayCandidatesRelaxed(qualified []*domain.Worker, taskDate time.Time, dayAssigned map[string]struct{}) []*domain.Worker {
	friday := upcomingFriday(taskDate)
	var eligible []*domain.Worker
	for _, w := range qualified {
		if _, ok := dayAssigned[w.ID]; ok {
			continue
		}
		if w.HasYTaskOn(taskDate) {
			continue
		}
		if w.HasRequiredClosingOn(friday) {
			continue
		}
		eligible = append(eligible, w)
	}
	sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].Score < eligible[j].Score })
	return eligible
}

// selectFairestWeekdayCandidate picks the lowest-score, lowest-task-count,
// most-scarce-protected candidate from an already-filtered pool.
func (e *Engine) selectFairestWeekdayCandidate(eligible []*domain.Worker, task string, logs *[]string) *domain.Worker {
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		ac, bc := a.YTaskCounts[task], b.YTaskCounts[task]
		if ac != bc {
			return ac < bc
		}
		as, bs := -e.workerScarcityIndex[a.ID], -e.workerScarcityIndex[b.ID]
		if as != bs {
			return as < bs
		}
		return a.ID < b.ID
	})
	chosen := eligible[0]
	*logs = append(*logs, fmt.Sprintf("  Selected %s: score=%.1f, %s_count=%d", chosen.Name, chosen.Score, task, chosen.YTaskCounts[task]))
	return chosen
}

// upcomingFriday returns the first Friday on or after d, i.e. the weekend
// block that d's weekday duties feed into (a Saturday or Sunday maps to the
// following Friday).
func upcomingFriday(d time.Time) time.Time {
	offset := (weekdayFriday - pythonWeekday(d) + 7) % 7
	return domain.DateOnly(d).AddDate(0, 0, offset)
}

// assignWeekendYTasks fills Thu-Sat Y-tasks, giving closers the scarcest
// tasks first and then filling the rest through a three-stage fallback:
// workers due to close this weekend, any eligible worker, then any qualified
// worker at all.
func (e *Engine) assignWeekendYTasks(
	workers []*domain.Worker,
	thursday time.Time,
	pickedClosers []*domain.Worker,
	taskTypeCounts map[string]map[string]int,
	maxSameTaskType int,
) (map[time.Time][]YAssignment, []string) {
	var logs []string
	assigns := make(map[time.Time][]YAssignment)
	friday := thursday.AddDate(0, 0, 1)
	saturday := thursday.AddDate(0, 0, 2)
	days := []time.Time{thursday, friday, saturday}

	tasksInPriority := PrioritizeTasksByScarcity(workers, domain.YTaskTypes)
	logs = append(logs, fmt.Sprintf("Weekend task priority by scarcity: %v", tasksInPriority))

	addAssign := func(d time.Time, task string, w *domain.Worker) {
		assigns[d] = append(assigns[d], YAssignment{TaskType: task, WorkerID: w.ID})
		w.AssignYTask(d, task)
		if taskTypeCounts[w.ID] == nil {
			taskTypeCounts[w.ID] = make(map[string]int)
		}
		taskTypeCounts[w.ID][task]++
		logs = append(logs, fmt.Sprintf("Weekend Y assign %s -> %s on %s", task, w.Name, formatDate(d)))
	}

	// Closers get first pick, scarcest task first.
	for _, d := range days {
		assignedToday := make(map[string]struct{})
		for _, task := range tasksInPriority {
			var candidates []*domain.Worker
			for _, w := range pickedClosers {
				if _, done := assignedToday[w.ID]; done {
					continue
				}
				if w.HasQualification(task) {
					candidates = append(candidates, w)
				}
			}
			if len(candidates) == 0 {
				logs = append(logs, fmt.Sprintf("No eligible closers for %s on %s", task, formatDate(d)))
				continue
			}
			sort.SliceStable(candidates, func(i, j int) bool {
				a, b := candidates[i], candidates[j]
				if a.Score != b.Score {
					return a.Score < b.Score
				}
				as, bs := -e.workerScarcityIndex[a.ID], -e.workerScarcityIndex[b.ID]
				if as != bs {
					return as < bs
				}
				return a.ID < b.ID
			})
			chosen := candidates[0]
			addAssign(d, task, chosen)
			assignedToday[chosen.ID] = struct{}{}
		}
	}

	// Fill whatever's left with a three-stage fallback.
	for _, d := range days {
		assignedToday := make(map[string]struct{})
		for _, a := range assigns[d] {
			assignedToday[a.WorkerID] = struct{}{}
		}

		for _, task := range tasksInPriority {
			alreadyHasTask := false
			for _, a := range assigns[d] {
				if a.TaskType == task {
					alreadyHasTask = true
					break
				}
			}
			if alreadyHasTask {
				continue
			}

			var qualified []*domain.Worker
			for _, w := range workers {
				if w.HasQualification(task) {
					qualified = append(qualified, w)
				}
			}
			if len(qualified) == 0 {
				e.assignmentErrors = append(e.assignmentErrors, domain.AssignmentError{
					TaskType: task, Date: d, Reason: fmt.Sprintf("No workers qualified for %s", task), Severity: domain.SeverityError,
				})
				logs = append(logs, fmt.Sprintf("ERROR: No qualified workers for %s on %s", task, formatDate(d)))
				continue
			}

			var stageA, stageB, stageC []*domain.Worker
			for _, w := range qualified {
				eligible := e.eligibleWeekendWorker(w, friday, assignedToday, task, taskTypeCounts, maxSameTaskType)
				if eligible && w.HasOptimalClosingOn(friday) {
					stageA = append(stageA, w)
				}
				if eligible {
					stageB = append(stageB, w)
				}
				if _, done := assignedToday[w.ID]; !done {
					stageC = append(stageC, w)
				}
			}

			sortPool := func(pool []*domain.Worker) {
				sort.SliceStable(pool, func(i, j int) bool {
					a, b := pool[i], pool[j]
					if a.Score != b.Score {
						return a.Score < b.Score
					}
					as, bs := -e.workerScarcityIndex[a.ID], -e.workerScarcityIndex[b.ID]
					if as != bs {
						return as < bs
					}
					return a.ID < b.ID
				})
			}

			assigned := false
			for _, stage := range []struct {
				pool  []*domain.Worker
				label string
			}{{stageA, "optimal"}, {stageB, "eligible"}, {stageC, "any"}} {
				if len(stage.pool) == 0 {
					continue
				}
				sortPool(stage.pool)
				chosen := stage.pool[0]
				addAssign(d, task, chosen)
				assignedToday[chosen.ID] = struct{}{}
				logs = append(logs, fmt.Sprintf("  Stage %s: %s (score: %.1f)", stage.label, chosen.Name, chosen.Score))
				assigned = true
				break
			}

			if !assigned {
				e.assignmentErrors = append(e.assignmentErrors, domain.AssignmentError{
					TaskType: task, Date: d, Reason: "All qualified workers already assigned or ineligible", Severity: domain.SeverityError,
				})
				logs = append(logs, fmt.Sprintf("ERROR: Could not assign %s on %s", task, formatDate(d)))
			}
		}
	}

	return assigns, logs
}

// assignWeekendClosers fills the weekend's closer slots: X-task-required
// workers first, then ranked candidates for whatever slots remain.
func (e *Engine) assignWeekendClosers(workers []*domain.Worker, thursday time.Time, numSlots int, semesterWeeks []time.Time) ([]*domain.Worker, []string) {
	var logs []string
	var assigned []*domain.Worker
	assignedSet := make(map[string]struct{})

	friday := thursday.AddDate(0, 0, 1)

	for _, w := range workers {
		if w.HasRequiredClosingOn(friday) {
			assigned = append(assigned, w)
			assignedSet[w.ID] = struct{}{}
			e.afterClosingAssigned(w, friday, semesterWeeks)
			logs = append(logs, fmt.Sprintf("Required close: %s (X task)", w.Name))
		}
	}

	remaining := numSlots - len(assigned)
	if remaining < 0 {
		remaining = 0
	}
	if remaining == 0 {
		logs = append(logs, "All slots filled by required closers")
		return assigned, logs
	}

	nextFriday := friday.AddDate(0, 0, 7)
	prevFriday := friday.AddDate(0, 0, -7)

	ranked := e.RankWeekendCloserCandidates(workers, friday)
	var candidates []*domain.Worker
	for _, w := range ranked {
		if _, done := assignedSet[w.ID]; done {
			continue
		}
		if w.HasRequiredClosingOn(nextFriday) || w.HasRequiredClosingOn(prevFriday) {
			continue
		}
		candidates = append(candidates, w)
	}

	for _, w := range candidates {
		if remaining == 0 {
			break
		}
		if w.ClosedOn(friday.AddDate(0, 0, -7)) {
			continue
		}
		status := "available"
		if w.HasOptimalClosingOn(friday) {
			status = "due"
		}
		assigned = append(assigned, w)
		assignedSet[w.ID] = struct{}{}
		e.afterClosingAssigned(w, friday, semesterWeeks)
		remaining--
		logs = append(logs, fmt.Sprintf("Picked close: %s (%s) (Thu-Sat block starting %s)", w.Name, status, formatDate(thursday)))
	}

	if remaining > 0 {
		logs = append(logs, fmt.Sprintf("WARNING: Could not fill %d remaining closer slots", remaining))
		e.assignmentErrors = append(e.assignmentErrors, domain.AssignmentError{
			TaskType: "Weekend_Closer", Date: friday, Reason: fmt.Sprintf("Could not fill %d closer slots", remaining), Severity: domain.SeverityWarning,
		})
	}

	return assigned, logs
}

// assignWeekdayYTasks assigns every weekday (Sun-Wed) Y-task in tasksByDate,
// enforcing the weekly-per-worker limit and per-task-type cap, falling back
// to relaxed eligibility when the strict pipeline leaves nobody standing.
func (e *Engine) assignWeekdayYTasks(
	workers []*domain.Worker,
	tasksByDate map[time.Time][]string,
	weeklyLimit, maxSameTaskType int,
	taskTypeCounts map[string]map[string]int,
) (map[time.Time][]YAssignment, []string) {
	var logs []string
	assignments := make(map[time.Time][]YAssignment)

	weeklyAssigned := make(map[string]struct{})
	weeklyCounts := make(map[string]int)

	logs = append(logs, fmt.Sprintf("Enforcing strict weekly limit: max %d Y-task per worker", weeklyLimit))
	logs = append(logs, fmt.Sprintf("Enforcing task variety: max %d of the same task type per worker", maxSameTaskType))

	allTasksSet := make(map[string]struct{})
	for _, list := range tasksByDate {
		for _, t := range list {
			allTasksSet[t] = struct{}{}
		}
	}
	var allTasks []string
	for t := range allTasksSet {
		allTasks = append(allTasks, t)
	}
	sort.Strings(allTasks)
	taskPriority := PrioritizeTasksByScarcity(workers, allTasks)
	logs = append(logs, fmt.Sprintf("Weekday task priority by scarcity: %v", taskPriority))

	var dates []time.Time
	for d := range tasksByDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, d := range dates {
		wd := pythonWeekday(d)
		if wd == weekdayThursday || wd == weekdayFriday || wd == weekdaySaturday {
			logs = append(logs, fmt.Sprintf("Skip Y-tasks on weekend day %s (Thu-Sat)", formatDate(d)))
			continue
		}

		taskSet := make(map[string]struct{})
		for _, t := range tasksByDate[d] {
			taskSet[t] = struct{}{}
		}
		var prioritized []string
		for _, t := range taskPriority {
			if _, ok := taskSet[t]; ok {
				prioritized = append(prioritized, t)
			}
		}

		var dayAssigns []YAssignment
		for _, task := range prioritized {
			dayAssignedIDs := make(map[string]struct{})
			for _, a := range dayAssigns {
				dayAssignedIDs[a.WorkerID] = struct{}{}
			}

			var qualified []*domain.Worker
			for _, w := range workers {
				if w.HasQualification(task) {
					qualified = append(qualified, w)
				}
			}
			if len(qualified) == 0 {
				e.assignmentErrors = append(e.assignmentErrors, domain.AssignmentError{
					TaskType: task, Date: d, Reason: fmt.Sprintf("No workers qualified for %s", task), Severity: domain.SeverityError,
				})
				logs = append(logs, fmt.Sprintf("ERROR: No qualified workers for %s on %s", task, formatDate(d)))
				continue
			}

			eligible := e.filterWeekdayCandidates(qualified, d, task, dayAssignedIDs, weeklyAssigned, &logs, weeklyCounts, taskTypeCounts, weeklyLimit, maxSameTaskType, true)

			if len(eligible) == 0 {
				logs = append(logs, fmt.Sprintf("No ideal candidates for %s on %s, trying relaxed criteria...", task, formatDate(d)))
				eligible = e.filterWeekdayCandidatesRelaxed(qualified, d, dayAssignedIDs)
			}

			if len(eligible) == 0 {
				e.assignmentErrors = append(e.assignmentErrors, domain.AssignmentError{
					TaskType: task, Date: d, Reason: "All qualified workers have conflicts or are overworked", Severity: domain.SeverityError,
				})
				logs = append(logs, fmt.Sprintf("ERROR: No available candidates for %s on %s after all filtering", task, formatDate(d)))
				continue
			}

			chosen := e.selectFairestWeekdayCandidate(eligible, task, &logs)
			dayAssigns = append(dayAssigns, YAssignment{TaskType: task, WorkerID: chosen.ID})
			chosen.AssignYTask(d, task)
			weeklyAssigned[chosen.ID] = struct{}{}
			weeklyCounts[chosen.ID]++
			if taskTypeCounts[chosen.ID] == nil {
				taskTypeCounts[chosen.ID] = make(map[string]int)
			}
			taskTypeCounts[chosen.ID][task]++

			logs = append(logs, fmt.Sprintf("Y assign %s -> %s on %s (score: %.1f)", task, chosen.Name, formatDate(d), chosen.Score))
		}
		assignments[d] = dayAssigns
	}

	for _, w := range workers {
		UpdateScoreOnYFairness(w, workers, e.cfg)
	}

	return assignments, logs
}

// afterClosingAssigned records the close in history and recomputes the
// worker's schedule so required/optimal dates and owed debt stay in sync.
func (e *Engine) afterClosingAssigned(w *domain.Worker, friday time.Time, semesterWeeks []time.Time) {
	w.AssignClosing(friday)
	RecalcWorkerSchedule(w, semesterWeeks)
}

// IterWeekendBlockStarts returns every Thursday (the start of a Thu-Sat
// weekend block) within [start, end].
func IterWeekendBlockStarts(start, end time.Time) []time.Time {
	var thursdays []time.Time
	cur := domain.DateOnly(start)
	end = domain.DateOnly(end)
	for pythonWeekday(cur) != weekdayThursday && !cur.After(end) {
		cur = cur.AddDate(0, 0, 1)
	}
	for !cur.After(end) {
		thursdays = append(thursdays, cur)
		cur = cur.AddDate(0, 0, 7)
	}
	return thursdays
}

// ScheduleRange runs the complete scheduling workflow: weekend closers,
// weekend Y-tasks, then weekday Y-tasks, in that order, over [start, end].
func (e *Engine) ScheduleRange(
	workers []*domain.Worker,
	start, end time.Time,
	numClosersPerWeekend int,
	weekdayTasks map[time.Time][]string,
	weeklyLimit, maxSameTaskType int,
) Result {
	e.assignmentErrors = nil

	thursdays := IterWeekendBlockStarts(start, end)
	fridays := make([]time.Time, len(thursdays))
	for i, t := range thursdays {
		fridays[i] = t.AddDate(0, 0, 1)
	}
	semesterWeeks := append([]time.Time(nil), fridays...)
	if len(semesterWeeks) == 0 {
		semesterWeeks = []time.Time{domain.DateOnly(start)}
	}

	e.precomputeAll(workers, semesterWeeks)

	closers := make(map[time.Time][]string)
	yAssigns := make(map[time.Time][]YAssignment)
	var logs []string

	weeklyWorkerCounts := make(map[string]int)
	taskTypeCounts := make(map[string]map[string]int)

	logs = append(logs, fmt.Sprintf("Enforcing strict weekly limit: max %d Y-task per worker across ALL assignments", weeklyLimit))
	logs = append(logs, fmt.Sprintf("Enforcing task variety: max %d of the same task type per worker", maxSameTaskType))

	mergeAssigns := func(src map[time.Time][]YAssignment) {
		for d, pairs := range src {
			yAssigns[d] = append(yAssigns[d], pairs...)
			// taskTypeCounts is already bumped at assignment time by both the
			// weekend and weekday paths; only the run-wide total is added here.
			for _, p := range pairs {
				weeklyWorkerCounts[p.WorkerID]++
			}
		}
	}

	if len(thursdays) > 0 {
		logs = append(logs, "=== WEEKEND SCHEDULING ===")
		for i, thursday := range thursdays {
			friday := fridays[i]
			logs = append(logs, fmt.Sprintf("Processing weekend starting %s", formatDate(thursday)))

			pickedClosers, closerLogs := e.assignWeekendClosers(workers, thursday, numClosersPerWeekend, semesterWeeks)
			ids := make([]string, len(pickedClosers))
			for i, w := range pickedClosers {
				ids[i] = w.ID
			}
			closers[friday] = ids
			for _, msg := range closerLogs {
				logs = append(logs, fmt.Sprintf("%s: %s", formatDate(friday), msg))
			}

			var available []*domain.Worker
			for _, w := range workers {
				if weeklyWorkerCounts[w.ID] < weeklyLimit {
					available = append(available, w)
				}
			}
			if len(available) == 0 {
				logs = append(logs, "FALLBACK: No workers under weekly limit for weekend tasks, using all workers")
				available = append([]*domain.Worker(nil), workers...)
				sort.SliceStable(available, func(i, j int) bool { return available[i].Score < available[j].Score })
			} else if len(available) < len(workers) {
				logs = append(logs, fmt.Sprintf("Filtered out %d workers who reached weekly limit", len(workers)-len(available)))
			}

			weekendY, weekendLogs := e.assignWeekendYTasks(available, thursday, pickedClosers, taskTypeCounts, maxSameTaskType)
			for _, msg := range weekendLogs {
				logs = append(logs, fmt.Sprintf("%s: %s", formatDate(friday), msg))
			}
			mergeAssigns(weekendY)
		}
	}

	if len(weekdayTasks) > 0 {
		logs = append(logs, "=== WEEKDAY SCHEDULING ===")

		weekendCloserIDs := make(map[string]struct{})
		for _, ids := range closers {
			for _, id := range ids {
				weekendCloserIDs[id] = struct{}{}
			}
		}
		if len(weekendCloserIDs) > 0 {
			logs = append(logs, fmt.Sprintf("Excluding %d weekend closers from weekday Y-tasks", len(weekendCloserIDs)))
		}

		var eligible []*domain.Worker
		for _, w := range workers {
			if _, isCloser := weekendCloserIDs[w.ID]; isCloser {
				continue
			}
			if weeklyWorkerCounts[w.ID] >= weeklyLimit {
				continue
			}
			eligible = append(eligible, w)
		}
		if len(eligible) == 0 {
			logs = append(logs, "FALLBACK: No workers under weekly limit, using all available workers")
			for _, w := range workers {
				if _, isCloser := weekendCloserIDs[w.ID]; !isCloser {
					eligible = append(eligible, w)
				}
			}
			sort.SliceStable(eligible, func(i, j int) bool { return eligible[i].Score < eligible[j].Score })
		}

		weekdayY, weekdayLogs := e.assignWeekdayYTasks(eligible, weekdayTasks, weeklyLimit, maxSameTaskType, taskTypeCounts)
		logs = append(logs, weekdayLogs...)
		mergeAssigns(weekdayY)
	}

	if len(e.assignmentErrors) > 0 {
		logs = append(logs, "=== ASSIGNMENT ERRORS/WARNINGS ===")
		var errCount, warnCount int
		for _, err := range e.assignmentErrors {
			if err.Severity == domain.SeverityError {
				errCount++
			} else {
				warnCount++
			}
		}
		if errCount > 0 {
			logs = append(logs, fmt.Sprintf("ERRORS: %d tasks could not be assigned automatically", errCount))
		}
		if warnCount > 0 {
			logs = append(logs, fmt.Sprintf("WARNINGS: %d assignment issues detected", warnCount))
		}
		for _, err := range e.assignmentErrors {
			logs = append(logs, fmt.Sprintf("%s: %s on %s - %s", err.Severity, err.TaskType, formatDate(err.Date), err.Reason))
		}
	}

	logs = append(logs, "=== FINAL FAIRNESS UPDATE ===")
	for _, w := range workers {
		UpdateScoreOnYFairness(w, workers, e.cfg)
	}

	success := true
	for _, err := range e.assignmentErrors {
		if err.Severity == domain.SeverityError {
			success = false
			break
		}
	}

	return Result{
		Closers:          closers,
		YTasks:           yAssigns,
		Logs:             logs,
		AssignmentErrors: append([]domain.AssignmentError(nil), e.assignmentErrors...),
		Success:          success,
	}
}
