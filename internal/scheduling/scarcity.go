/**
 * CONTEXT:   Qualification scarcity computation used to prioritize assignment order
 * INPUT:     The full worker roster
 * OUTPUT:    Per-task availability counts, per-task scarcity scores, per-worker index
 * BUSINESS:  Scarcer qualifications get filled first and their holders get protected
 * CHANGE:    Initial Go port of compute_qualification_scarcity / worker_scarcity_index
 * RISK:      Low - pure computation over the roster snapshot
 */

package scheduling

import (
	"sort"

	"github.com/arlen-roster/dutyplanner/internal/domain"
)

// QualificationScarcity holds availability counts and derived scarcity scores
// for every Y-task type, computed once per scheduling run.
type QualificationScarcity struct {
	Availability map[string]int
	Scarcity     map[string]float64
}

// ComputeQualificationScarcity counts how many workers hold each Y-task
// qualification and derives scarcity = 1 / max(1, count): lower is less scarce.
func ComputeQualificationScarcity(workers []*domain.Worker) QualificationScarcity {
	availability := make(map[string]int, len(domain.YTaskTypes))
	for _, t := range domain.YTaskTypes {
		availability[t] = 0
	}
	for _, w := range workers {
		for _, t := range domain.YTaskTypes {
			if w.HasQualification(t) {
				availability[t]++
			}
		}
	}
	scarcity := make(map[string]float64, len(availability))
	for t, n := range availability {
		denom := n
		if denom < 1 {
			denom = 1
		}
		scarcity[t] = 1.0 / float64(denom)
	}
	return QualificationScarcity{Availability: availability, Scarcity: scarcity}
}

// ComputeWorkerScarcityIndex averages task scarcity across a worker's
// qualifications. Higher means the worker holds rarer qualifications and
// should be protected from overuse/closing churn.
func ComputeWorkerScarcityIndex(w *domain.Worker, taskScarcity map[string]float64) float64 {
	var sum float64
	var n int
	for _, t := range domain.YTaskTypes {
		if w.HasQualification(t) {
			sum += taskScarcity[t]
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PrioritizeTasksByScarcity orders taskList so the scarcest qualification
// (fewest qualified workers) is assigned first.
func PrioritizeTasksByScarcity(workers []*domain.Worker, taskList []string) []string {
	scarcity := ComputeQualificationScarcity(workers)
	out := append([]string(nil), taskList...)
	sort.SliceStable(out, func(i, j int) bool {
		return scarcity.Availability[out[i]] < scarcity.Availability[out[j]]
	})
	return out
}
