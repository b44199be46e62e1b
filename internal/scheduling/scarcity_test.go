package scheduling

import (
	"testing"
	"time"

	"github.com/arlen-roster/dutyplanner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeQualificationScarcity_CountsAndInvertsAvailability(t *testing.T) {
	supervisorOnly := domain.NewWorker("a", "Alice", time.Time{}, []string{"Supervisor"}, 4)
	allRounder := domain.NewWorker("b", "Bob", time.Time{}, domain.YTaskTypes, 4)
	workers := []*domain.Worker{supervisorOnly, allRounder}

	result := ComputeQualificationScarcity(workers)

	assert.Equal(t, 2, result.Availability["Supervisor"])
	assert.Equal(t, 1, result.Availability["C&N Driver"])
	assert.InDelta(t, 0.5, result.Scarcity["Supervisor"], 1e-9)
	assert.InDelta(t, 1.0, result.Scarcity["C&N Driver"], 1e-9)
}

func TestComputeQualificationScarcity_ZeroAvailabilityNeverDividesByZero(t *testing.T) {
	result := ComputeQualificationScarcity(nil)

	for _, taskType := range domain.YTaskTypes {
		assert.Equal(t, 0, result.Availability[taskType])
		assert.Equal(t, 1.0, result.Scarcity[taskType])
	}
}

func TestComputeWorkerScarcityIndex_AveragesAcrossQualifications(t *testing.T) {
	w := domain.NewWorker("a", "Alice", time.Time{}, []string{"Supervisor", "C&N Driver"}, 4)
	taskScarcity := map[string]float64{"Supervisor": 0.5, "C&N Driver": 1.0}

	index := ComputeWorkerScarcityIndex(w, taskScarcity)

	assert.InDelta(t, 0.75, index, 1e-9)
}

func TestComputeWorkerScarcityIndex_NoQualificationsIsZero(t *testing.T) {
	w := domain.NewWorker("a", "Alice", time.Time{}, nil, 4)
	index := ComputeWorkerScarcityIndex(w, map[string]float64{"Supervisor": 0.5})
	assert.Equal(t, 0.0, index)
}

func TestPrioritizeTasksByScarcity_ScarcestFirst(t *testing.T) {
	a := domain.NewWorker("a", "Alice", time.Time{}, []string{"Supervisor", "C&N Driver", "Southern Escort"}, 4)
	b := domain.NewWorker("b", "Bob", time.Time{}, []string{"C&N Driver", "Southern Escort"}, 4)
	c := domain.NewWorker("c", "Charlie", time.Time{}, []string{"Southern Escort"}, 4)
	workers := []*domain.Worker{a, b, c}

	ordered := PrioritizeTasksByScarcity(workers, []string{"Southern Escort", "C&N Driver", "Supervisor"})

	require.Len(t, ordered, 3)
	assert.Equal(t, []string{"Supervisor", "C&N Driver", "Southern Escort"}, ordered)
}
