/**
 * CONTEXT:   Tunable scoring parameters for the duty roster fairness model
 * INPUT:     Optional JSON override file, falling back to documented defaults
 * OUTPUT:    A ScoringConfig ready for use by the scheduling engine
 * BUSINESS:  Tuning these values changes how aggressively the roster penalizes
 *            overwork without touching engine code
 * CHANGE:    Initial Go port of the scoring configuration dataclass
 * RISK:      Low - pure data with defaulted fields
 */

package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// CohortStrategyName selects how ScoringConfig.Cohort groups workers for
// fairness comparisons.
type CohortStrategyName string

const (
	// CohortSameQualificationCount groups workers with an identical qualification count.
	CohortSameQualificationCount CohortStrategyName = "same_num_qualifications"
	// CohortHasRequiredQualification groups workers who track a count for the task
	// in question; qualification itself is not checked.
	CohortHasRequiredQualification CohortStrategyName = "has_required_qualification"
)

// ScoringConfig centralizes every tunable weight the scoring functions use.
type ScoringConfig struct {
	TaskWeights map[string]float64 `json:"task_weights"`

	WeekdayOnlyForFairness bool `json:"weekday_only_for_fairness"`
	SupervisorSeparate     bool `json:"supervisor_separate"`

	CohortStrategy CohortStrategyName `json:"cohort_strategy"`

	EarlyCloseBonus         float64 `json:"early_close_bonus"`
	OverdueReductionPerWeek float64 `json:"overdue_reduction_per_week"`
	OweToScoreConversion    float64 `json:"owe_to_score_conversion"`
	YTaskFairnessWeight     float64 `json:"y_task_fairness_weight"`

	SwitchPenaltyYTask   float64 `json:"switch_penalty_y_task"`
	SwitchPenaltyClosing float64 `json:"switch_penalty_closing"`

	YearResetEnabled bool `json:"year_reset_enabled"`
}

// DefaultScoringConfig returns the roster's documented defaults.
func DefaultScoringConfig() *ScoringConfig {
	weights := make(map[string]float64, len(YTaskTypes))
	for _, t := range YTaskTypes {
		weights[t] = 1.0
	}
	return &ScoringConfig{
		TaskWeights:             weights,
		WeekdayOnlyForFairness:  true,
		SupervisorSeparate:      true,
		CohortStrategy:          CohortHasRequiredQualification,
		EarlyCloseBonus:         1.0,
		OverdueReductionPerWeek: 0.75,
		OweToScoreConversion:    0.5,
		YTaskFairnessWeight:     0.5,
		SwitchPenaltyYTask:      0.5,
		SwitchPenaltyClosing:    1.5,
		YearResetEnabled:        true,
	}
}

// LoadScoringConfig reads JSON overrides from path on top of the defaults.
// A missing file is not an error: the defaults are returned unchanged.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	cfg := DefaultScoringConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read scoring config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse scoring config %s: %w", path, err)
	}
	return cfg, nil
}
