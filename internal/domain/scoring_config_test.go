package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoringConfig_WeightsEveryYTaskType(t *testing.T) {
	cfg := DefaultScoringConfig()

	for _, taskType := range YTaskTypes {
		weight, ok := cfg.TaskWeights[taskType]
		require.True(t, ok, "missing weight for %s", taskType)
		assert.Equal(t, 1.0, weight)
	}
	assert.Equal(t, CohortHasRequiredQualification, cfg.CohortStrategy)
}

func TestLoadScoringConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadScoringConfig(filepath.Join(t.TempDir(), "does-not-exist.json"))

	require.NoError(t, err)
	assert.Equal(t, DefaultScoringConfig(), cfg)
}

func TestLoadScoringConfig_OverlaysOnDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.json")
	overlay := map[string]interface{}{
		"early_close_bonus": 3.0,
		"cohort_strategy":   "same_num_qualifications",
	}
	data, err := json.Marshal(overlay)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadScoringConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.EarlyCloseBonus)
	assert.Equal(t, CohortSameQualificationCount, cfg.CohortStrategy)
	// Fields absent from the overlay keep their defaults.
	assert.Equal(t, 0.75, cfg.OverdueReductionPerWeek)
}

func TestLoadScoringConfig_InvalidJSONErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scoring.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadScoringConfig(path)

	assert.Error(t, err)
}
