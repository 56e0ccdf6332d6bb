package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_Transitions(t *testing.T) {
	allowed := map[Stage][]Stage{
		StageIdle:       {StageUploading},
		StageUploading:  {StageExtracting, StageIdle},
		StageExtracting: {StageGenerating, StageIdle},
		StageGenerating: {StageEditing, StageIdle},
		StageEditing:    {StageIdle},
	}
	all := []Stage{StageIdle, StageUploading, StageExtracting, StageGenerating, StageEditing}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStage_ProgressIsMonotonicAlongThePipeline(t *testing.T) {
	pipeline := []Stage{StageIdle, StageUploading, StageExtracting, StageGenerating, StageEditing}
	want := []int{0, 20, 60, 100, 100}
	for i, s := range pipeline {
		assert.Equal(t, want[i], s.Progress(), string(s))
	}
}

func TestStage_Labels(t *testing.T) {
	assert.Empty(t, StageIdle.Label())
	assert.Equal(t, "upload", StageUploading.Label())
	assert.Equal(t, "extraction", StageExtracting.Label())
	assert.Equal(t, "generation", StageGenerating.Label())
	assert.Empty(t, StageEditing.Label())
}

func TestStage_IsActive(t *testing.T) {
	assert.False(t, StageIdle.IsActive())
	assert.True(t, StageUploading.IsActive())
	assert.True(t, StageExtracting.IsActive())
	assert.True(t, StageGenerating.IsActive())
	assert.False(t, StageEditing.IsActive())
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("editing")
	require.NoError(t, err)
	assert.Equal(t, StageEditing, s)

	_, err = ParseStage("done")
	assert.Error(t, err)
}
