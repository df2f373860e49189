// ABOUTME: Unit tests for Charm-based draft storage.
// ABOUTME: Tests key formatting, prefix handling and the stored draft encoding without a live KV.
package charm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/mealplan/internal/models"
	"github.com/harperreed/mealplan/internal/onboarding"
)

func TestDraftKeyFormat(t *testing.T) {
	key := DraftKey("alice")
	assert.Equal(t, "draft:alice", key)
	assert.True(t, strings.HasPrefix(key, DraftPrefix))
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		prefix string
		want   string
	}{
		{"draft", "draft:alice", DraftPrefix, "alice"},
		{"nested", "draft:team:bob", DraftPrefix, "team:bob"},
		{"no prefix", "other:carol", DraftPrefix, "other:carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractID(tt.key, tt.prefix))
		})
	}
}

func TestStoredDraftRoundTrip(t *testing.T) {
	d := onboarding.NewDraft()
	d.CurrentStep = onboarding.StepActivity
	d.Physical.AgeYears = 31
	d.Physical.Gender = models.GenderFemale
	d.Activity = models.ActivityLight

	data, err := onboarding.EncodeDraft(d)
	require.NoError(t, err)

	got, err := onboarding.DecodeDraft(data)
	require.NoError(t, err)
	assert.Equal(t, onboarding.StepActivity, got.CurrentStep)
	assert.Equal(t, 31, got.Physical.AgeYears)
	assert.Equal(t, models.GenderFemale, got.Physical.Gender)
	assert.Equal(t, models.ActivityLight, got.Activity)
}

func TestStoredLegacyDraftIsMigrated(t *testing.T) {
	legacy := []byte(`{"age":40,"height":180,"weight":90,"gender":"male","activityLevel":"active","currentStep":3}`)

	got, err := onboarding.DecodeDraft(legacy)
	require.NoError(t, err)
	assert.Equal(t, onboarding.DraftVersion, got.Version)
	assert.Equal(t, 40, got.Physical.AgeYears)
	assert.InDelta(t, 90, got.Physical.Weight.Value, 0.001)
	assert.Equal(t, models.WeightKg, got.Physical.Weight.Unit)
}
