package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCurrentSnapshot_Defaults(t *testing.T) {
	svc := NewService(zap.NewNop())

	snapshot := svc.CurrentSnapshot()
	assert.Equal(t, defaultConfig, snapshot.AvatarConfig)
	assert.Nil(t, snapshot.SelectedOutfitID)
	assert.Equal(t, []string{"outfit-starter-analyst"}, snapshot.UnlockedOutfitIDs)
	assert.NotEmpty(t, snapshot.SavedAt)
}

func TestSave_RejectsMissingConfig(t *testing.T) {
	svc := NewService(zap.NewNop())

	_, err := svc.Save(SaveRequest{})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSave_UpsertsConfigAndUnlocksOutfit(t *testing.T) {
	svc := NewService(zap.NewNop())

	cfg := defaultConfig
	cfg.ClotheType = "BlazerSweater"
	outfit := "outfit-chart-wizard"

	snapshot, err := svc.Save(SaveRequest{AvatarConfig: &cfg, SelectedOutfitID: &outfit})
	assert.NoError(t, err)
	assert.Equal(t, "BlazerSweater", snapshot.AvatarConfig.ClotheType)
	assert.Equal(t, &outfit, snapshot.SelectedOutfitID)
	assert.Contains(t, snapshot.UnlockedOutfitIDs, "outfit-chart-wizard")
	assert.Contains(t, snapshot.UnlockedOutfitIDs, "outfit-starter-analyst")

	// A later save without an outfit clears the selection but not the unlock.
	snapshot, err = svc.Save(SaveRequest{AvatarConfig: &cfg})
	assert.NoError(t, err)
	assert.Nil(t, snapshot.SelectedOutfitID)
	assert.Contains(t, snapshot.UnlockedOutfitIDs, "outfit-chart-wizard")
}

func TestOutfits_CatalogIsWellFormed(t *testing.T) {
	svc := NewService(zap.NewNop())

	outfits := svc.Outfits()
	assert.NotEmpty(t, outfits)

	seen := map[string]bool{}
	for _, outfit := range outfits {
		assert.NotEmpty(t, outfit.ID)
		assert.NotEmpty(t, outfit.Name)
		assert.False(t, seen[outfit.ID], "duplicate outfit id %s", outfit.ID)
		seen[outfit.ID] = true
	}
	assert.True(t, seen["outfit-starter-analyst"])
}
