package settings

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitraverify/verifyd/src/data"
)

func TestLoadDefaultsWhenEmpty(t *testing.T) {
	s := Load(context.Background(), data.NewMemoryKV())

	got := s.Get()
	assert.True(t, got.AutoScan)
	assert.True(t, got.ShowNotifications)
	assert.Equal(t, 0.7, got.ConfidenceThreshold)
	assert.True(t, got.Methods.Image)
}

func TestLoadMergesPersistedOverDefaults(t *testing.T) {
	ctx := context.Background()
	kv := data.NewMemoryKV()

	// A blob written by an older version: knows nothing about methods/ui.
	old := `{"autoScan":false,"confidenceThreshold":0.9,"siteEnabled":{"twitter.com":false}}`
	require.NoError(t, kv.Set(ctx, "userSettings", []byte(old)))

	got := Load(ctx, kv).Get()
	assert.False(t, got.AutoScan, "persisted override kept")
	assert.Equal(t, 0.9, got.ConfidenceThreshold)
	assert.False(t, got.SiteEnabled["twitter.com"])
	assert.True(t, got.Methods.Text, "upgrade field gets its default")
	assert.True(t, got.UI.ShowBadge, "upgrade field gets its default")
}

func TestLoadDiscardsMalformedBlob(t *testing.T) {
	ctx := context.Background()
	kv := data.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "userSettings", []byte("{not json")))

	got := Load(ctx, kv).Get()
	assert.Equal(t, Defaults().ConfidenceThreshold, got.ConfidenceThreshold)
}

func TestUpdateShallowMergesAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := data.NewMemoryKV()
	s := Load(ctx, kv)

	_, err := s.Update(ctx, json.RawMessage(`{"confidenceThreshold":0.55,"showNotifications":false}`))
	require.NoError(t, err)

	got := s.Get()
	assert.Equal(t, 0.55, got.ConfidenceThreshold)
	assert.False(t, got.ShowNotifications)
	assert.True(t, got.AutoScan, "untouched fields survive")

	// A fresh load sees the persisted result.
	reloaded := Load(ctx, kv).Get()
	assert.Equal(t, 0.55, reloaded.ConfidenceThreshold)
	assert.False(t, reloaded.ShowNotifications)
}

func TestUpdateRejectsBadPatch(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, data.NewMemoryKV())

	_, err := s.Update(ctx, json.RawMessage(`"not an object"`))
	assert.Error(t, err)
	assert.True(t, s.Get().AutoScan, "failed update leaves settings untouched")
}

func TestSetAutoScan(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, data.NewMemoryKV())

	got, err := s.SetAutoScan(ctx, false)
	require.NoError(t, err)
	assert.False(t, got.AutoScan)
	assert.False(t, s.Get().AutoScan)
}
