package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvSheetID, "sheet-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", cfg.SheetID)
	assert.Equal(t, DefaultSheetName, cfg.SheetName)
	assert.Equal(t, DefaultRefreshTTL, cfg.RefreshTTL)
	assert.Equal(t, DefaultMatchThreshold, cfg.MatchThreshold)
	assert.Equal(t, DefaultMatchAnchors, cfg.MatchAnchors)
	assert.Equal(t, DefaultMatchLimit, cfg.MatchLimit)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "TTHC!A1:Q", cfg.ValuesRange())
}

func TestLoadRequiresSheetID(t *testing.T) {
	t.Setenv(EnvSheetID, "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvSheetID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvSheetID, "sheet-123")
	t.Setenv(EnvSheetName, "DATA")
	t.Setenv(EnvCatalogRefreshTTL, "10m")
	t.Setenv(EnvMatchThreshold, "0.6")
	t.Setenv(EnvMatchAnchors, "dat dai, ho tich ,")
	t.Setenv(EnvMatchLimit, "20")
	t.Setenv(EnvPort, "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "DATA", cfg.SheetName)
	assert.Equal(t, 10*time.Minute, cfg.RefreshTTL)
	assert.Equal(t, 0.6, cfg.MatchThreshold)
	assert.Equal(t, []string{"dat dai", "ho tich"}, cfg.MatchAnchors)
	assert.Equal(t, 20, cfg.MatchLimit)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "DATA!A1:Q", cfg.ValuesRange())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv(EnvSheetID, "sheet-123")
	t.Setenv(EnvMatchThreshold, "not-a-float")
	t.Setenv(EnvMatchLimit, "not-an-int")
	t.Setenv(EnvCatalogRefreshTTL, "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultMatchThreshold, cfg.MatchThreshold)
	assert.Equal(t, DefaultMatchLimit, cfg.MatchLimit)
	assert.Equal(t, DefaultRefreshTTL, cfg.RefreshTTL)
}

func TestValidateRanges(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.MatchThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.MatchThreshold = 1.5 }},
		{"zero limit", func(c *Config) { c.MatchLimit = 0 }},
		{"zero ttl", func(c *Config) { c.RefreshTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{
				SheetID:        "s",
				MatchThreshold: DefaultMatchThreshold,
				MatchLimit:     DefaultMatchLimit,
				RefreshTTL:     DefaultRefreshTTL,
			}
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
