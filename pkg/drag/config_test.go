package drag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, 3, cfg.DragStartThreshold)
	assert.Equal(t, 30, cfg.LevelChangeThreshold)
	assert.Equal(t, "angular-ui-tree-handle", cfg.HandleClassName)
	assert.False(t, cfg.CancelOnLeave)
}

func TestNewConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
		check     func(t *testing.T, cfg *Config)
	}{
		{
			name:      "camel case keys",
			overrides: map[string]interface{}{"levelChangeThreshold": 4, "handleClassName": "grip"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 4, cfg.LevelChangeThreshold)
				assert.Equal(t, "grip", cfg.HandleClassName)
				assert.Equal(t, 3, cfg.DragStartThreshold)
			},
		},
		{
			name:      "snake case keys",
			overrides: map[string]interface{}{"drag_start_threshold": 1, "cancel_on_leave": true},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1, cfg.DragStartThreshold)
				assert.True(t, cfg.CancelOnLeave)
			},
		},
		{
			name:      "strings from env or yaml",
			overrides: map[string]interface{}{"level-change-threshold": "12", "cancelOnLeave": "true"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 12, cfg.LevelChangeThreshold)
				assert.True(t, cfg.CancelOnLeave)
			},
		},
		{
			name:      "empty handle class",
			overrides: map[string]interface{}{"handleClassName": ""},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.HandleClassName)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.overrides)
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestNewConfigRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]interface{}
	}{
		{name: "unknown key", overrides: map[string]interface{}{"dragDelay": 5}},
		{name: "negative start threshold", overrides: map[string]interface{}{"dragStartThreshold": -1}},
		{name: "zero level threshold", overrides: map[string]interface{}{"levelChangeThreshold": 0}},
		{name: "not a number", overrides: map[string]interface{}{"levelChangeThreshold": "wide"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.overrides)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, cfg)
		})
	}
}

func TestDefaultConfigIsPerCall(t *testing.T) {
	a := DefaultConfig()
	a.LevelChangeThreshold = 99
	assert.Equal(t, 30, DefaultConfig().LevelChangeThreshold)
}

func TestMergeKeepsBase(t *testing.T) {
	base := DefaultConfig()
	base.DragStartThreshold = 1
	base.LevelChangeThreshold = 3

	cfg, err := base.Merge(map[string]interface{}{"levelchangethreshold": 4})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.DragStartThreshold)
	assert.Equal(t, 4, cfg.LevelChangeThreshold)
	assert.Equal(t, 3, base.LevelChangeThreshold)
}
