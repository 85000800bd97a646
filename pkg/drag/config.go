package drag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ErrInvalidConfig is returned for unknown keys or out-of-range values.
var ErrInvalidConfig = errors.New("invalid tree config")

// Config holds per-tree settings. Build it once with NewConfig and share it
// by pointer; nothing mutates it afterwards.
type Config struct {
	NodesClassName       string `mapstructure:"nodes_class_name"`
	NodeClassName        string `mapstructure:"node_class_name"`
	HandleClassName      string `mapstructure:"handle_class_name"`
	PlaceholderClassName string `mapstructure:"placeholder_class_name"`
	DraggingClassName    string `mapstructure:"dragging_class_name"`
	HiddenClassName      string `mapstructure:"hidden_class_name"`

	// DragStartThreshold is the pointer travel, in cells, after which a
	// press becomes a drag. Zero starts the drag on press.
	DragStartThreshold int `mapstructure:"drag_start_threshold"`
	// LevelChangeThreshold is the horizontal travel that nests or promotes
	// the dragged node by one level.
	LevelChangeThreshold int `mapstructure:"level_change_threshold"`

	// CancelOnLeave discards the drag when the pointer leaves the surface
	// instead of committing the current candidate.
	CancelOnLeave bool `mapstructure:"cancel_on_leave"`
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		NodesClassName:       "angular-ui-tree-nodes",
		NodeClassName:        "angular-ui-tree-node",
		HandleClassName:      "angular-ui-tree-handle",
		PlaceholderClassName: "angular-ui-tree-placeholder",
		DraggingClassName:    "angular-ui-tree-drag",
		HiddenClassName:      "angular-ui-tree-hidden",
		DragStartThreshold:   3,
		LevelChangeThreshold: 30,
	}
}

// NewConfig merges overrides onto DefaultConfig. Keys match field names in
// camelCase, snake_case or lower case ("levelChangeThreshold",
// "level_change_threshold", "levelchangethreshold").
func NewConfig(overrides map[string]interface{}) (*Config, error) {
	return DefaultConfig().Merge(overrides)
}

// Merge returns a copy of c with overrides applied, using the same key rules
// as NewConfig.
func (c Config) Merge(overrides map[string]interface{}) (*Config, error) {
	cfg := c
	if len(overrides) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			MatchName: func(mapKey, fieldName string) bool {
				return normalizeKey(mapKey) == normalizeKey(fieldName)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("build config decoder: %w", err)
		}
		if err := dec.Decode(overrides); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DragStartThreshold < 0 {
		return fmt.Errorf("%w: drag_start_threshold must be >= 0, got %d", ErrInvalidConfig, c.DragStartThreshold)
	}
	if c.LevelChangeThreshold < 1 {
		return fmt.Errorf("%w: level_change_threshold must be >= 1, got %d", ErrInvalidConfig, c.LevelChangeThreshold)
	}
	return nil
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(k))
}
