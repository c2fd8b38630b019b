package schema

import (
	"fmt"
	"time"
)

// DefaultSaveTimeout bounds a single snapshot write.
const DefaultSaveTimeout = 5 * time.Second

// EngineConfig defines limits for the session engine.
type EngineConfig struct {
	RecentlyClosedMax    int
	SuggestionHistoryMax int
	SaveTimeout          time.Duration
}

// NormalizeEngineConfig applies defaults and validates the config.
func NormalizeEngineConfig(cfg EngineConfig) (EngineConfig, error) {
	if cfg.RecentlyClosedMax == 0 {
		cfg.RecentlyClosedMax = RecentlyClosedMax
	}
	if cfg.SuggestionHistoryMax == 0 {
		cfg.SuggestionHistoryMax = SuggestionHistoryMax
	}
	if cfg.SaveTimeout == 0 {
		cfg.SaveTimeout = DefaultSaveTimeout
	}
	if cfg.RecentlyClosedMax < 0 {
		return EngineConfig{}, fmt.Errorf("%w: recently closed max must be positive", ErrInvalidConfig)
	}
	if cfg.SuggestionHistoryMax < 0 {
		return EngineConfig{}, fmt.Errorf("%w: suggestion history max must be positive", ErrInvalidConfig)
	}
	if cfg.SaveTimeout < 0 {
		return EngineConfig{}, fmt.Errorf("%w: save timeout must be positive", ErrInvalidConfig)
	}
	return cfg, nil
}
