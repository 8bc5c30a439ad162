package config

import "time"

// CollectorConfig controls listing collection: the scroll policy and the
// click-through fallback used when no anchors are found.
type CollectorConfig struct {
	ScrollStepPx         int `json:"scroll_step_px,omitempty" yaml:"scroll_step_px,omitempty" validate:"min=1"`
	ScrollWaitMs         int `json:"scroll_wait_ms,omitempty" yaml:"scroll_wait_ms,omitempty" validate:"min=0"`
	StablePolls          int `json:"stable_polls,omitempty" yaml:"stable_polls,omitempty" validate:"min=1"`
	MaxPolls             int `json:"max_polls,omitempty" yaml:"max_polls,omitempty" validate:"min=1"`
	InitialWaitMs        int `json:"initial_wait_ms,omitempty" yaml:"initial_wait_ms,omitempty" validate:"min=0"`
	TabWaitMs            int `json:"tab_wait_ms,omitempty" yaml:"tab_wait_ms,omitempty" validate:"min=0"`
	FallbackMaxRetries   int `json:"fallback_max_retries,omitempty" yaml:"fallback_max_retries,omitempty" validate:"min=0,max=10"`
	FallbackClickTimeout int `json:"fallback_click_timeout_ms,omitempty" yaml:"fallback_click_timeout_ms,omitempty" validate:"min=1"`
	FallbackWaitMs       int `json:"fallback_wait_ms,omitempty" yaml:"fallback_wait_ms,omitempty" validate:"min=0"`
	CardAncestorLevels   int `json:"card_ancestor_levels,omitempty" yaml:"card_ancestor_levels,omitempty" validate:"min=1,max=20"`
}

// NewDefaultCollectorConfig creates default collector configuration
func NewDefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		ScrollStepPx:         DefaultCollectorScrollStepPx,
		ScrollWaitMs:         DefaultCollectorScrollWaitMs,
		StablePolls:          DefaultCollectorStablePolls,
		MaxPolls:             DefaultCollectorMaxPolls,
		InitialWaitMs:        DefaultCollectorInitialWaitMs,
		TabWaitMs:            DefaultCollectorTabWaitMs,
		FallbackMaxRetries:   DefaultCollectorFallbackRetries,
		FallbackClickTimeout: DefaultCollectorFallbackClickMs,
		FallbackWaitMs:       DefaultCollectorFallbackWaitMs,
		CardAncestorLevels:   DefaultCollectorCardAncestorLevels,
	}
}

// GetScrollWait returns the pause between scroll polls
func (cc *CollectorConfig) GetScrollWait() time.Duration {
	return time.Duration(cc.ScrollWaitMs) * time.Millisecond
}

// GetInitialWait returns the pause after the listing first loads
func (cc *CollectorConfig) GetInitialWait() time.Duration {
	return time.Duration(cc.InitialWaitMs) * time.Millisecond
}

// GetTabWait returns the pause after selecting the tab
func (cc *CollectorConfig) GetTabWait() time.Duration {
	return time.Duration(cc.TabWaitMs) * time.Millisecond
}

// GetFallbackClickTimeout returns how long a fallback click may wait for its target
func (cc *CollectorConfig) GetFallbackClickTimeout() time.Duration {
	return time.Duration(cc.FallbackClickTimeout) * time.Millisecond
}

// GetFallbackWait returns the pause after each fallback navigation
func (cc *CollectorConfig) GetFallbackWait() time.Duration {
	return time.Duration(cc.FallbackWaitMs) * time.Millisecond
}
