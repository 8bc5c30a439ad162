package config

import "time"

// ExtractorConfig defines how detail pages are waited on and parsed
type ExtractorConfig struct {
	// Strategies are applied in order; earlier strategies win per field.
	// "meta" is opt-in: its tags are often site-wide on a single page app.
	Strategies        []string `json:"strategies,omitempty" yaml:"strategies,omitempty" validate:"min=1,dive,strategy"`
	Marker            string   `json:"marker,omitempty" yaml:"marker,omitempty" validate:"required"`
	MarkerTimeoutSecs int      `json:"marker_timeout_secs,omitempty" yaml:"marker_timeout_secs,omitempty" validate:"min=1"`
	SettleMs          int      `json:"settle_ms,omitempty" yaml:"settle_ms,omitempty" validate:"min=0"`
	TaglineMaxLen     int      `json:"tagline_max_len,omitempty" yaml:"tagline_max_len,omitempty" validate:"min=1"`
	MinLineLen        int      `json:"min_line_len,omitempty" yaml:"min_line_len,omitempty" validate:"min=0"`
	MoreInfoLabels    []string `json:"more_info_labels,omitempty" yaml:"more_info_labels,omitempty"`
}

// NewDefaultExtractorConfig creates default extractor configuration
func NewDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Strategies:        []string{"text"},
		Marker:            DefaultExtractorMarker,
		MarkerTimeoutSecs: DefaultExtractorMarkerTimeoutSecs,
		SettleMs:          DefaultExtractorSettleMs,
		TaglineMaxLen:     DefaultExtractorTaglineMaxLen,
		MinLineLen:        DefaultExtractorMinLineLen,
		MoreInfoLabels:    []string{"Documentation", "Support", "Privacy Policy"},
	}
}

// GetMarkerTimeout returns how long to wait for the content marker
func (ec *ExtractorConfig) GetMarkerTimeout() time.Duration {
	return time.Duration(ec.MarkerTimeoutSecs) * time.Second
}

// GetSettle returns the pause between the marker appearing and the snapshot
func (ec *ExtractorConfig) GetSettle() time.Duration {
	return time.Duration(ec.SettleMs) * time.Millisecond
}
