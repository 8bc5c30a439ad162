package config

import "time"

// ProgressConfig controls the live status line printed to stderr during a scrape
type ProgressConfig struct {
	EnableProgress bool `json:"enable_progress,omitempty" yaml:"enable_progress,omitempty"`
	// Seconds between refreshes of the status line
	DisplayInterval   int  `json:"display_interval,omitempty" yaml:"display_interval,omitempty" validate:"min=1,max=60"`
	BarWidth          int  `json:"bar_width,omitempty" yaml:"bar_width,omitempty" validate:"omitempty,min=5,max=80"`
	ShowETAEstimation bool `json:"show_eta_estimation,omitempty" yaml:"show_eta_estimation,omitempty"`
	// Process RSS and Go heap, read through gopsutil
	ShowMemory bool `json:"show_memory,omitempty" yaml:"show_memory,omitempty"`
}

// NewDefaultProgressConfig returns an enabled status line with ETA and no memory readout
func NewDefaultProgressConfig() ProgressConfig {
	return ProgressConfig{
		EnableProgress:    true,
		DisplayInterval:   DefaultProgressDisplayInterval,
		BarWidth:          DefaultProgressBarWidth,
		ShowETAEstimation: true,
	}
}

func (pc *ProgressConfig) GetDisplayIntervalDuration() time.Duration {
	return time.Duration(pc.DisplayInterval) * time.Second
}
