package config

import "time"

// BrowserConfig defines how the automation browser is launched.
// UserDataDir must hold a profile that is already logged in.
type BrowserConfig struct {
	Driver                string   `json:"driver,omitempty" yaml:"driver,omitempty" validate:"required,driver"`
	UserDataDir           string   `json:"user_data_dir,omitempty" yaml:"user_data_dir,omitempty" validate:"required"`
	ChromePath            string   `json:"chrome_path,omitempty" yaml:"chrome_path,omitempty" validate:"omitempty,fileexists"`
	Headless              bool     `json:"headless,omitempty" yaml:"headless,omitempty"`
	WindowWidth           int      `json:"window_width,omitempty" yaml:"window_width,omitempty" validate:"min=100"`
	WindowHeight          int      `json:"window_height,omitempty" yaml:"window_height,omitempty" validate:"min=100"`
	SlowMotionMs          int      `json:"slow_motion_ms,omitempty" yaml:"slow_motion_ms,omitempty" validate:"min=0"`
	NavigationTimeoutSecs int      `json:"navigation_timeout_secs,omitempty" yaml:"navigation_timeout_secs,omitempty" validate:"min=1"`
	SettleAfterNavigateMs int      `json:"settle_after_navigate_ms,omitempty" yaml:"settle_after_navigate_ms,omitempty" validate:"min=0"`
	HideAutomation        bool     `json:"hide_automation,omitempty" yaml:"hide_automation,omitempty"`
	ExtraArgs             []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
}

// NewDefaultBrowserConfig creates default browser configuration
func NewDefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Driver:                DefaultBrowserDriver,
		UserDataDir:           DefaultBrowserUserDataDir,
		WindowWidth:           DefaultBrowserWindowWidth,
		WindowHeight:          DefaultBrowserWindowHeight,
		SlowMotionMs:          DefaultBrowserSlowMotionMs,
		NavigationTimeoutSecs: DefaultBrowserNavigationTimeout,
		SettleAfterNavigateMs: DefaultBrowserSettleAfterNavigate,
		HideAutomation:        true,
		ExtraArgs:             []string{},
	}
}

// GetNavigationTimeout returns the navigation timeout as time.Duration
func (bc *BrowserConfig) GetNavigationTimeout() time.Duration {
	return time.Duration(bc.NavigationTimeoutSecs) * time.Second
}

// GetSlowMotion returns the delay inserted between driver actions
func (bc *BrowserConfig) GetSlowMotion() time.Duration {
	return time.Duration(bc.SlowMotionMs) * time.Millisecond
}

// GetSettleAfterNavigate returns the pause after each page load
func (bc *BrowserConfig) GetSettleAfterNavigate() time.Duration {
	return time.Duration(bc.SettleAfterNavigateMs) * time.Millisecond
}
