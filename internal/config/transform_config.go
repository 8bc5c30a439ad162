package config

import "time"

// TransformConfig defines inputs and output of the registry transform.
// Inputs may be local paths or http(s) URLs.
type TransformConfig struct {
	Inputs             []string `json:"inputs,omitempty" yaml:"inputs,omitempty" validate:"min=1,dive,required"`
	OutputFile         string   `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required"`
	DirectoryBaseURL   string   `json:"directory_base_url,omitempty" yaml:"directory_base_url,omitempty" validate:"required,url"`
	RequestTimeoutSecs int      `json:"request_timeout_secs,omitempty" yaml:"request_timeout_secs,omitempty" validate:"min=1"`
}

// NewDefaultTransformConfig creates default transform configuration
func NewDefaultTransformConfig() TransformConfig {
	inputs := make([]string, len(DefaultTransformInputFiles))
	copy(inputs, DefaultTransformInputFiles)

	return TransformConfig{
		Inputs:             inputs,
		OutputFile:         DefaultTransformOutputFile,
		DirectoryBaseURL:   DefaultTransformDirectoryBaseURL,
		RequestTimeoutSecs: DefaultTransformRequestTimeoutSec,
	}
}

// GetRequestTimeout returns the timeout for remote inputs
func (tc *TransformConfig) GetRequestTimeout() time.Duration {
	return time.Duration(tc.RequestTimeoutSecs) * time.Second
}
