package config

import (
	"regexp"
	"strings"
)

// DirectoryConfig describes the directory site being scraped
type DirectoryConfig struct {
	BaseURL        string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required,url"`
	ListingPath    string `json:"listing_path,omitempty" yaml:"listing_path,omitempty" validate:"required,startswith=/"`
	TabLabel       string `json:"tab_label,omitempty" yaml:"tab_label,omitempty" validate:"required"`
	TabSelector    string `json:"tab_selector,omitempty" yaml:"tab_selector,omitempty" validate:"required"`
	LinkSelector   string `json:"link_selector,omitempty" yaml:"link_selector,omitempty" validate:"required"`
	DetailPattern  string `json:"detail_pattern,omitempty" yaml:"detail_pattern,omitempty" validate:"required,regexp"`
	AddButtonLabel string `json:"add_button_label,omitempty" yaml:"add_button_label,omitempty" validate:"required"`
}

// NewDefaultDirectoryConfig creates default directory configuration
func NewDefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		BaseURL:        DefaultDirectoryBaseURL,
		ListingPath:    DefaultDirectoryListingPath,
		TabLabel:       DefaultDirectoryTabLabel,
		TabSelector:    DefaultDirectoryTabSelector,
		LinkSelector:   DefaultDirectoryLinkSelector,
		DetailPattern:  DefaultDirectoryDetailPattern,
		AddButtonLabel: DefaultDirectoryAddButtonLabel,
	}
}

// ListingURL returns the absolute URL of the directory listing page
func (dc *DirectoryConfig) ListingURL() string {
	return strings.TrimRight(dc.BaseURL, "/") + dc.ListingPath
}

// CompileDetailPattern compiles the detail-path pattern
func (dc *DirectoryConfig) CompileDetailPattern() (*regexp.Regexp, error) {
	return regexp.Compile(dc.DetailPattern)
}
