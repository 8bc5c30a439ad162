package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// IndexEntry is one connector discovered on the listing page.
// DetailURL is its unique key; entries are never modified after collection.
type IndexEntry struct {
	Name      string `json:"name"`
	Tagline   string `json:"tagline"`
	LogoURL   string `json:"logo_url"`
	DetailURL string `json:"detail_url"`
}

// Party names a developer or author with an optional link.
// A zero Party encodes as {} so absent parties stay distinguishable
// from a party without a URL.
type Party struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// IsZero reports whether the party carries no information
func (p Party) IsZero() bool {
	return p.Name == "" && p.URL == ""
}

// MarshalJSON implements json.Marshaler
func (p Party) MarshalJSON() ([]byte, error) {
	if p.IsZero() {
		return []byte("{}"), nil
	}
	type party Party
	return marshalUnescaped(party(p))
}

// ConnectorRecord is the merged result of a listing entry and its detail page
type ConnectorRecord struct {
	Name         string            `json:"name"`
	Tagline      string            `json:"tagline"`
	Description  string            `json:"description"`
	LogoURL      string            `json:"logo_url"`
	DetailURL    string            `json:"detail_url"`
	Developer    Party             `json:"developer"`
	Tools        []string          `json:"tools"`
	Version      string            `json:"version"`
	ConnectorURL string            `json:"connector_url"`
	Author       Party             `json:"author"`
	MoreInfo     map[string]string `json:"more_info"`
}

// MarshalJSON encodes missing tools as [] and missing links as {}
func (r ConnectorRecord) MarshalJSON() ([]byte, error) {
	type record ConnectorRecord
	out := record(r)
	if out.Tools == nil {
		out.Tools = []string{}
	}
	if out.MoreInfo == nil {
		out.MoreInfo = map[string]string{}
	}
	return marshalUnescaped(out)
}

// marshalUnescaped encodes v leaving &, < and > as they are. json.Marshal
// escapes them, and an outer encoder cannot undo that.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ToolSummary renders the first few tool names for log lines, e.g. "[a, b, c +2 more]"
func (r ConnectorRecord) ToolSummary(limit int) string {
	if len(r.Tools) <= limit {
		return fmt.Sprintf("[%s]", strings.Join(r.Tools, ", "))
	}
	return fmt.Sprintf("[%s +%d more]", strings.Join(r.Tools[:limit], ", "), len(r.Tools)-limit)
}

// DetailFields is the partial result of parsing a detail page.
// Every field is optional; nil pointers and nil slices mean "not found".
type DetailFields struct {
	Name         string
	Tagline      string
	Description  string
	Developer    *Party
	Tools        []string
	Version      string
	ConnectorURL string
	Author       *Party
	MoreInfo     map[string]string
}

// IsEmpty reports whether no field was extracted
func (d DetailFields) IsEmpty() bool {
	return d.Name == "" &&
		d.Tagline == "" &&
		d.Description == "" &&
		d.Developer == nil &&
		d.Tools == nil &&
		d.Version == "" &&
		d.ConnectorURL == "" &&
		d.Author == nil &&
		len(d.MoreInfo) == 0
}

// FillFrom copies into d every field that d lacks and other has
func (d *DetailFields) FillFrom(other DetailFields) {
	if d.Name == "" {
		d.Name = other.Name
	}
	if d.Tagline == "" {
		d.Tagline = other.Tagline
	}
	if d.Description == "" {
		d.Description = other.Description
	}
	if d.Developer == nil {
		d.Developer = other.Developer
	}
	if d.Tools == nil {
		d.Tools = other.Tools
	}
	if d.Version == "" {
		d.Version = other.Version
	}
	if d.ConnectorURL == "" {
		d.ConnectorURL = other.ConnectorURL
	}
	if d.Author == nil {
		d.Author = other.Author
	}
	if len(d.MoreInfo) == 0 {
		d.MoreInfo = other.MoreInfo
	}
}
