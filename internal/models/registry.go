package models

import "encoding/json"

// RegistryMetaKey is the _meta namespace holding directory-specific fields
const RegistryMetaKey = "com.anthropic.api/mcp-registry"

// RawRegistryExport is one registry export file
type RawRegistryExport struct {
	Servers []RawRegistryEntry `json:"servers"`
}

// RawRegistryEntry pairs the MCP server document with its registry metadata
type RawRegistryEntry struct {
	Server RawServer                  `json:"server"`
	Meta   map[string]json.RawMessage `json:"_meta"`
}

// RawServer is the subset of the MCP server document that is kept
type RawServer struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Version     string          `json:"version"`
	WebsiteURL  string          `json:"websiteUrl"`
	Remotes     []RawRemote     `json:"remotes"`
	Repository  json.RawMessage `json:"repository"`
}

// RawRemote is one remote transport endpoint
type RawRemote struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// RegistryMeta is the directory metadata attached to a server
type RegistryMeta struct {
	UUID                   string         `json:"uuid"`
	Slug                   string         `json:"slug"`
	DisplayName            string         `json:"displayName"`
	OneLiner               string         `json:"oneLiner"`
	HTMLContent            string         `json:"htmlContent"`
	DirectoryURL           string         `json:"directoryUrl"`
	IconURL                string         `json:"iconUrl"`
	Logo                   string         `json:"logo"`
	BackgroundPattern      string         `json:"backgroundPattern"`
	ImageURLs              []string       `json:"imageUrls"`
	HeroVideoID            string         `json:"heroVideoId"`
	HeroVideoPreviewLink   string         `json:"heroVideoPreviewLink"`
	URL                    string         `json:"url"`
	IsAuthless             bool           `json:"isAuthless"`
	RequiredFields         []any          `json:"requiredFields"`
	ServerLabel            string         `json:"serverLabel"`
	ClaudeCodeCopyText     string         `json:"claudeCodeCopyText"`
	ClaudeCodeExternalLink string         `json:"claudeCodeExternalLink"`
	ToolNames              []string       `json:"toolNames"`
	PromptNames            []string       `json:"promptNames"`
	Permissions            any            `json:"permissions"`
	UseCases               []any          `json:"useCases"`
	WorksWith              []any          `json:"worksWith"`
	HasMcpApp              bool           `json:"hasMcpApp"`
	Author                 map[string]any `json:"author"`
	Documentation          string         `json:"documentation"`
	Support                string         `json:"support"`
	PrivacyPolicy          string         `json:"privacyPolicy"`
	CreatedOn              string         `json:"createdOn"`
	PublishedOn            string         `json:"publishedOn"`
	UpdatedOn              string         `json:"updatedOn"`
}

// NormalizedConnector is the reshaped registry entry
type NormalizedConnector struct {
	UUID         string         `json:"uuid"`
	Slug         string         `json:"slug"`
	Name         string         `json:"name"`
	OneLiner     string         `json:"one_liner"`
	Description  string         `json:"description"`
	HTMLContent  string         `json:"html_content"`
	Version      string         `json:"version"`
	Branding     Branding       `json:"branding"`
	Connection   Connection     `json:"connection"`
	Capabilities Capabilities   `json:"capabilities"`
	Author       map[string]any `json:"author"`
	Links        Links          `json:"links"`
	Dates        Dates          `json:"dates"`
}

// Branding groups visual assets
type Branding struct {
	IconURL           string   `json:"icon_url"`
	Logo              string   `json:"logo"`
	BackgroundPattern string   `json:"background_pattern"`
	Images            []string `json:"images"`
	HeroVideoID       string   `json:"hero_video_id"`
	HeroVideoPreview  string   `json:"hero_video_preview"`
}

// Connection groups how a client connects to the server
type Connection struct {
	URL                 string `json:"url"`
	Transport           string `json:"transport"`
	IsAuthless          bool   `json:"is_authless"`
	RequiredFields      []any  `json:"required_fields"`
	ServerLabel         string `json:"server_label"`
	ClaudeCodeCommand   string `json:"claude_code_command"`
	ClaudeCodeSetupLink string `json:"claude_code_setup_link"`
}

// Capabilities groups what the server offers
type Capabilities struct {
	Tools       []string `json:"tools"`
	Prompts     []string `json:"prompts"`
	Permissions any      `json:"permissions"`
	UseCases    []any    `json:"use_cases"`
	WorksWith   []any    `json:"works_with"`
	HasMcpApp   bool     `json:"has_mcp_app"`
}

// Links groups external references
type Links struct {
	DirectoryURL  string `json:"directory_url"`
	Documentation string `json:"documentation"`
	Support       string `json:"support"`
	PrivacyPolicy string `json:"privacy_policy"`
	Repository    string `json:"repository"`
	Website       string `json:"website"`
}

// Dates groups lifecycle timestamps as published by the registry
type Dates struct {
	CreatedOn   string `json:"created_on"`
	PublishedOn string `json:"published_on"`
	UpdatedOn   string `json:"updated_on"`
}

// RegistryOutput is the transform output document
type RegistryOutput struct {
	Total       int                   `json:"total"`
	GeneratedAt string                `json:"generated_at"`
	Connectors  []NormalizedConnector `json:"connectors"`
}
