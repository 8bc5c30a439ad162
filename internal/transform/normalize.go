package transform

import (
	"encoding/json"
	"strings"

	"github.com/aleister1102/conndir/internal/models"
	"github.com/google/uuid"
)

// RegistryMeta decodes the directory metadata of entry. A missing
// namespace yields the zero value.
func RegistryMeta(entry models.RawRegistryEntry) (models.RegistryMeta, error) {
	var meta models.RegistryMeta
	raw, ok := entry.Meta[models.RegistryMetaKey]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return meta, nil
	}
	err := json.Unmarshal(raw, &meta)
	return meta, err
}

// CanonicalUUID lowercases and re-formats id when it parses as a UUID,
// so differently written copies of one id compare equal.
func CanonicalUUID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

// Normalize reshapes one registry entry. directoryBaseURL builds the
// directory link when the registry does not provide one.
func Normalize(server models.RawServer, meta models.RegistryMeta, directoryBaseURL string) models.NormalizedConnector {
	var remote models.RawRemote
	if len(server.Remotes) > 0 {
		remote = server.Remotes[0]
	}

	directoryURL := meta.DirectoryURL
	if directoryURL == "" && meta.UUID != "" {
		directoryURL = strings.TrimRight(directoryBaseURL, "/") + "/" + meta.UUID
	}

	name := meta.DisplayName
	if name == "" {
		name = server.Title
	}

	connectionURL := remote.URL
	if connectionURL == "" {
		connectionURL = meta.URL
	}

	var permissions any = meta.Permissions
	if permissions == nil {
		permissions = ""
	}

	author := meta.Author
	if author == nil {
		author = map[string]any{}
	}

	return models.NormalizedConnector{
		UUID:        meta.UUID,
		Slug:        meta.Slug,
		Name:        name,
		OneLiner:    meta.OneLiner,
		Description: server.Description,
		HTMLContent: meta.HTMLContent,
		Version:     server.Version,
		Branding: models.Branding{
			IconURL:           meta.IconURL,
			Logo:              meta.Logo,
			BackgroundPattern: meta.BackgroundPattern,
			Images:            orEmpty(meta.ImageURLs),
			HeroVideoID:       meta.HeroVideoID,
			HeroVideoPreview:  meta.HeroVideoPreviewLink,
		},
		Connection: models.Connection{
			URL:                 connectionURL,
			Transport:           remote.Type,
			IsAuthless:          meta.IsAuthless,
			RequiredFields:      orEmpty(meta.RequiredFields),
			ServerLabel:         meta.ServerLabel,
			ClaudeCodeCommand:   meta.ClaudeCodeCopyText,
			ClaudeCodeSetupLink: meta.ClaudeCodeExternalLink,
		},
		Capabilities: models.Capabilities{
			Tools:       orEmpty(meta.ToolNames),
			Prompts:     orEmpty(meta.PromptNames),
			Permissions: permissions,
			UseCases:    orEmpty(meta.UseCases),
			WorksWith:   orEmpty(meta.WorksWith),
			HasMcpApp:   meta.HasMcpApp,
		},
		Author: author,
		Links: models.Links{
			DirectoryURL:  directoryURL,
			Documentation: meta.Documentation,
			Support:       meta.Support,
			PrivacyPolicy: meta.PrivacyPolicy,
			Repository:    repositoryURL(server.Repository),
			Website:       server.WebsiteURL,
		},
		Dates: models.Dates{
			CreatedOn:   meta.CreatedOn,
			PublishedOn: meta.PublishedOn,
			UpdatedOn:   meta.UpdatedOn,
		},
	}
}

// repositoryURL reads {"url": ...}; any other shape yields ""
func repositoryURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var repo struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &repo); err != nil {
		return ""
	}
	return repo.URL
}

func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
