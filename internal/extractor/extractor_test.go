package extractor

import (
	"testing"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailURL = "https://claude.ai/directory/0f6c2a4e-1b2c-4d5e-8f90-a1b2c3d4e5f6"

const detailText = `Back
Acme Search
A short tag
A longer description sentence.
Connect
Developed by
Acme Corp
Only use connectors from developers you trust.
Tools
3
search
fetch_page
42
Details
Version
1.2.0
Author
Jane Doe
Connector URL
https://mcp.acme.example/sse
More info
Documentation
Support
Privacy Policy`

const detailHTML = `<html><head>
<meta property="og:title" content="Acme Search | Directory">
<meta name="description" content="Search everything Acme knows.">
</head><body>
<h2>Back</h2>
<h1>Acme Search</h1>
<p>A short tag</p>
<a href="https://acme.example">Acme Corp</a>
<a href="https://claude.ai/people/jane">Jane Doe</a>
<a href="https://jane.example">Jane Doe</a>
<a href="https://docs.acme.example/start">Documentation</a>
<a href="/support">Support</a>
<a href="https://acme.example/privacy">Privacy Policy</a>
</body></html>`

func newTestTextExtractor() *TextExtractor {
	return NewTextExtractor(config.NewDefaultExtractorConfig(), zerolog.Nop())
}

func TestTextExtractor_FullPage(t *testing.T) {
	fields := newTestTextExtractor().Extract(Snapshot{URL: detailURL, Text: detailText, HTML: detailHTML})

	assert.Equal(t, "Acme Search", fields.Name)
	assert.Equal(t, "A short tag", fields.Tagline)
	assert.Equal(t, "A longer description sentence.", fields.Description)

	require.NotNil(t, fields.Developer)
	assert.Equal(t, models.Party{Name: "Acme Corp", URL: "https://acme.example"}, *fields.Developer)

	require.NotNil(t, fields.Author)
	assert.Equal(t, models.Party{Name: "Jane Doe", URL: "https://jane.example"}, *fields.Author, "links back into the directory are skipped")

	assert.Equal(t, []string{"search", "fetch_page"}, fields.Tools)
	assert.Equal(t, "1.2.0", fields.Version)
	assert.Equal(t, "https://mcp.acme.example/sse", fields.ConnectorURL)
	assert.Equal(t, map[string]string{
		"documentation":  "https://docs.acme.example/start",
		"privacy_policy": "https://acme.example/privacy",
	}, fields.MoreInfo)
}

func TestTextExtractor_TaglineAndDescription(t *testing.T) {
	tests := []struct {
		name        string
		between     string
		tagline     string
		description string
	}{
		{
			name:        "tagline then description",
			between:     "A short tag\nA longer description sentence.",
			tagline:     "A short tag",
			description: "A longer description sentence.",
		},
		{
			name:    "single short line is a tagline",
			between: "Only a tagline here",
			tagline: "Only a tagline here",
		},
		{
			name:        "single long line is a description",
			between:     "This line is long enough that it cannot possibly be a tagline because it runs past eighty characters.",
			description: "This line is long enough that it cannot possibly be a tagline because it runs past eighty characters.",
		},
		{
			name:    "short lines and boilerplate dropped",
			between: "Connect\nNew\nOnly use connectors you trust\n  \nSearch the web",
			tagline: "Search the web",
		},
		{
			name:    "nothing between name and marker",
			between: "",
		},
	}

	te := newTestTextExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "Acme\n" + tt.between + "\nDeveloped by\nAcme Corp"
			tagline, description := te.taglineAndDescription(body, "Acme")
			assert.Equal(t, tt.tagline, tagline)
			assert.Equal(t, tt.description, description)
		})
	}
}

func TestTextExtractor_ToolsSection(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "numeric and reserved lines excluded",
			body: "Tools\n3\nsearch\nfetch_page\n42\nDetails",
			want: []string{"search", "fetch_page"},
		},
		{
			name: "identifier punctuation kept",
			body: "Intro\nTools\nlinear.create_issue\nns:get-item\nnot a tool\nDetails\nVersion",
			want: []string{"linear.create_issue", "ns:get-item"},
		},
		{
			name: "empty section found",
			body: "Tools\n0\nDetails\n",
			want: []string{},
		},
		{
			name: "no details header",
			body: "Tools\nsearch\n",
			want: nil,
		},
		{
			name: "no tools header",
			body: "search\nDetails\n",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toolsSection(tt.body))
		})
	}
}

func TestTextExtractor_MissingSectionsOmitFields(t *testing.T) {
	fields := newTestTextExtractor().Extract(Snapshot{
		URL:  detailURL,
		Text: "Just some page\nwithout any labels",
		HTML: "<html><body><p>nothing</p></body></html>",
	})
	assert.True(t, fields.IsEmpty())
}

func TestTextExtractor_DeveloperOnSameLine(t *testing.T) {
	fields := newTestTextExtractor().Extract(Snapshot{Text: "Name\nDeveloped by Acme Corp\nmore"})
	require.NotNil(t, fields.Developer)
	assert.Equal(t, "Acme Corp", fields.Developer.Name)
	assert.Empty(t, fields.Developer.URL)
}

func TestMetaExtractor(t *testing.T) {
	fields := NewMetaExtractor(zerolog.Nop()).Extract(Snapshot{HTML: detailHTML})
	assert.Empty(t, fields.Name, "og:title never names a connector")
	assert.Equal(t, "Search everything Acme knows.", fields.Description)

	assert.True(t, NewMetaExtractor(zerolog.Nop()).Extract(Snapshot{}).IsEmpty())
}

func TestChain_EarlierStrategyWins(t *testing.T) {
	cfg := config.NewDefaultExtractorConfig()
	cfg.Strategies = []string{"text", "meta"}
	chain, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "text+meta", chain.Name())

	// The text strategy finds no description in a one-line body, so meta fills it
	fields := chain.Extract(Snapshot{
		URL:  detailURL,
		Text: "Acme Search\nSearch it all\nDeveloped by\nAcme Corp",
		HTML: detailHTML,
	})
	assert.Equal(t, "Acme Search", fields.Name)
	assert.Equal(t, "Search it all", fields.Tagline)
	assert.Equal(t, "Search everything Acme knows.", fields.Description)
}

func TestChain_DefaultIgnoresMetaTags(t *testing.T) {
	chain, err := New(config.NewDefaultExtractorConfig(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "text", chain.Name())

	fields := chain.Extract(Snapshot{
		URL:  detailURL,
		Text: "Developed by\nAcme Corp",
		HTML: `<html><head><meta property="og:title" content="Claude"><meta name="description" content="Talk with Claude"></head><body></body></html>`,
	})
	assert.Empty(t, fields.Name)
	assert.Empty(t, fields.Description)
	require.NotNil(t, fields.Developer)
	assert.Equal(t, "Acme Corp", fields.Developer.Name)
}

func TestNew_UnknownStrategy(t *testing.T) {
	cfg := config.NewDefaultExtractorConfig()
	cfg.Strategies = []string{"text", "vision"}

	_, err := New(cfg, zerolog.Nop())
	assert.Error(t, err)
}
