package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/aleister1102/conndir/internal/browser/browsertest"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/extractor"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T) *DetailLoader {
	t.Helper()
	cfg := config.NewDefaultExtractorConfig()
	cfg.SettleMs = 0
	chain, err := extractor.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return NewDetailLoader(cfg, chain, zerolog.Nop())
}

func TestDetailLoader_ExtractsRenderedPage(t *testing.T) {
	page := browsertest.NewFakePage(map[string]browsertest.Document{
		urlAlpha: {
			Text: "Alpha\nSearch tool\nConnect\nDeveloped by\nAlpha Inc\nTools\n2\nsearch\nfetch_page\nDetails\nVersion\n1.0.0",
			HTML: `<html><body><h1>Alpha</h1><a href="https://alpha.example">Alpha Inc</a></body></html>`,
		},
	})

	fields, err := newTestLoader(t).Load(context.Background(), page, urlAlpha)
	require.NoError(t, err)

	assert.Equal(t, "Alpha", fields.Name)
	assert.Equal(t, "Search tool", fields.Tagline)
	require.NotNil(t, fields.Developer)
	assert.Equal(t, "Alpha Inc", fields.Developer.Name)
	assert.Equal(t, "https://alpha.example", fields.Developer.URL)
	assert.Equal(t, []string{"search", "fetch_page"}, fields.Tools)
	assert.Equal(t, "1.0.0", fields.Version)
}

func TestDetailLoader_Failures(t *testing.T) {
	tests := []struct {
		name    string
		doc     browsertest.Document
		wantErr error
	}{
		{
			name:    "marker never shown",
			doc:     browsertest.Document{Text: "Loading"},
			wantErr: common.ErrMarkerTimeout,
		},
		{
			name:    "nothing extractable",
			doc:     browsertest.Document{Text: "Developed by", HTML: "<html></html>"},
			wantErr: common.ErrEmptyDetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := browsertest.NewFakePage(map[string]browsertest.Document{urlBeta: tt.doc})
			_, err := newTestLoader(t).Load(context.Background(), page, urlBeta)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetailLoader_WaitFailureIsNotMarkerTimeout(t *testing.T) {
	page := browsertest.NewFakePage(markedDocs(urlBeta))
	page.WaitErr = errors.New("wait for \"Developed by\": Target closed")

	_, err := newTestLoader(t).Load(context.Background(), page, urlBeta)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrMarkerTimeout)
	assert.Contains(t, err.Error(), "Target closed")
}

func TestDetailLoader_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := browsertest.NewFakePage(nil)
	_, err := newTestLoader(t).Load(ctx, page, urlAlpha)
	assert.ErrorIs(t, err, context.Canceled)
}
