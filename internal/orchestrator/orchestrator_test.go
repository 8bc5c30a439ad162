package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/browser/browsertest"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/datastore"
	"github.com/aleister1102/conndir/internal/extractor"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	urlAlpha = "https://claude.ai/directory/aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	urlBeta  = "https://claude.ai/directory/bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	urlGamma = "https://claude.ai/directory/cccccccc-cccc-cccc-cccc-cccccccccccc"
)

var testIndex = []models.IndexEntry{
	{Name: "Alpha", Tagline: "listing alpha", LogoURL: "https://cdn.example/a.png", DetailURL: urlAlpha},
	{Name: "Beta", Tagline: "listing beta", LogoURL: "https://cdn.example/b.png", DetailURL: urlBeta},
	{Name: "Gamma", LogoURL: "https://cdn.example/c.png", DetailURL: urlGamma},
}

// fakeCollector hands out a fixed index
type fakeCollector struct {
	entries   []models.IndexEntry
	err       error
	onCollect func()
	calls     int
}

func (fc *fakeCollector) Collect(ctx context.Context, page browser.Page) ([]models.IndexEntry, error) {
	fc.calls++
	if fc.onCollect != nil {
		fc.onCollect()
	}
	return fc.entries, fc.err
}

// fakeExtractor returns canned fields per page URL
type fakeExtractor struct {
	fields  map[string]models.DetailFields
	onCall  func(snap extractor.Snapshot)
	visited []string
}

func (fe *fakeExtractor) Name() string { return "fake" }

func (fe *fakeExtractor) Extract(snap extractor.Snapshot) models.DetailFields {
	fe.visited = append(fe.visited, snap.URL)
	if fe.onCall != nil {
		fe.onCall(snap)
	}
	return fe.fields[snap.URL]
}

func detailFields(name string, tools ...string) models.DetailFields {
	return models.DetailFields{
		Name:      name,
		Tagline:   name + " tagline",
		Developer: &models.Party{Name: name + " Inc"},
		Tools:     tools,
	}
}

func markedDocs(urls ...string) map[string]browsertest.Document {
	docs := map[string]browsertest.Document{}
	for _, u := range urls {
		docs[u] = browsertest.Document{Text: "Name\nDeveloped by\nSomeone", HTML: "<html></html>"}
	}
	return docs
}

type harness struct {
	cfg       *config.GlobalConfig
	page      *browsertest.FakePage
	collector *fakeCollector
	extractor *fakeExtractor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()

	cfg := config.NewDefaultGlobalConfig()
	cfg.BrowserConfig.UserDataDir = filepath.Join(dir, "profile")
	require.NoError(t, common.NewFileManager(zerolog.Nop()).EnsureDirectory(cfg.BrowserConfig.UserDataDir, 0o755))
	cfg.StorageConfig.OutputFile = filepath.Join(dir, "connectors.json")
	cfg.StorageConfig.IndexFile = filepath.Join(dir, "index.json")
	cfg.ExtractorConfig.SettleMs = 0

	return &harness{
		cfg:       cfg,
		page:      browsertest.NewFakePage(markedDocs(urlAlpha, urlBeta, urlGamma)),
		collector: &fakeCollector{entries: testIndex},
		extractor: &fakeExtractor{fields: map[string]models.DetailFields{
			urlAlpha: detailFields("Alpha", "search", "fetch", "list", "get"),
			urlBeta:  detailFields("Beta"),
			urlGamma: detailFields("Gamma", "run"),
		}},
	}
}

func (h *harness) build(t *testing.T) *ScrapeOrchestrator {
	t.Helper()
	so, err := NewScrapeOrchestratorBuilder(h.cfg, zerolog.Nop()).
		WithOpener(browsertest.Opener(h.page)).
		WithCollector(h.collector).
		WithExtractor(h.extractor).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = so.Close() })
	return so
}

func (h *harness) stores(t *testing.T) *datastore.Stores {
	t.Helper()
	stores, err := datastore.Open(h.cfg.StorageConfig, datastore.ProgressMeta{}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func persistedURLs(t *testing.T, h *harness) map[string]bool {
	t.Helper()
	state, err := h.stores(t).Progress.Load(context.Background())
	require.NoError(t, err)
	return state.ScrapedURLs
}

func TestRun_FreshScrape(t *testing.T) {
	h := newHarness(t)
	summary, err := h.build(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.IndexSize)
	assert.Equal(t, 3, summary.Persisted)
	assert.Equal(t, 3, summary.ScrapedNow)
	assert.Zero(t, summary.Failed)
	assert.Empty(t, summary.Errors)
	assert.True(t, summary.IndexDeleted)
	assert.False(t, summary.Cancelled)

	assert.Equal(t, 1, h.collector.calls)
	assert.Equal(t, []string{urlAlpha, urlBeta, urlGamma}, h.page.Visits)
	assert.True(t, h.page.Closed)

	stores := h.stores(t)
	state, err := stores.Progress.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Records, 3)
	assert.Equal(t, models.ConnectorRecord{
		Name:      "Alpha",
		Tagline:   "Alpha tagline",
		LogoURL:   "https://cdn.example/a.png",
		DetailURL: urlAlpha,
		Developer: models.Party{Name: "Alpha Inc"},
		Tools:     []string{"search", "fetch", "list", "get"},
		MoreInfo:  map[string]string{},
	}, state.Records[0])

	index, err := stores.Index.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, index, "index removed after a complete scrape")
}

func TestRun_ResumeSkipsPersisted(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	stores := h.stores(t)
	require.NoError(t, stores.Index.Save(ctx, testIndex))
	require.NoError(t, stores.Progress.Save(ctx, []models.ConnectorRecord{
		MergeRecord(testIndex[0], detailFields("Alpha")),
		MergeRecord(testIndex[2], detailFields("Gamma")),
	}, nil))

	summary, err := h.build(t).Run(ctx)
	require.NoError(t, err)

	assert.Zero(t, h.collector.calls, "saved index is reused")
	assert.Equal(t, []string{urlBeta}, h.page.Visits, "persisted connectors are not revisited")
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.ScrapedNow)
	assert.Equal(t, 3, summary.Persisted)
	assert.True(t, summary.IndexDeleted)

	urls := persistedURLs(t, h)
	assert.Len(t, urls, 3)
}

func TestRun_IsIdempotent(t *testing.T) {
	h := newHarness(t)

	_, err := h.build(t).Run(context.Background())
	require.NoError(t, err)
	h.page.Visits = nil

	summary, err := h.build(t).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, h.page.Visits)
	assert.Equal(t, 3, summary.Skipped)
	assert.Equal(t, 3, summary.Persisted)
	assert.Len(t, persistedURLs(t, h), 3)
}

func TestRun_MarkerTimeoutIsRecorded(t *testing.T) {
	h := newHarness(t)
	h.page.Documents[urlBeta] = browsertest.Document{Text: "Loading..."}

	summary, err := h.build(t).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2, summary.Persisted)
	assert.False(t, summary.IndexDeleted)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "Beta ("+urlBeta+"): ")
	assert.Contains(t, summary.Errors[0], common.ErrMarkerTimeout.Error())

	urls := persistedURLs(t, h)
	assert.False(t, urls[urlBeta])
	assert.True(t, urls[urlGamma], "the run continues after a failure")

	index, err := h.stores(t).Index.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, index, 3, "index kept while connectors are missing")

	// The page renders on the next attempt
	h.page.Documents[urlBeta] = markedDocs(urlBeta)[urlBeta]
	h.page.Visits = nil
	summary, err = h.build(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{urlBeta}, h.page.Visits)
	assert.Empty(t, summary.Errors, "errors are not carried across runs")
	assert.True(t, summary.IndexDeleted)
}

func TestRun_ItemFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(h *harness)
		wantErr error
	}{
		{
			name: "navigation error",
			setup: func(h *harness) {
				h.page.NavigateErr[urlGamma] = errors.New("net::ERR_CONNECTION_RESET")
			},
		},
		{
			name: "empty detail",
			setup: func(h *harness) {
				delete(h.extractor.fields, urlGamma)
			},
			wantErr: common.ErrEmptyDetail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.setup(h)

			summary, err := h.build(t).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 2, summary.Persisted)
			require.Len(t, summary.Errors, 1)
			assert.Contains(t, summary.Errors[0], "Gamma ("+urlGamma+")")
			if tt.wantErr != nil {
				assert.Contains(t, summary.Errors[0], tt.wantErr.Error())
			}
			assert.False(t, persistedURLs(t, h)[urlGamma])
		})
	}
}

func TestRun_NoIndexEntries(t *testing.T) {
	h := newHarness(t)
	h.collector.entries = nil

	_, err := h.build(t).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNoIndexEntries)
	assert.Empty(t, h.page.Visits)
	assert.False(t, common.NewFileManager(zerolog.Nop()).FileExists(h.cfg.StorageConfig.OutputFile))
}

func TestRun_CollectorError(t *testing.T) {
	h := newHarness(t)
	h.collector.err = errors.New("tab not found")

	_, err := h.build(t).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tab not found")
}

func TestRun_SessionMissing(t *testing.T) {
	h := newHarness(t)
	h.cfg.BrowserConfig.UserDataDir = filepath.Join(t.TempDir(), "never-logged-in")

	_, err := h.build(t).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrSessionMissing)
	assert.Zero(t, h.collector.calls)
}

func TestRun_CancellationStopsBetweenItems(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.extractor.onCall = func(extractor.Snapshot) { cancel() }

	summary, err := h.build(t).Run(ctx)
	require.NoError(t, err)

	assert.True(t, summary.Cancelled)
	assert.Equal(t, []string{urlAlpha}, h.page.Visits)
	assert.Equal(t, 1, summary.Persisted)
	assert.False(t, summary.IndexDeleted)
	assert.True(t, persistedURLs(t, h)[urlAlpha], "the item in flight is flushed")
}

func TestRun_DefaultExtractorKeepsListingFallbacks(t *testing.T) {
	h := newHarness(t)
	h.page.Documents[urlAlpha] = browsertest.Document{
		Text: "Claude\nDeveloped by\nAlpha Inc",
		HTML: `<html><head>
<meta property="og:title" content="Claude">
<meta name="description" content="Talk with Claude, an AI assistant from Anthropic">
</head><body><p>Developed by</p></body></html>`,
	}
	h.collector.entries = testIndex[:1]

	so, err := NewScrapeOrchestratorBuilder(h.cfg, zerolog.Nop()).
		WithOpener(browsertest.Opener(h.page)).
		WithCollector(h.collector).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = so.Close() })

	summary, err := so.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Persisted)

	state, err := h.stores(t).Progress.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, state.Records, 1)
	rec := state.Records[0]
	assert.Equal(t, "Alpha", rec.Name, "listing name fills a missing heading")
	assert.Equal(t, "listing alpha", rec.Tagline)
	assert.Empty(t, rec.Description)
	assert.Equal(t, "Alpha Inc", rec.Developer.Name)
}

func TestRun_CancellationBeforeDetails(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(h *harness, cancel context.CancelFunc)
		wantCalls int
	}{
		{
			name: "during listing with a driver error",
			setup: func(h *harness, cancel context.CancelFunc) {
				h.collector.onCollect = cancel
				h.collector.entries = nil
				h.collector.err = errors.New("target closed")
			},
			wantCalls: 1,
		},
		{
			name: "during listing with a partial result",
			setup: func(h *harness, cancel context.CancelFunc) {
				h.collector.onCollect = cancel
				h.collector.entries = testIndex[:1]
			},
			wantCalls: 1,
		},
		{
			name: "before the saved index is read",
			setup: func(h *harness, cancel context.CancelFunc) {
				cancel()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			tt.setup(h, cancel)

			summary, err := h.build(t).Run(ctx)
			require.NoError(t, err)

			assert.True(t, summary.Cancelled)
			assert.Equal(t, tt.wantCalls, h.collector.calls)
			assert.Empty(t, h.page.Visits)

			index, err := h.stores(t).Index.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, index, "an interrupted listing is not saved")
		})
	}
}

func TestRun_ParquetExport(t *testing.T) {
	h := newHarness(t)
	h.cfg.StorageConfig.ParquetExportPath = filepath.Join(t.TempDir(), "connectors.parquet")

	summary, err := h.build(t).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.ParquetRows)

	records, err := datastore.ReadParquet(h.cfg.StorageConfig.ParquetExportPath)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReset(t *testing.T) {
	h := newHarness(t)
	so := h.build(t)
	_, err := so.Run(context.Background())
	require.NoError(t, err)

	require.NoError(t, so.Reset(context.Background()))
	assert.Empty(t, persistedURLs(t, h))
}
