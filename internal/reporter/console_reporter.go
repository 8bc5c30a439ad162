package reporter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aleister1102/conndir/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	// DefaultTaglineWidth truncates taglines in the index table
	DefaultTaglineWidth = 60
	// DefaultErrorWidth truncates messages in the error table
	DefaultErrorWidth = 100
)

// ConsoleReporter renders run results as terminal tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

func (cr *ConsoleReporter) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cr.out)
	t.SetStyle(table.StyleRounded)
	return t
}

// RenderIndex prints the connectors found on the listing
func (cr *ConsoleReporter) RenderIndex(entries []models.IndexEntry) {
	fmt.Fprintf(cr.out, "Found %d connectors:\n", len(entries))
	if len(entries) == 0 {
		return
	}

	t := cr.newTable()
	t.AppendHeader(table.Row{"#", "Name", "Tagline", "Detail URL"})
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Name, truncate(e.Tagline, DefaultTaglineWidth), e.DetailURL})
	}
	t.Render()
}

// RenderRunSummary prints the totals of a scrape run and its error log
func (cr *ConsoleReporter) RenderRunSummary(summary models.RunSummary, outputPath string) {
	t := cr.newTable()
	t.SetTitle("Scrape summary")
	t.AppendRows([]table.Row{
		{"Connectors in index", summary.IndexSize},
		{"Persisted", summary.Persisted},
		{"Scraped this run", summary.ScrapedNow},
		{"Skipped (already scraped)", summary.Skipped},
		{"Failed", summary.Failed},
		{"Index removed", yesNo(summary.IndexDeleted)},
		{"Duration", summary.Duration.Round(time.Second).String()},
		{"Output", outputPath},
	})
	if summary.ParquetRows > 0 {
		t.AppendRow(table.Row{"Parquet rows", summary.ParquetRows})
	}
	if summary.Cancelled {
		t.AppendFooter(table.Row{"Interrupted", "re-run to resume"})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()

	if len(summary.Errors) == 0 {
		return
	}
	errTable := cr.newTable()
	errTable.SetTitle(fmt.Sprintf("Errors (%d)", len(summary.Errors)))
	for i, msg := range summary.Errors {
		errTable.AppendRow(table.Row{i + 1, truncate(msg, DefaultErrorWidth)})
	}
	errTable.Render()
}

// RenderTransformStats prints coverage counts of a registry transform
func (cr *ConsoleReporter) RenderTransformStats(stats models.TransformStats, outputPath string) {
	fmt.Fprintf(cr.out, "Wrote %d connectors -> %s\n", stats.Connectors, outputPath)

	t := cr.newTable()
	t.SetTitle("Stats")
	t.AppendRows([]table.Row{
		{"Servers loaded", stats.Loaded},
		{"Duplicates dropped", stats.Duplicates},
		{"Total tools across all servers", stats.TotalTools},
		{"Authless (no login needed)", stats.Authless},
		{"Has MCP app", stats.HasMcpApp},
		{"Has rich HTML content", stats.HasHTMLContent},
		{"Has slug", stats.HasSlug},
		{"Has use case tags", stats.HasUseCases},
		{"Has claude code command", stats.HasCodeCommand},
		{"Has hero video", stats.HasHeroVideo},
		{"Has promo images", stats.HasImages},
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
	t.Render()
}

func truncate(s string, width int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
