package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
)

// DisplayManager renders a Progress periodically. On a terminal the line
// is shown as a spinner suffix; otherwise it is logged whenever it changes.
type DisplayManager struct {
	progress      *Progress
	config        config.ProgressConfig
	spinner       *spinner.Spinner
	logger        zerolog.Logger
	usage         func() ResourceUsage
	mutex         sync.Mutex
	isRunning     bool
	stopChan      chan struct{}
	loopDone      chan struct{}
	lastDisplayed string
}

// NewDisplayManager creates a display writing spinner frames to out
func NewDisplayManager(cfg config.ProgressConfig, out io.Writer, logger zerolog.Logger) *DisplayManager {
	if cfg.DisplayInterval <= 0 {
		cfg.DisplayInterval = config.DefaultProgressDisplayInterval
	}
	if cfg.BarWidth <= 0 {
		cfg.BarWidth = config.DefaultProgressBarWidth
	}
	return &DisplayManager{
		progress: NewProgress(),
		config:   cfg,
		spinner:  spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(out)),
		logger:   logger.With().Str("component", "ProgressDisplay").Logger(),
		usage:    GetResourceUsage,
	}
}

// Progress returns the tracker this display renders
func (dm *DisplayManager) Progress() *Progress {
	return dm.progress
}

// Start begins rendering. It is a no-op when progress is disabled.
func (dm *DisplayManager) Start() {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	if dm.isRunning {
		return
	}
	if !dm.config.EnableProgress {
		dm.logger.Debug().Msg("Progress display disabled in configuration")
		return
	}

	dm.isRunning = true
	dm.stopChan = make(chan struct{})
	dm.loopDone = make(chan struct{})
	dm.spinner.Start()

	go dm.displayLoop(time.NewTicker(dm.config.GetDisplayIntervalDuration()))
}

// Stop halts rendering and prints the final line once
func (dm *DisplayManager) Stop() {
	dm.mutex.Lock()
	if !dm.isRunning {
		dm.mutex.Unlock()
		return
	}
	dm.isRunning = false
	close(dm.stopChan)
	done := dm.loopDone
	dm.mutex.Unlock()

	<-done
	if dm.spinner.Active() {
		line := dm.Line()
		dm.spinner.Lock()
		dm.spinner.FinalMSG = line + "\n"
		dm.spinner.Unlock()
		dm.spinner.Stop()
	}
}

func (dm *DisplayManager) displayLoop(ticker *time.Ticker) {
	defer close(dm.loopDone)
	defer ticker.Stop()

	for {
		select {
		case <-dm.stopChan:
			return
		case <-ticker.C:
			dm.display()
		}
	}
}

func (dm *DisplayManager) display() {
	line := dm.Line()
	if line == "" {
		return
	}

	if dm.spinner.Active() {
		dm.spinner.Lock()
		dm.spinner.Suffix = " " + line
		dm.spinner.Unlock()
		return
	}

	if line != dm.lastDisplayed {
		dm.logger.Info().Msg(line)
		dm.lastDisplayed = line
	}
}

// Line formats the current progress, or "" while idle
func (dm *DisplayManager) Line() string {
	info := dm.progress.Info()
	if info.Status == ProgressStatusIdle {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s %s", statusIcon(info.Status), info.Stage))

	if info.Total > 0 {
		builder.WriteString(fmt.Sprintf(" %s %.1f%% (%d/%d)",
			progressBar(info.GetPercentage(), dm.config.BarWidth), info.GetPercentage(), info.Current, info.Total))
	}

	if c := info.Counts; c.Succeeded+c.Failed+c.Skipped > 0 {
		builder.WriteString(fmt.Sprintf(" | ok:%d failed:%d skipped:%d", c.Succeeded, c.Failed, c.Skipped))
	}

	if dm.config.ShowETAEstimation && info.EstimatedETA > 0 && info.Status == ProgressStatusRunning {
		builder.WriteString(fmt.Sprintf(" | ETA: %s", formatDuration(info.EstimatedETA)))
	}

	if dm.config.ShowMemory {
		usage := dm.usage()
		builder.WriteString(fmt.Sprintf(" | mem: %dMB rss, %dMB heap", usage.RSSMB, usage.AllocMB))
	}

	if info.Message != "" {
		builder.WriteString(fmt.Sprintf(" | %s", info.Message))
	}

	return builder.String()
}

func statusIcon(status ProgressStatus) string {
	switch status {
	case ProgressStatusRunning:
		return "⏳"
	case ProgressStatusComplete:
		return "✅"
	case ProgressStatusError:
		return "❌"
	case ProgressStatusCancelled:
		return "🚫"
	default:
		return "💤"
	}
}

func progressBar(percentage float64, width int) string {
	if width <= 0 {
		return ""
	}

	filled := int((percentage / 100.0) * float64(width))
	if filled > width {
		filled = width
	}

	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	default:
		return fmt.Sprintf("%.1fh", d.Hours())
	}
}
