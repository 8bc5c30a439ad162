package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_New(t *testing.T) {
	p := NewProgress()
	require.NotNil(t, p)
	assert.Equal(t, ProgressStatusIdle, p.Info().Status)
}

func TestProgress_StartStageAndUpdate(t *testing.T) {
	p := NewProgress()
	p.StartStage(StageDetails, 10, "starting")

	info := p.Info()
	assert.Equal(t, ProgressStatusRunning, info.Status)
	assert.Equal(t, StageDetails, info.Stage)
	assert.Equal(t, int64(10), info.Total)
	assert.Zero(t, info.Current)
	assert.NotZero(t, info.StartTime)

	p.Update(4, "Alpha")
	info = p.Info()
	assert.Equal(t, int64(4), info.Current)
	assert.Equal(t, "Alpha", info.Message)

	firstStart := info.StartTime
	time.Sleep(2 * time.Millisecond)
	p.StartStage(StageDone, 0, "")
	info = p.Info()
	assert.Zero(t, info.Current)
	assert.NotEqual(t, firstStart, info.StartTime)
}

func TestProgress_Counts(t *testing.T) {
	p := NewProgress()
	p.RecordSucceeded()
	p.RecordSucceeded()
	p.RecordFailed()
	p.RecordSkipped()

	assert.Equal(t, ItemCounts{Succeeded: 2, Failed: 1, Skipped: 1}, p.Info().Counts)
}

func TestProgress_SetStatus(t *testing.T) {
	p := NewProgress()
	p.StartStage(StageDetails, 2, "")
	p.SetStatus(ProgressStatusCancelled, "interrupted")

	info := p.Info()
	assert.Equal(t, ProgressStatusCancelled, info.Status)
	assert.Equal(t, "interrupted", info.Message)
	assert.Zero(t, info.EstimatedETA)
}

func TestProgressInfo_GetPercentage(t *testing.T) {
	testCases := []struct {
		name     string
		current  int64
		total    int64
		expected float64
	}{
		{"zero total", 50, 0, 0.0},
		{"zero current", 0, 100, 0.0},
		{"normal", 25, 100, 25.0},
		{"full", 100, 100, 100.0},
		{"over", 150, 100, 100.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pi := &ProgressInfo{Current: tc.current, Total: tc.total}
			assert.InDelta(t, tc.expected, pi.GetPercentage(), 0.001)
		})
	}
}

func TestProgressInfo_UpdateETA(t *testing.T) {
	startTime := time.Now().Add(-10 * time.Second)

	testCases := []struct {
		name     string
		info     ProgressInfo
		expected time.Duration
	}{
		{
			name:     "not running",
			info:     ProgressInfo{Status: ProgressStatusIdle, Current: 10, Total: 100, StartTime: startTime},
			expected: 0,
		},
		{
			name:     "zero total",
			info:     ProgressInfo{Status: ProgressStatusRunning, Current: 10, Total: 0, StartTime: startTime},
			expected: 0,
		},
		{
			name:     "zero current",
			info:     ProgressInfo{Status: ProgressStatusRunning, Current: 0, Total: 100, StartTime: startTime},
			expected: 0,
		},
		{
			name:     "halfway done",
			info:     ProgressInfo{Status: ProgressStatusRunning, Current: 50, Total: 100, StartTime: startTime},
			expected: 10 * time.Second,
		},
		{
			name:     "finished",
			info:     ProgressInfo{Status: ProgressStatusRunning, Current: 100, Total: 100, StartTime: startTime},
			expected: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.info.UpdateETA()
			assert.InDelta(t, tc.expected.Seconds(), tc.info.EstimatedETA.Seconds(), 0.1)
		})
	}
}

func newTestDisplay(cfg config.ProgressConfig) *DisplayManager {
	dm := NewDisplayManager(cfg, &bytes.Buffer{}, zerolog.Nop())
	dm.usage = func() ResourceUsage { return ResourceUsage{AllocMB: 12, RSSMB: 80} }
	return dm
}

func TestDisplayManager_Line(t *testing.T) {
	dm := newTestDisplay(config.ProgressConfig{DisplayInterval: 1, EnableProgress: true, ShowMemory: true})
	assert.Empty(t, dm.Line(), "idle progress renders nothing")

	p := dm.Progress()
	p.StartStage(StageDetails, 4, "")
	p.Update(2, "Beta")
	p.RecordSucceeded()
	p.RecordSkipped()

	line := dm.Line()
	assert.Contains(t, line, "details")
	assert.Contains(t, line, "50.0% (2/4)")
	assert.Contains(t, line, "ok:1 failed:0 skipped:1")
	assert.Contains(t, line, "mem: 80MB rss, 12MB heap")
	assert.Contains(t, line, "| Beta")
	assert.Contains(t, line, "["+strings.Repeat("█", 10)+strings.Repeat("░", 10)+"]", "default bar is 20 cells")

	narrow := newTestDisplay(config.ProgressConfig{DisplayInterval: 1, BarWidth: 8})
	narrow.Progress().StartStage(StageDetails, 4, "")
	narrow.Progress().Update(1, "")
	assert.Contains(t, narrow.Line(), "[██░░░░░░]")
}

func TestDisplayManager_StartStop(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		dm := newTestDisplay(config.ProgressConfig{DisplayInterval: 1, EnableProgress: false})
		dm.Start()
		assert.False(t, dm.isRunning)
		dm.Stop()
	})

	t.Run("enabled", func(t *testing.T) {
		dm := newTestDisplay(config.ProgressConfig{DisplayInterval: 1, EnableProgress: true})
		dm.Start()
		dm.Start()
		assert.True(t, dm.isRunning)
		dm.Stop()
		dm.Stop()
		assert.False(t, dm.isRunning)
	})
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "[██░░]", progressBar(50, 4))
	assert.Equal(t, "[████]", progressBar(150, 4))
	assert.Equal(t, "", progressBar(50, 0))

	assert.Equal(t, "45s", formatDuration(45*time.Second))
	assert.Equal(t, "5m", formatDuration(5*time.Minute))
	assert.Equal(t, "2.0h", formatDuration(2*time.Hour))
}
