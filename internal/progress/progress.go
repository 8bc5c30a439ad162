package progress

import (
	"sync"
	"time"
)

// Progress tracks one scrape run. It is safe for concurrent use so the
// display loop can read while the run updates.
type Progress struct {
	mu   sync.RWMutex
	info ProgressInfo
}

// NewProgress creates an idle tracker
func NewProgress() *Progress {
	return &Progress{
		info: ProgressInfo{Status: ProgressStatusIdle},
	}
}

// Info returns a copy of the current state
func (p *Progress) Info() ProgressInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.info
}

// StartStage moves to stage with a fresh clock and counter
func (p *Progress) StartStage(stage Stage, total int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	p.info.Status = ProgressStatusRunning
	p.info.Stage = stage
	p.info.Current = 0
	p.info.Total = total
	p.info.Message = message
	p.info.StartTime = now
	p.info.LastUpdateTime = now
	p.info.EstimatedETA = 0
}

// Update sets the position within the current stage
func (p *Progress) Update(current int64, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.info.Status == ProgressStatusIdle {
		p.info.Status = ProgressStatusRunning
		p.info.StartTime = time.Now()
	}
	p.info.Current = current
	p.info.Message = message
	p.info.LastUpdateTime = time.Now()
	p.info.UpdateETA()
}

// RecordSucceeded counts a scraped connector
func (p *Progress) RecordSucceeded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info.Counts.Succeeded++
}

// RecordFailed counts a connector whose detail page could not be scraped
func (p *Progress) RecordFailed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info.Counts.Failed++
}

// RecordSkipped counts a connector persisted by an earlier run
func (p *Progress) RecordSkipped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.info.Counts.Skipped++
}

// SetStatus sets the run status
func (p *Progress) SetStatus(status ProgressStatus, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.info.Status = status
	p.info.Message = message
	p.info.LastUpdateTime = time.Now()
	if status != ProgressStatusRunning {
		p.info.EstimatedETA = 0
	}
}
