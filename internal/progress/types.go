package progress

import "time"

// ProgressStatus is the lifecycle state of a tracked run
type ProgressStatus string

const (
	ProgressStatusIdle      ProgressStatus = "IDLE"
	ProgressStatusRunning   ProgressStatus = "RUNNING"
	ProgressStatusComplete  ProgressStatus = "COMPLETE"
	ProgressStatusError     ProgressStatus = "ERROR"
	ProgressStatusCancelled ProgressStatus = "CANCELLED"
)

// Stage names the phase a scrape run is in
type Stage string

const (
	StageInit    Stage = "init"
	StageIndex   Stage = "index"
	StageDetails Stage = "details"
	StageDone    Stage = "done"
)

// ItemCounts tallies per-connector outcomes of the detail phase
type ItemCounts struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// ProgressInfo is a point-in-time copy of a run's progress
type ProgressInfo struct {
	Status         ProgressStatus `json:"status"`
	Stage          Stage          `json:"stage"`
	Current        int64          `json:"current"`
	Total          int64          `json:"total"`
	Message        string         `json:"message"`
	Counts         ItemCounts     `json:"counts"`
	StartTime      time.Time      `json:"start_time"`
	LastUpdateTime time.Time      `json:"last_update_time"`
	EstimatedETA   time.Duration  `json:"estimated_eta"`
}

// UpdateETA estimates the remaining time from the average rate so far
func (pi *ProgressInfo) UpdateETA() {
	if pi.Total <= 0 || pi.Current <= 0 || pi.Status != ProgressStatusRunning {
		pi.EstimatedETA = 0
		return
	}

	elapsed := time.Since(pi.StartTime)
	if elapsed <= 0 {
		pi.EstimatedETA = 0
		return
	}

	rate := float64(pi.Current) / elapsed.Seconds()
	remaining := float64(pi.Total - pi.Current)
	if rate <= 0 || remaining <= 0 {
		pi.EstimatedETA = 0
		return
	}

	pi.EstimatedETA = time.Duration(remaining / rate * float64(time.Second))
}

// GetPercentage returns completion in [0, 100]
func (pi *ProgressInfo) GetPercentage() float64 {
	if pi.Total <= 0 {
		return 0.0
	}
	percentage := float64(pi.Current) * 100 / float64(pi.Total)
	if percentage > 100 {
		return 100.0
	}
	return percentage
}
