package cron_feature

import "time"

// LastRun describes the most recent scheduled fleet sync
type LastRun struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Skipped    bool      `json:"skipped"`
	Anchors    int       `json:"anchors"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	TotalSaved int       `json:"totalSaved"`
}

// SchedulerStatus is reported by GET /api/cron/status
type SchedulerStatus struct {
	Running  bool       `json:"running"`
	Schedule string     `json:"schedule"`
	Timezone string     `json:"timezone"`
	NextRun  *time.Time `json:"nextRun,omitempty"`
	LastRun  *LastRun   `json:"lastRun,omitempty"`
}
