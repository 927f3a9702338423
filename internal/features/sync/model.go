package sync

import (
	"time"

	"anchor-sync/internal/connectors"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusFailure SyncStatus = "failure"
)

// SyncLog is the immutable record of one account sync attempt
type SyncLog struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	AnchorID   string     `json:"anchor_id" gorm:"size:191;not null;index:idx_sync_logs_anchor,priority:1"`
	AnchorName string     `json:"anchor_name" gorm:"size:191"`
	SyncStatus SyncStatus `json:"sync_status" gorm:"size:16;not null"`
	Reason     string     `json:"reason" gorm:"type:text"`
	OrderCount int        `json:"order_count" gorm:"not null"`
	SyncTime   time.Time  `json:"sync_time" gorm:"index:idx_sync_logs_anchor,priority:2"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (SyncLog) TableName() string {
	return "sync_logs"
}

// LogFilter narrows sync log listings
type LogFilter struct {
	AnchorID   string
	AnchorName string
	SyncStatus string
}

// LogStats summarizes the sync logs matching a filter
type LogStats struct {
	Total        int64 `json:"total"`
	SuccessCount int64 `json:"successCount"`
	FailedCount  int64 `json:"failedCount"`
	TotalOrders  int64 `json:"totalOrders"`
}

// Step names for the best-effort work that follows a sync
const (
	StepSyncLog       = "sync_log"
	StepMarkInvalid   = "mark_invalid"
	StepNotifyExpired = "notify_credential_expired"
	StepAggregate     = "aggregate_reports"
	StepAggregateAll  = "aggregate_all_reports"
	StepNotifyDigest  = "notify_commission_digest"
)

// StepOutcome records a best-effort step. Its failure never changes the
// outcome of the sync it follows.
type StepOutcome struct {
	Step    string `json:"step"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AccountResult is the outcome of syncing one anchor
type AccountResult struct {
	Anchor       string               `json:"anchor"`
	AnchorID     string               `json:"anchorId"`
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	ErrorKind    connectors.ErrorKind `json:"errorKind,omitempty"`
	TotalFetched int                  `json:"totalFetched"`
	TotalSaved   int                  `json:"totalSaved"`
	Duration     string               `json:"duration"`
	DurationMs   int64                `json:"durationMs"`
	TimeRange    string               `json:"timeRange"`
	Pages        int                  `json:"pages"`
	Steps        []StepOutcome        `json:"steps,omitempty"`
}

// FleetSummary is the outcome of one fleet run
type FleetSummary struct {
	Skipped      bool            `json:"skipped,omitempty"`
	Anchors      int             `json:"anchors"`
	Successful   int             `json:"successful"`
	Failed       int             `json:"failed"`
	TotalFetched int             `json:"totalFetched"`
	TotalSaved   int             `json:"totalSaved"`
	TimeRange    string          `json:"timeRange,omitempty"`
	Results      []AccountResult `json:"results"`
	Steps        []StepOutcome   `json:"steps,omitempty"`
}

// SyncRequest asks for one anchor to be synced now
type SyncRequest struct {
	AnchorID  string `json:"anchorId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// SyncResponse is returned to on-demand sync callers
type SyncResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
	Data    *AccountResult `json:"data,omitempty"`
}
