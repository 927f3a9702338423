package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"anchor-sync/internal/config"

	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// AppLog is one persisted warning or error
type AppLog struct {
	ID        int64     `gorm:"primaryKey"`
	AppID     string    `gorm:"column:app_id;size:64"`
	LevelID   int       `gorm:"not null"`
	Message   string    `gorm:"type:text"`
	Caller    string    `gorm:"type:text"`
	AnchorID  string    `gorm:"size:191;index"`
	CreatedAt time.Time `gorm:"index"`
}

func (AppLog) TableName() string {
	return "app_logs"
}

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level    zapcore.Level
	Message  string
	AnchorID string
	Caller   string // Function name
	Time     time.Time
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *gorm.DB
	logChan chan LogEntry
	appId   string

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(db *gorm.DB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      db,
		logChan: make(chan LogEntry, 1000), // Buffer 1000 logs
		appId:   cfg.AppId,
		done:    make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook. Entries after Close are dropped.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the sync pipeline
		fmt.Fprintln(os.Stderr, "DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits until the buffered ones are written
// or ctx ends.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)

	for entry := range w.logChan {
		createdAt := entry.Time
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		// Insert errors are ignored to keep the app running
		_ = w.db.Create(&AppLog{
			AppID:     w.appId,
			LevelID:   mapLevelToInt(entry.Level),
			Message:   entry.Message,
			Caller:    entry.Caller,
			AnchorID:  entry.AnchorID,
			CreatedAt: createdAt.UTC(),
		}).Error
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
