package logger

import (
	"go.uber.org/zap/zapcore"
)

// MinPersistLevel is the lowest level copied into app_logs.
const MinPersistLevel = zapcore.WarnLevel

// DBCore is a custom Zap Core that intercepts logs
type DBCore struct {
	zapcore.Core
	writer   *DBLogWriter
	anchorID string
}

// NewDBCore wraps an existing core (like console logger) and adds DB logging
func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the DB tee on child loggers and remembers a bound anchor_id.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core:     c.Core.With(fields),
		writer:   c.writer,
		anchorID: anchorIDOf(fields, c.anchorID),
	}
}

func anchorIDOf(fields []zapcore.Field, fallback string) string {
	anchorID := fallback
	for _, f := range fields {
		if f.Key == "anchor_id" && f.Type == zapcore.StringType {
			anchorID = f.String
		}
	}
	return anchorID
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	if entry.Level >= MinPersistLevel {
		anchorID := anchorIDOf(fields, c.anchorID)

		c.writer.AddLog(LogEntry{
			Level:    entry.Level,
			Message:  entry.Message,
			AnchorID: anchorID,
			Caller:   entry.Caller.Function,
			Time:     entry.Time,
		})
	}

	// Call the underlying core so it still prints to Console/File
	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
