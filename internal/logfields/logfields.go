package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeySession    = "session"
	KeySection    = "section"
	KeyPath       = "path"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyMessageID  = "message_id"
	KeyDurationMS = "duration_ms"
	KeyJob        = "job"
	KeyVisitor    = "visitor"
	KeyError      = "error"
)

func Session(id string) slog.Attr   { return slog.String(KeySession, id) }
func Section(id string) slog.Attr   { return slog.String(KeySection, id) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Method(m string) slog.Attr     { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func MessageID(id int64) slog.Attr  { return slog.Int64(KeyMessageID, id) }
func Job(name string) slog.Attr     { return slog.String(KeyJob, name) }
func Visitor(hash string) slog.Attr { return slog.String(KeyVisitor, hash) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
