// Package logfields holds the canonical slog attribute keys used across docnav.
package logfields

import "log/slog"

// Canonical log field names; changing one breaks log ingestion queries.
const (
	KeyVersion      = "version"
	KeyResolved     = "resolved_version"
	KeyPath         = "path"
	KeyTarget       = "target"
	KeyHref         = "href"
	KeyMethod       = "method"
	KeyStatus       = "status"
	KeyDurationMS   = "duration_ms"
	KeyUserAgent    = "user_agent"
	KeyRemoteAddr   = "remote_addr"
	KeyRequestID    = "request_id"
	KeyFile         = "file"
	KeyGenerationID = "generation_id"
	KeyCount        = "count"
	KeyJob          = "job"
	KeyError        = "error"
)

func Version(v string) slog.Attr         { return slog.String(KeyVersion, v) }
func Resolved(v string) slog.Attr        { return slog.String(KeyResolved, v) }
func Path(p string) slog.Attr            { return slog.String(KeyPath, p) }
func Target(t string) slog.Attr          { return slog.String(KeyTarget, t) }
func Href(h string) slog.Attr            { return slog.String(KeyHref, h) }
func Method(m string) slog.Attr          { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr          { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr    { return slog.Float64(KeyDurationMS, ms) }
func UserAgent(ua string) slog.Attr      { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr   { return slog.String(KeyRemoteAddr, addr) }
func RequestID(id string) slog.Attr      { return slog.String(KeyRequestID, id) }
func File(f string) slog.Attr            { return slog.String(KeyFile, f) }
func GenerationID(id string) slog.Attr   { return slog.String(KeyGenerationID, id) }
func Count(n int) slog.Attr              { return slog.Int(KeyCount, n) }
func Job(name string) slog.Attr          { return slog.String(KeyJob, name) }

// Error returns an error attribute; nil yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
