package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at error level and layout fallbacks at warn.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, prefixed with "hooks".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Error(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnParseStart(_ context.Context, sourceBytes int) {
	h.logger.Debug("parse start", "bytes", sourceBytes)
}

func (h *LogHooks) OnParseComplete(_ context.Context, vertices, links int, d time.Duration, err error) {
	h.done("parse complete", err, "vertices", vertices, "links", links, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, vertices int) {
	h.logger.Debug("layout start", "viz", vizType, "vertices", vertices)
}

func (h *LogHooks) OnLayoutFallback(_ context.Context, reason string) {
	h.logger.Warn("layout fallback", "reason", reason)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, arcs int, d time.Duration, err error) {
	h.done("layout complete", err, "viz", vizType, "arcs", arcs, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
