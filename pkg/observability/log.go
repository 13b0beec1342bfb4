package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogPipelineHooks logs pipeline events at debug level.
type LogPipelineHooks struct{ Logger *log.Logger }

func (h LogPipelineHooks) OnLayoutStart(_ context.Context, items int) {
	h.Logger.Debug("layout start", "items", items)
}

func (h LogPipelineHooks) OnLayoutComplete(_ context.Context, ev LayoutEvent, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "items", ev.Items, "error", err)
		return
	}
	h.Logger.Debug("layout complete",
		"items", ev.Items,
		"utilization", round2(ev.Utilization),
		"fidelity", round2(ev.OrderFidelity),
		"cached", ev.CacheHit,
		"duration", ev.Duration.Round(time.Microsecond))
}

func (h LogPipelineHooks) OnStoreSave(_ context.Context, id string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("store save failed", "id", id, "error", err)
		return
	}
	h.Logger.Debug("stored layout", "id", id, "duration", d.Round(time.Microsecond))
}

// LogCacheHooks logs cache events at debug level.
type LogCacheHooks struct{ Logger *log.Logger }

func (h LogCacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogCacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogCacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

// LogHTTPHooks logs one line per request.
type LogHTTPHooks struct{ Logger *log.Logger }

func (h LogHTTPHooks) OnRequest(context.Context, string, string) {}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}

func (h LogHTTPHooks) OnError(_ context.Context, method, route string, err error) {
	h.Logger.Error("request failed", "method", method, "route", route, "error", err)
}

// UseLogger registers the log-backed hooks for every category.
func UseLogger(logger *log.Logger) {
	SetPipelineHooks(LogPipelineHooks{Logger: logger})
	SetCacheHooks(LogCacheHooks{Logger: logger})
	SetHTTPHooks(LogHTTPHooks{Logger: logger})
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
