package observability

import (
	"context"
	"time"

	"github.com/sufield/mapgw/internal/mapfile"
	"github.com/sufield/mapgw/internal/ports"
)

// instrumentedEngine records call counts and latency of every engine call.
type instrumentedEngine struct {
	next    ports.Engine
	metrics *Metrics
}

// InstrumentEngine wraps e so every call is counted and timed. A nil
// metrics returns e unchanged.
func InstrumentEngine(e ports.Engine, m *Metrics) ports.Engine {
	if m == nil {
		return e
	}
	return &instrumentedEngine{next: e, metrics: m}
}

func (e *instrumentedEngine) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	e.metrics.engineCalls.WithLabelValues(op, result).Inc()
	e.metrics.engineDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (e *instrumentedEngine) LoadMap(ctx context.Context, path string) (m *mapfile.Map, err error) {
	start := time.Now()
	defer func() { e.observe("load", start, err) }()
	return e.next.LoadMap(ctx, path)
}

func (e *instrumentedEngine) SaveMap(ctx context.Context, m *mapfile.Map, path string) (err error) {
	start := time.Now()
	defer func() { e.observe("save", start, err) }()
	return e.next.SaveMap(ctx, m, path)
}

func (e *instrumentedEngine) Draw(ctx context.Context, m *mapfile.Map) (img *ports.Image, err error) {
	start := time.Now()
	defer func() { e.observe("draw", start, err) }()
	return e.next.Draw(ctx, m)
}

func (e *instrumentedEngine) Dispatch(ctx context.Context, m *mapfile.Map, req *ports.OWSRequest) (out *ports.OutputBuffer, err error) {
	start := time.Now()
	defer func() { e.observe("dispatch", start, err) }()
	return e.next.Dispatch(ctx, m, req)
}

func (e *instrumentedEngine) Version(ctx context.Context) (v int, err error) {
	start := time.Now()
	defer func() { e.observe("version", start, err) }()
	return e.next.Version(ctx)
}

var _ ports.Engine = (*instrumentedEngine)(nil)
