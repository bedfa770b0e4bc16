package claude

import (
	"io"
	"sync"
	"time"

	"github.com/agentwire/claudesdk/internal/ndjson"
	"github.com/agentwire/claudesdk/streamjson"
)

// TraceEntry wraps one received record with capture metadata. Trace files
// are NDJSON and replayable: feeding the record fields back through
// protocol.FromRecord reproduces the typed stream.
type TraceEntry struct {
	Timestamp string            `json:"timestamp"`
	Direction string            `json:"direction"`
	Record    streamjson.Record `json:"record,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// WithTrace records every complete record and per-record error to w as
// NDJSON trace entries. Useful for debugging and for building test
// fixtures. Write failures are silently dropped; tracing never disturbs
// the stream.
func WithTrace(w io.Writer) Option {
	return func(o *Options) {
		o.trace = newTracer(w)
	}
}

// tracer serializes trace writes; the stream goroutine is the only writer
// today, the lock keeps that an implementation detail.
type tracer struct {
	mu sync.Mutex
	w  *ndjson.Writer
}

func newTracer(w io.Writer) *tracer {
	return &tracer{w: ndjson.NewWriter(w)}
}

func (t *tracer) record(rec streamjson.Record) {
	t.write(TraceEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: "received",
		Record:    rec,
	})
}

func (t *tracer) error(err error) {
	t.write(TraceEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: "received",
		Error:     err.Error(),
	})
}

func (t *tracer) write(entry TraceEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.w.Encode(entry)
}
