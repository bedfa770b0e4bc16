// Package streamjson reconstructs complete JSON records from the
// line-oriented, possibly multi-line output of an untrusted subprocess,
// under hard resource ceilings.
//
// The CLI's stream-json output is one JSON object per line in the common
// case, but objects can arrive pretty-printed across several lines, and
// diagnostic text can be interleaved between them. The Reconstructor turns
// that line stream into a record stream: each ProcessLine call yields either
// nothing (no complete value yet), a parsed record, or a fatal per-record
// error. Size ceilings bound what a misbehaving child process can make us
// buffer, and parse timing is watched so a pathological document shows up in
// logs before it shows up in a profile.
package streamjson

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/agentwire/claudesdk/safety"
)

// Record is one complete parsed JSON object, keyed by field name.
type Record = map[string]any

// Reconstructor accumulates lines into complete JSON records.
//
// It is owned by the single goroutine driving the byte stream: no locking,
// no internal suspension. Records are returned in the order their closing
// line was processed. At most one value is ever in flight — the CLI never
// starts a second JSON value before finishing the first.
type Reconstructor struct {
	log          *slog.Logger
	buf          []byte
	limits       safety.Limits
	growthWarned bool
}

// Option configures a Reconstructor.
type Option func(*Reconstructor)

// WithLogger sets the logger used for advisory warnings (slow parses,
// oversized text payloads, buffer growth). Advisories are never returned as
// errors.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reconstructor) {
		r.log = log
	}
}

// New creates a Reconstructor with the given limits. The limits are copied
// and immutable for the lifetime of the instance.
func New(limits safety.Limits, opts ...Option) *Reconstructor {
	r := &Reconstructor{
		limits: limits,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Accumulating reports whether a JSON value is currently in progress.
func (r *Reconstructor) Accumulating() bool {
	return len(r.buf) > 0
}

// ProcessLine feeds one line (record separator already stripped) into the
// reconstructor. It returns (nil, nil) when no complete value is available
// yet, (record, nil) when a value completed on this line, or (nil, err) for
// a fatal per-record error. After any non-nil record or error the buffer is
// empty and the next call starts fresh.
func (r *Reconstructor) ProcessLine(line string) (Record, error) {
	// A single oversized line is rejected before classification: buffering
	// it would blow the same ceiling anyway, and an in-progress value that
	// needed it can never complete.
	if !r.limits.LineSizeOK(len(line)) {
		r.Reset()
		return nil, &LineTooLargeError{Actual: len(line), Limit: r.limits.MaxLineSize}
	}

	switch classifyLine(line, r.Accumulating()) {
	case lineIgnore:
		return nil, nil
	case lineStart:
		r.buf = append(r.buf[:0], line...)
	case lineContinue:
		r.buf = append(r.buf, '\n')
		r.buf = append(r.buf, line...)
	}

	// The accumulated buffer shares the single-line ceiling: a multi-line
	// value is still one logical line.
	if !r.limits.LineSizeOK(len(r.buf)) {
		n := len(r.buf)
		r.Reset()
		return nil, &LineTooLargeError{Actual: n, Limit: r.limits.MaxLineSize}
	}

	rec, err := r.attemptParse()
	if err == nil {
		r.Reset()
		return rec, nil
	}

	// Parse failed. Mid-stream this is indistinguishable from "more lines
	// coming", so keep buffering; Flush settles the question at stream end.
	if !r.growthWarned && len(r.buf) > r.limits.MaxLineSize/2 {
		r.growthWarned = true
		r.log.Warn("json buffer growing without completing a value",
			"buffered_bytes", len(r.buf),
			"limit_bytes", r.limits.MaxLineSize)
	}
	return nil, nil
}

// Flush must be called once the input stream has ended. If a value is still
// in progress it gets one final parse attempt; failure is now definitive and
// surfaces as a MalformedJSONError carrying a truncated preview. The buffer
// is empty afterwards in every case.
func (r *Reconstructor) Flush() (Record, error) {
	if !r.Accumulating() {
		return nil, nil
	}

	rec, err := r.attemptParse()
	preview := r.limits.Preview(string(r.buf))
	r.Reset()

	if err != nil {
		return nil, &MalformedJSONError{Preview: preview, Cause: err}
	}
	return rec, nil
}

// attemptParse tries to parse the current buffer as a single JSON object.
// The attempt is timed: exceeding the configured parse timeout logs a
// warning but never cancels the parse — there is no cooperative cancellation
// inside a synchronous Unmarshal, so the threshold is observational only.
func (r *Reconstructor) attemptParse() (Record, error) {
	var rec Record

	start := time.Now()
	err := json.Unmarshal(r.buf, &rec)
	elapsed := time.Since(start)

	if elapsed.Milliseconds() > r.limits.JSONParseTimeoutMs {
		r.log.Warn("json parse exceeded soft timeout",
			"elapsed_ms", elapsed.Milliseconds(),
			"timeout_ms", r.limits.JSONParseTimeoutMs,
			"buffered_bytes", len(r.buf))
	}

	if err != nil {
		return nil, err
	}

	r.scanTextBlocks(r.buf)
	return rec, nil
}

// Reset discards any in-progress value, clearing the buffer and the
// per-value warning latch. Input layers call it when they drop a line
// before it ever reaches ProcessLine (a reader-level size cap, say): an
// in-progress value missing one of its lines can never complete, and
// keeping it would swallow everything that follows.
func (r *Reconstructor) Reset() {
	r.buf = r.buf[:0]
	r.growthWarned = false
}
