package claude

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/agentwire/claudesdk/internal/ndjson"
	"github.com/agentwire/claudesdk/streamjson"
)

// StreamItem is one element of the record stream: a complete parsed record
// or a per-record error. Reconstruction errors are recoverable (the stream
// continues past them); process and IO errors end the stream.
type StreamItem struct {
	Record streamjson.Record
	Err    error
}

// Stream reads the CLI's stdout until end of stream, reconstructing records
// and emitting them on the returned channel in arrival order. The channel
// buffer is the backpressure boundary: once full, reading from the CLI
// stalls until the consumer catches up. The channel is closed when the
// stream ends; ctx cancellation abandons delivery.
func (pm *processManager) Stream(ctx context.Context) <-chan StreamItem {
	out := make(chan StreamItem, pm.opts.Limits.MaxBufferedMessages)

	emit := func(item StreamItem) bool {
		if pm.opts.trace != nil {
			if item.Err != nil {
				pm.opts.trace.error(item.Err)
			} else {
				pm.opts.trace.record(item.Record)
			}
		}
		select {
		case out <- item:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(out)

		rec := streamjson.New(pm.opts.Limits, streamjson.WithLogger(pm.opts.Logger))

		for {
			line, err := pm.reader.ReadLine()
			if err != nil {
				var tooLong *ndjson.LineTooLongError
				if errors.As(err, &tooLong) {
					// The oversized line was drained; subsequent lines are
					// intact, so this is a per-record failure. Any value in
					// progress is missing this line and can never complete,
					// so drop it rather than let it swallow what follows.
					rec.Reset()
					if !emit(StreamItem{Err: &streamjson.LineTooLargeError{
						Actual: tooLong.Size,
						Limit:  tooLong.Limit,
					}}) {
						return
					}
					continue
				}
				if err != io.EOF {
					emit(StreamItem{Err: &ConnectionError{Message: "reading CLI output", Cause: err}})
					return
				}
				break
			}

			record, perr := rec.ProcessLine(string(line))
			if perr != nil {
				if !emit(StreamItem{Err: perr}) {
					return
				}
				continue
			}
			if record != nil {
				if !emit(StreamItem{Record: record}) {
					return
				}
			}
		}

		// End of stream: force a verdict on any half-built value.
		if record, err := rec.Flush(); err != nil {
			if !emit(StreamItem{Err: err}) {
				return
			}
		} else if record != nil {
			if !emit(StreamItem{Record: record}) {
				return
			}
		}

		waitErr := pm.wait()
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && ctx.Err() == nil {
			emit(StreamItem{Err: &ProcessError{
				Message:  "CLI process failed",
				ExitCode: exitErr.ExitCode(),
				Stderr:   pm.stderrText(),
				Cause:    waitErr,
			}})
		}
	}()

	return out
}
