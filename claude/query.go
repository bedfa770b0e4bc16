package claude

import (
	"context"
	"strings"

	"github.com/agentwire/claudesdk/protocol"
)

// Event is one element of the message stream: a typed message or an error.
// Exactly one field is set. Recoverable errors (per-record reconstruction
// failures) are followed by further events; fatal ones end the stream.
type Event struct {
	Message protocol.Message
	Err     error
}

// QueryStream sends a one-shot prompt and returns the message stream. The
// caller should range over the channel until it closes; cancelling ctx
// stops the CLI process and ends the stream.
func QueryStream(ctx context.Context, prompt string, opts ...Option) (<-chan Event, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	pm := newProcessManager(prompt, o)
	if err := pm.Start(ctx); err != nil {
		return nil, err
	}

	items := pm.Stream(ctx)
	// Unbuffered on purpose: the record stream already buffers up to
	// MaxBufferedMessages, and a second buffer here would double the
	// effective ceiling.
	out := make(chan Event)

	go func() {
		defer close(out)
		defer pm.Stop()

		for item := range items {
			var ev Event
			if item.Err != nil {
				ev = Event{Err: item.Err}
			} else {
				msg, ok := protocol.FromRecord(item.Record)
				if !ok {
					// Record kinds the taxonomy does not model.
					continue
				}
				ev = Event{Message: msg}
			}

			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// Result is the outcome of a blocking Query: the concatenated assistant
// text and the closing result message.
type Result struct {
	Result *protocol.ResultMessage
	Text   string
}

// Query sends a one-shot prompt and blocks until the CLI finishes.
func Query(ctx context.Context, prompt string, opts ...Option) (*Result, error) {
	events, err := QueryStream(ctx, prompt, opts...)
	if err != nil {
		return nil, err
	}

	var (
		text     strings.Builder
		res      *protocol.ResultMessage
		firstErr error
	)

	for ev := range events {
		if ev.Err != nil {
			if firstErr == nil {
				firstErr = ev.Err
			}
			continue
		}

		switch m := ev.Message.(type) {
		case *protocol.AssistantMessage:
			for _, block := range m.Content {
				if tb, ok := block.(protocol.TextBlock); ok {
					text.WriteString(tb.Text)
				}
			}
		case *protocol.ResultMessage:
			res = m
		}
	}

	if res == nil {
		if firstErr != nil {
			return nil, firstErr
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &ConnectionError{Message: "stream ended without a result"}
	}
	if firstErr != nil && !IsRecoverable(firstErr) {
		return nil, firstErr
	}

	return &Result{Text: text.String(), Result: res}, nil
}
