//go:build !windows

package claude

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentwire/claudesdk/protocol"
	"github.com/agentwire/claudesdk/safety"
	"github.com/agentwire/claudesdk/streamjson"
)

// fakeCLI writes a shell script standing in for the claude binary. The
// script ignores its arguments and plays back a canned stdout/stderr.
func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func collectEvents(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestQueryStream_FullPipeline(t *testing.T) {
	cli := fakeCLI(t, `cat <<'EOF'
{"type":"system","subtype":"init","session_id":"s1","model":"test-model"}
free-form diagnostic noise
{
  "type": "assistant",
  "message": {
    "content": [
      {"type": "text", "text": "Hello world"}
    ]
  }
}
{"type":"result","subtype":"success","duration_ms":12,"duration_api_ms":9,"is_error":false,"num_turns":1,"session_id":"s1","result":"Hello world"}
EOF
`)

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 3)

	sys, ok := got[0].Message.(*protocol.SystemMessage)
	require.True(t, ok, "first event should be the system init")
	assert.Equal(t, "init", sys.Subtype)

	asst, ok := got[1].Message.(*protocol.AssistantMessage)
	require.True(t, ok, "second event should be the assistant turn")
	require.Len(t, asst.Content, 1)
	assert.Equal(t, protocol.TextBlock{Text: "Hello world"}, asst.Content[0])

	res, ok := got[2].Message.(*protocol.ResultMessage)
	require.True(t, ok, "last event should be the result")
	assert.Equal(t, "success", res.Subtype)
	assert.Equal(t, 1, res.NumTurns)
}

func TestQueryStream_ContinuesAfterOversizedLine(t *testing.T) {
	pad := strings.Repeat("x", 300)
	cli := fakeCLI(t, `cat <<'EOF'
{"type":"system","subtype":"init","pad":"`+pad+`"}
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s"}
EOF
`)

	limits := safety.Limits{
		MaxLineSize:         128,
		MaxTextBlockSize:    128,
		MaxBufferSize:       1024,
		MaxBufferedMessages: 10,
		JSONParseTimeoutMs:  1000,
		MaxLogPreviewChars:  20,
	}

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli), WithSafetyLimits(limits))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 2)

	var tooLarge *streamjson.LineTooLargeError
	require.ErrorAs(t, got[0].Err, &tooLarge)
	assert.Greater(t, tooLarge.Actual, limits.MaxLineSize)
	assert.True(t, IsRecoverable(got[0].Err))

	res, ok := got[1].Message.(*protocol.ResultMessage)
	require.True(t, ok, "stream should continue past the fatal item")
	assert.Equal(t, "success", res.Subtype)
}

func TestQueryStream_OversizedLineWhileAccumulating(t *testing.T) {
	// A lone opening brace puts the reconstructor mid-value before the
	// oversized line arrives. The half-built value must be dropped with the
	// line, or it would swallow every record that follows and then surface
	// as a bogus malformed-JSON error at end of stream.
	pad := strings.Repeat("x", 300)
	cli := fakeCLI(t, `cat <<'EOF'
{
`+pad+`
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s"}
EOF
`)

	limits := safety.Limits{
		MaxLineSize:         128,
		MaxTextBlockSize:    128,
		MaxBufferSize:       1024,
		MaxBufferedMessages: 10,
		JSONParseTimeoutMs:  1000,
		MaxLogPreviewChars:  20,
	}

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli), WithSafetyLimits(limits))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 2)

	var tooLarge *streamjson.LineTooLargeError
	require.ErrorAs(t, got[0].Err, &tooLarge)

	res, ok := got[1].Message.(*protocol.ResultMessage)
	require.True(t, ok, "record after the dropped value must still arrive")
	assert.Equal(t, "success", res.Subtype)
}

func TestQueryStream_EventChannelUnbuffered(t *testing.T) {
	cli := fakeCLI(t, `cat <<'EOF'
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s"}
EOF
`)

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	// The record stream already buffers up to MaxBufferedMessages; any
	// buffer on the event channel would double the effective ceiling.
	assert.Equal(t, 0, cap(events))
	collectEvents(events)
}

func TestQueryStream_MalformedTailSurfacesAtEOF(t *testing.T) {
	cli := fakeCLI(t, `cat <<'EOF'
{"type":"system","subtype":"init","session_id":"s"}
{
  "type": "assistant",
  "message": {"content": truncated
EOF
`)

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 2)

	_, ok := got[0].Message.(*protocol.SystemMessage)
	require.True(t, ok)

	var malformed *streamjson.MalformedJSONError
	require.ErrorAs(t, got[1].Err, &malformed)
}

func TestQueryStream_NonZeroExit(t *testing.T) {
	cli := fakeCLI(t, `echo "api key missing" >&2
exit 3
`)

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 1)

	var procErr *ProcessError
	require.ErrorAs(t, got[0].Err, &procErr)
	assert.Equal(t, 3, procErr.ExitCode)
	assert.Contains(t, procErr.Stderr, "api key missing")
	assert.False(t, IsRecoverable(got[0].Err))
}

func TestQueryStream_EntrypointEnvIsSpawnOnly(t *testing.T) {
	// The script echoes the variable back inside a result record; shell
	// expansion happens in the child, so this observes the spawn env.
	cli := fakeCLI(t, `cat <<EOF
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s","result":"$CLAUDE_CODE_ENTRYPOINT"}
EOF
`)

	events, err := QueryStream(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 1)

	res, ok := got[0].Message.(*protocol.ResultMessage)
	require.True(t, ok)
	require.NotNil(t, res.Result)
	assert.Equal(t, "sdk-go", *res.Result)

	assert.Empty(t, os.Getenv("CLAUDE_CODE_ENTRYPOINT"), "parent env must stay clean")
}

func TestQueryStream_ExtraEnvPassedThrough(t *testing.T) {
	cli := fakeCLI(t, `cat <<EOF
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s","result":"$MY_EXTRA_VAR"}
EOF
`)

	events, err := QueryStream(testCtx(t), "hi",
		WithCLIPath(cli),
		WithEnv(map[string]string{"MY_EXTRA_VAR": "present"}))
	require.NoError(t, err)

	got := collectEvents(events)
	require.Len(t, got, 1)

	res := got[0].Message.(*protocol.ResultMessage)
	require.NotNil(t, res.Result)
	assert.Equal(t, "present", *res.Result)
}

func TestQueryStream_CLIPathMissing(t *testing.T) {
	_, err := QueryStream(testCtx(t), "hi", WithCLIPath(filepath.Join(t.TempDir(), "nope")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCLINotFound))
}

func TestQueryStream_ContextCancellation(t *testing.T) {
	cli := fakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s"}'
sleep 30
`)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := QueryStream(ctx, "hi", WithCLIPath(cli))
	require.NoError(t, err)

	// First event arrives, then cancel; the channel must close promptly
	// instead of waiting out the sleep.
	<-events
	cancel()

	select {
	case <-waitClosed(events):
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not end after cancellation")
	}
}

func waitClosed(ch <-chan Event) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		for range ch {
		}
		close(done)
	}()
	return done
}

func TestQuery_Blocking(t *testing.T) {
	cli := fakeCLI(t, `cat <<'EOF'
{"type":"assistant","message":{"content":[{"type":"text","text":"Hello "}]}}
{"type":"assistant","message":{"content":[{"type":"text","text":"world"}]}}
{"type":"result","subtype":"success","duration_ms":7,"duration_api_ms":5,"is_error":false,"num_turns":1,"session_id":"s1","result":"Hello world"}
EOF
`)

	result, err := Query(testCtx(t), "hi", WithCLIPath(cli))
	require.NoError(t, err)

	assert.Equal(t, "Hello world", result.Text)
	require.NotNil(t, result.Result)
	assert.Equal(t, "s1", result.Result.SessionID)
}

func TestQuery_NoResult(t *testing.T) {
	cli := fakeCLI(t, `echo '{"type":"system","subtype":"init","session_id":"s"}'
`)

	_, err := Query(testCtx(t), "hi", WithCLIPath(cli))
	require.Error(t, err)

	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestQuery_StderrHandler(t *testing.T) {
	cli := fakeCLI(t, `echo "progress note" >&2
cat <<'EOF'
{"type":"result","subtype":"success","duration_ms":1,"duration_api_ms":1,"is_error":false,"num_turns":1,"session_id":"s"}
EOF
`)

	var captured strings.Builder
	done := make(chan struct{})
	_, err := Query(testCtx(t), "hi",
		WithCLIPath(cli),
		WithStderrHandler(func(b []byte) {
			captured.Write(b)
			select {
			case <-done:
			default:
				close(done)
			}
		}))
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
	}
	assert.Contains(t, captured.String(), "progress note")
}
