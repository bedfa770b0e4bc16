package streamjson

import "strings"

// lineAction is the classifier's verdict for one input line.
type lineAction int

const (
	// lineIgnore drops the line without touching the buffer.
	lineIgnore lineAction = iota
	// lineStart replaces the buffer with this line.
	lineStart
	// lineContinue appends this line to the in-progress value.
	lineContinue
)

// classifyLine decides how a raw line relates to the in-progress JSON value.
// The CLI interleaves free-form diagnostic text with structured output, so
// only lines that look like the start of a JSON value may begin
// accumulation. Once a value is in progress every non-empty line belongs to
// it, whatever its shape.
//
// Completeness is decided by attempting a parse, never by tracking nesting
// depth here: the parser already handles braces inside quoted strings and
// escapes correctly, and duplicating that is where hand-rolled depth
// counters go wrong.
func classifyLine(line string, accumulating bool) lineAction {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return lineIgnore
	}
	if accumulating {
		return lineContinue
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return lineStart
	}
	return lineIgnore
}
