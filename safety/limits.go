// Package safety defines resource ceilings for consuming untrusted CLI
// output. A Limits value is attached to a reconstructor at construction and
// is read-only from then on.
package safety

import "fmt"

// Limits bounds the resources the SDK will spend on a single CLI stream.
type Limits struct {
	// MaxLineSize is the ceiling in bytes for a single output line and for
	// the accumulated multi-line JSON buffer.
	MaxLineSize int `yaml:"max_line_size"`

	// MaxTextBlockSize is the ceiling in bytes for a single text payload
	// inside a parsed record. Advisory: violations are logged, not fatal.
	MaxTextBlockSize int `yaml:"max_text_block_size"`

	// MaxBufferSize is the ceiling on total memory held across buffered
	// but undelivered records. Enforced by the consumer's backpressure
	// policy, not by the reconstructor.
	MaxBufferSize int `yaml:"max_buffer_size"`

	// MaxBufferedMessages is the ceiling on records queued for delivery
	// before backpressure applies.
	MaxBufferedMessages int `yaml:"max_buffered_messages"`

	// JSONParseTimeoutMs is a soft threshold on a single parse attempt.
	// Exceeding it produces a warning, never an abort.
	JSONParseTimeoutMs int64 `yaml:"json_parse_timeout_ms"`

	// MaxLogPreviewChars is the truncation length for previews of
	// oversized text in logs and error payloads.
	MaxLogPreviewChars int `yaml:"max_log_preview_chars"`
}

// DefaultLimits returns limits suitable for most environments:
// 10MB lines, 5MB text blocks, 50MB buffered, 100 messages, 5s parse
// warning, 200-char previews.
func DefaultLimits() Limits {
	return Limits{
		MaxLineSize:         10 * 1024 * 1024,
		MaxTextBlockSize:    5 * 1024 * 1024,
		MaxBufferSize:       50 * 1024 * 1024,
		MaxBufferedMessages: 100,
		JSONParseTimeoutMs:  5000,
		MaxLogPreviewChars:  200,
	}
}

// ConservativeLimits returns limits for memory-constrained environments.
func ConservativeLimits() Limits {
	return Limits{
		MaxLineSize:         1024 * 1024,
		MaxTextBlockSize:    512 * 1024,
		MaxBufferSize:       10 * 1024 * 1024,
		MaxBufferedMessages: 50,
		JSONParseTimeoutMs:  2000,
		MaxLogPreviewChars:  100,
	}
}

// GenerousLimits returns limits for high-memory environments.
func GenerousLimits() Limits {
	return Limits{
		MaxLineSize:         50 * 1024 * 1024,
		MaxTextBlockSize:    25 * 1024 * 1024,
		MaxBufferSize:       200 * 1024 * 1024,
		MaxBufferedMessages: 200,
		JSONParseTimeoutMs:  10000,
		MaxLogPreviewChars:  500,
	}
}

// LineSizeOK reports whether a line of n bytes is within MaxLineSize.
func (l Limits) LineSizeOK(n int) bool {
	return n <= l.MaxLineSize
}

// TextBlockOK reports whether a text payload of n bytes is within
// MaxTextBlockSize.
func (l Limits) TextBlockOK(n int) bool {
	return n <= l.MaxTextBlockSize
}

// Preview returns text truncated for logging. Text at or under
// MaxLogPreviewChars bytes passes through unchanged; anything longer is cut
// to MaxLogPreviewChars runes and suffixed with the original byte length so
// logs stay self-describing. The byte gate with a rune cut means multi-byte
// text can be kept whole in the prefix, never split mid-rune.
func (l Limits) Preview(text string) string {
	if len(text) <= l.MaxLogPreviewChars {
		return text
	}
	prefix := text
	if runes := []rune(text); len(runes) > l.MaxLogPreviewChars {
		prefix = string(runes[:l.MaxLogPreviewChars])
	}
	return fmt.Sprintf("%s... (%d total chars)", prefix, len(text))
}
