package safety

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParsePreset returns the named preset. Recognized names are "default",
// "conservative" and "generous".
func ParsePreset(name string) (Limits, error) {
	switch name {
	case "default":
		return DefaultLimits(), nil
	case "conservative":
		return ConservativeLimits(), nil
	case "generous":
		return GenerousLimits(), nil
	default:
		return Limits{}, fmt.Errorf("unknown limits preset %q", name)
	}
}

// LoadFile reads limits from a YAML file. Fields absent from the file keep
// their default values, so a file can override just the ceilings it cares
// about.
func LoadFile(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("read limits file: %w", err)
	}

	limits := DefaultLimits()
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, fmt.Errorf("parse limits file %s: %w", path, err)
	}

	if err := limits.validate(); err != nil {
		return Limits{}, fmt.Errorf("limits file %s: %w", path, err)
	}
	return limits, nil
}

// validate rejects non-positive ceilings. Zero would make every line fatal,
// which is never what a config author meant.
func (l Limits) validate() error {
	if l.MaxLineSize <= 0 {
		return fmt.Errorf("max_line_size must be positive, got %d", l.MaxLineSize)
	}
	if l.MaxTextBlockSize <= 0 {
		return fmt.Errorf("max_text_block_size must be positive, got %d", l.MaxTextBlockSize)
	}
	if l.MaxBufferSize <= 0 {
		return fmt.Errorf("max_buffer_size must be positive, got %d", l.MaxBufferSize)
	}
	if l.MaxBufferedMessages <= 0 {
		return fmt.Errorf("max_buffered_messages must be positive, got %d", l.MaxBufferedMessages)
	}
	if l.JSONParseTimeoutMs <= 0 {
		return fmt.Errorf("json_parse_timeout_ms must be positive, got %d", l.JSONParseTimeoutMs)
	}
	if l.MaxLogPreviewChars <= 0 {
		return fmt.Errorf("max_log_preview_chars must be positive, got %d", l.MaxLogPreviewChars)
	}
	return nil
}
