package protocol

// ContentBlock is one element of an assistant message's content array.
type ContentBlock interface {
	blockType() string
}

// TextBlock is plain assistant text.
type TextBlock struct {
	Text string
}

func (TextBlock) blockType() string { return "text" }

// ToolUseBlock is the assistant invoking a tool.
type ToolUseBlock struct {
	ID    string
	Name  string
	Input map[string]any
}

func (ToolUseBlock) blockType() string { return "tool_use" }

// ToolResultBlock carries a tool's output back into the conversation.
// Content is either a string or a []any of structured parts, matching the
// two shapes the CLI emits; nil when absent.
type ToolResultBlock struct {
	ToolUseID string
	Content   any
	IsError   *bool
}

func (ToolResultBlock) blockType() string { return "tool_result" }
