// Package protocol defines the typed message taxonomy of the CLI's
// stream-json output and the mapping from generic parsed records into it.
package protocol

// MessageType discriminates between message kinds.
type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
	MessageTypeSystem    MessageType = "system"
	MessageTypeResult    MessageType = "result"
)

// Message is the interface for all protocol messages.
type Message interface {
	MsgType() MessageType
}

// UserMessage is a user turn echoed back by the CLI.
type UserMessage struct {
	Content string
}

func (m *UserMessage) MsgType() MessageType { return MessageTypeUser }

// AssistantMessage is a complete assistant turn, made of content blocks.
type AssistantMessage struct {
	Content []ContentBlock
}

func (m *AssistantMessage) MsgType() MessageType { return MessageTypeAssistant }

// SystemMessage carries session lifecycle events (init and friends). Data
// holds the full record: system subtypes vary too much to type fieldwise.
type SystemMessage struct {
	Subtype string
	Data    map[string]any
}

func (m *SystemMessage) MsgType() MessageType { return MessageTypeSystem }

// ResultMessage closes a query with timing, cost and usage metrics.
type ResultMessage struct {
	Subtype       string
	DurationMs    int64
	DurationAPIMs int64
	IsError       bool
	NumTurns      int
	SessionID     string
	TotalCostUSD  *float64
	Usage         map[string]any
	Result        *string
}

func (m *ResultMessage) MsgType() MessageType { return MessageTypeResult }
