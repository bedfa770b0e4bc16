package protocol

import (
	"github.com/agentwire/claudesdk/streamjson"
)

// FromRecord maps a generic parsed record onto a typed Message. The second
// return is false when the record is not a message we model: unknown
// top-level types, or a known type missing a mandatory field. Callers skip
// those records; the CLI emits event kinds this library does not track, and
// skipping is how new kinds stay non-breaking.
func FromRecord(rec streamjson.Record) (Message, bool) {
	typ, ok := rec["type"].(string)
	if !ok {
		return nil, false
	}

	switch MessageType(typ) {
	case MessageTypeUser:
		return userFromRecord(rec)
	case MessageTypeAssistant:
		return assistantFromRecord(rec)
	case MessageTypeSystem:
		return systemFromRecord(rec)
	case MessageTypeResult:
		return resultFromRecord(rec)
	default:
		return nil, false
	}
}

func userFromRecord(rec streamjson.Record) (Message, bool) {
	inner, ok := rec["message"].(map[string]any)
	if !ok {
		return nil, false
	}
	content, ok := inner["content"].(string)
	if !ok {
		return nil, false
	}
	return &UserMessage{Content: content}, true
}

func assistantFromRecord(rec streamjson.Record) (Message, bool) {
	inner, ok := rec["message"].(map[string]any)
	if !ok {
		return nil, false
	}
	raw, ok := inner["content"].([]any)
	if !ok {
		return nil, false
	}

	blocks := make([]ContentBlock, 0, len(raw))
	for _, item := range raw {
		block, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		typ, ok := block["type"].(string)
		if !ok {
			return nil, false
		}

		switch typ {
		case "text":
			text, ok := block["text"].(string)
			if !ok {
				return nil, false
			}
			blocks = append(blocks, TextBlock{Text: text})

		case "tool_use":
			id, ok := block["id"].(string)
			if !ok {
				return nil, false
			}
			name, ok := block["name"].(string)
			if !ok {
				return nil, false
			}
			input, ok := block["input"].(map[string]any)
			if !ok {
				return nil, false
			}
			blocks = append(blocks, ToolUseBlock{ID: id, Name: name, Input: input})

		case "tool_result":
			toolUseID, ok := block["tool_use_id"].(string)
			if !ok {
				return nil, false
			}
			blocks = append(blocks, ToolResultBlock{
				ToolUseID: toolUseID,
				Content:   toolResultContent(block["content"]),
				IsError:   optBool(block["is_error"]),
			})

		default:
			// Unknown block kinds are skipped, not fatal.
			continue
		}
	}

	return &AssistantMessage{Content: blocks}, true
}

// toolResultContent keeps the two shapes the CLI emits (plain string, array
// of structured parts) and drops anything else.
func toolResultContent(v any) any {
	switch c := v.(type) {
	case string:
		return c
	case []any:
		return c
	default:
		return nil
	}
}

func systemFromRecord(rec streamjson.Record) (Message, bool) {
	subtype, ok := rec["subtype"].(string)
	if !ok {
		return nil, false
	}
	return &SystemMessage{Subtype: subtype, Data: rec}, true
}

func resultFromRecord(rec streamjson.Record) (Message, bool) {
	subtype, ok := rec["subtype"].(string)
	if !ok {
		return nil, false
	}
	durationMs, ok := asInt64(rec["duration_ms"])
	if !ok {
		return nil, false
	}
	durationAPIMs, ok := asInt64(rec["duration_api_ms"])
	if !ok {
		return nil, false
	}
	isError, ok := rec["is_error"].(bool)
	if !ok {
		return nil, false
	}
	numTurns, ok := asInt64(rec["num_turns"])
	if !ok {
		return nil, false
	}
	sessionID, ok := rec["session_id"].(string)
	if !ok {
		return nil, false
	}

	msg := &ResultMessage{
		Subtype:       subtype,
		DurationMs:    durationMs,
		DurationAPIMs: durationAPIMs,
		IsError:       isError,
		NumTurns:      int(numTurns),
		SessionID:     sessionID,
	}

	if cost, ok := rec["total_cost_usd"].(float64); ok {
		msg.TotalCostUSD = &cost
	}
	if usage, ok := rec["usage"].(map[string]any); ok {
		msg.Usage = usage
	}
	if result, ok := rec["result"].(string); ok {
		msg.Result = &result
	}
	return msg, true
}

// asInt64 accepts the numeric shapes a record can carry. encoding/json
// decodes into float64, but hand-built records in tests use int.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

func optBool(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}
