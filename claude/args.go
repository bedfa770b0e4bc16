package claude

import (
	"encoding/json"
	"strconv"
	"strings"
)

// buildCLIArgs translates Options into the CLI's flag vector. The prompt
// goes last via --print; stream-json output with --verbose is what the
// record stream depends on, so those are unconditional.
func buildCLIArgs(prompt string, o Options) []string {
	args := []string{
		"--output-format", "stream-json",
		"--verbose",
	}

	if o.SystemPrompt != "" {
		args = append(args, "--system-prompt", o.SystemPrompt)
	}
	if o.AppendSystemPrompt != "" {
		args = append(args, "--append-system-prompt", o.AppendSystemPrompt)
	}
	if len(o.AllowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(o.AllowedTools, ","))
	}
	if o.MaxTurns > 0 {
		args = append(args, "--max-turns", strconv.Itoa(o.MaxTurns))
	}
	if len(o.DisallowedTools) > 0 {
		args = append(args, "--disallowedTools", strings.Join(o.DisallowedTools, ","))
	}
	if o.Model != "" {
		args = append(args, "--model", o.Model)
	}
	if o.PermissionPromptTool != "" {
		args = append(args, "--permission-prompt-tool", o.PermissionPromptTool)
	}
	if o.PermissionMode != "" {
		args = append(args, "--permission-mode", string(o.PermissionMode))
	}
	if o.ContinueConversation {
		args = append(args, "--continue")
	}
	if o.Resume != "" {
		args = append(args, "--resume", o.Resume)
	}
	if o.SessionID != "" {
		args = append(args, "--session-id", o.SessionID)
	}
	if len(o.MCPServers) > 0 {
		cfg, err := json.Marshal(map[string]any{"mcpServers": o.MCPServers})
		if err == nil {
			args = append(args, "--mcp-config", string(cfg))
		}
	}

	return append(args, "--print", prompt)
}
