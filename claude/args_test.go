package claude

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCLIArgs_Defaults(t *testing.T) {
	args := buildCLIArgs("hello", defaultOptions())

	assert.Equal(t, []string{
		"--output-format", "stream-json",
		"--verbose",
		"--print", "hello",
	}, args)
}

func TestBuildCLIArgs_AllOptions(t *testing.T) {
	o := defaultOptions()
	o.SystemPrompt = "be brief"
	o.AppendSystemPrompt = "and polite"
	o.AllowedTools = []string{"Read", "Grep"}
	o.MaxTurns = 5
	o.DisallowedTools = []string{"Bash"}
	o.Model = "sonnet"
	o.PermissionPromptTool = "mcp__approver"
	o.PermissionMode = PermissionModeAcceptEdits
	o.ContinueConversation = true
	o.Resume = "sess-42"
	o.SessionID = "sid-1"

	args := buildCLIArgs("do it", o)

	assert.Equal(t, []string{
		"--output-format", "stream-json",
		"--verbose",
		"--system-prompt", "be brief",
		"--append-system-prompt", "and polite",
		"--allowedTools", "Read,Grep",
		"--max-turns", "5",
		"--disallowedTools", "Bash",
		"--model", "sonnet",
		"--permission-prompt-tool", "mcp__approver",
		"--permission-mode", "acceptEdits",
		"--continue",
		"--resume", "sess-42",
		"--session-id", "sid-1",
		"--print", "do it",
	}, args)
}

func TestBuildCLIArgs_PromptAlwaysLast(t *testing.T) {
	o := defaultOptions()
	o.Model = "opus"

	args := buildCLIArgs("the prompt", o)

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "--print", args[len(args)-2])
	assert.Equal(t, "the prompt", args[len(args)-1])
}

func TestBuildCLIArgs_MCPConfig(t *testing.T) {
	o := defaultOptions()
	o.MCPServers = map[string]MCPServerConfig{
		"files": {Transport: []string{"npx", "server-files"}},
	}

	args := buildCLIArgs("p", o)

	idx := -1
	for i, a := range args {
		if a == "--mcp-config" {
			idx = i
		}
	}
	require.NotEqual(t, -1, idx, "--mcp-config flag missing")
	require.Less(t, idx+1, len(args))

	var cfg struct {
		MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	}
	require.NoError(t, json.Unmarshal([]byte(args[idx+1]), &cfg))
	assert.Equal(t, []string{"npx", "server-files"}, cfg.MCPServers["files"].Transport)
}

func TestNewSessionID_Unique(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
