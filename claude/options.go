package claude

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/agentwire/claudesdk/safety"
)

// PermissionMode controls tool execution approval.
type PermissionMode string

const (
	// PermissionModeDefault prompts the user for each dangerous operation.
	PermissionModeDefault PermissionMode = "default"
	// PermissionModeAcceptEdits auto-approves file modifications.
	PermissionModeAcceptEdits PermissionMode = "acceptEdits"
	// PermissionModeBypass auto-approves all tools (use with caution).
	PermissionModeBypass PermissionMode = "bypassPermissions"
)

// MCPServerConfig configures one MCP server passed to the CLI.
type MCPServerConfig struct {
	Transport []string       `json:"transport"`
	Env       map[string]any `json:"env,omitempty"`
}

// Options holds query configuration.
type Options struct {
	// SystemPrompt overrides the default system prompt.
	SystemPrompt string

	// AppendSystemPrompt is appended to the default system prompt.
	AppendSystemPrompt string

	// AllowedTools restricts which tools the CLI may use.
	AllowedTools []string

	// DisallowedTools blocks specific tools.
	DisallowedTools []string

	// MaxTurns limits the number of agent turns (0 = CLI default).
	MaxTurns int

	// Model to use: "haiku", "sonnet", "opus", or a full model name.
	Model string

	// PermissionPromptTool names the MCP tool handling permission prompts.
	PermissionPromptTool string

	// PermissionMode controls tool execution approval.
	PermissionMode PermissionMode

	// ContinueConversation continues the most recent conversation.
	ContinueConversation bool

	// Resume is the session ID to resume instead of starting fresh.
	Resume string

	// SessionID pins the session identifier. See NewSessionID.
	SessionID string

	// MCPServers maps server names to their configuration, passed to the
	// CLI as --mcp-config JSON.
	MCPServers map[string]MCPServerConfig

	// WorkDir is the working directory for the CLI process.
	WorkDir string

	// CLIPath is the path to the CLI binary (discovered if empty).
	CLIPath string

	// Env holds extra environment variables for the CLI process. They are
	// merged into the spawn environment only; the parent process env is
	// never mutated.
	Env map[string]string

	// Limits bound what the output stream can make us buffer.
	Limits safety.Limits

	// Logger receives advisory warnings. Defaults to slog.Default().
	Logger *slog.Logger

	// StderrHandler is an optional handler for CLI stderr output.
	StderrHandler func([]byte)

	trace *tracer
}

// Option is a functional option for configuring a query.
type Option func(*Options)

// WithSystemPrompt sets a custom system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.SystemPrompt = prompt
	}
}

// WithAppendSystemPrompt appends to the default system prompt.
func WithAppendSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.AppendSystemPrompt = prompt
	}
}

// WithAllowedTools restricts the CLI to the named tools.
func WithAllowedTools(tools ...string) Option {
	return func(o *Options) {
		o.AllowedTools = tools
	}
}

// WithDisallowedTools blocks the named tools.
func WithDisallowedTools(tools ...string) Option {
	return func(o *Options) {
		o.DisallowedTools = tools
	}
}

// WithMaxTurns limits the number of agent turns.
func WithMaxTurns(n int) Option {
	return func(o *Options) {
		o.MaxTurns = n
	}
}

// WithModel sets the model to use.
func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithPermissionPromptTool names the MCP tool that handles permission
// prompts.
func WithPermissionPromptTool(name string) Option {
	return func(o *Options) {
		o.PermissionPromptTool = name
	}
}

// WithPermissionMode sets the permission mode.
func WithPermissionMode(mode PermissionMode) Option {
	return func(o *Options) {
		o.PermissionMode = mode
	}
}

// WithContinueConversation continues the most recent conversation.
func WithContinueConversation() Option {
	return func(o *Options) {
		o.ContinueConversation = true
	}
}

// WithResume resumes the given session instead of starting a new one.
func WithResume(sessionID string) Option {
	return func(o *Options) {
		o.Resume = sessionID
	}
}

// WithSessionID pins the session identifier for the query.
func WithSessionID(id string) Option {
	return func(o *Options) {
		o.SessionID = id
	}
}

// WithMCPServers configures MCP servers for custom tools.
func WithMCPServers(servers map[string]MCPServerConfig) Option {
	return func(o *Options) {
		o.MCPServers = servers
	}
}

// WithWorkDir sets the working directory.
func WithWorkDir(dir string) Option {
	return func(o *Options) {
		o.WorkDir = dir
	}
}

// WithCLIPath sets a custom CLI binary path, skipping discovery.
func WithCLIPath(path string) Option {
	return func(o *Options) {
		o.CLIPath = path
	}
}

// WithEnv adds environment variables to the spawned CLI process.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithSafetyLimits replaces the default stream safety limits.
func WithSafetyLimits(limits safety.Limits) Option {
	return func(o *Options) {
		o.Limits = limits
	}
}

// WithLogger sets the logger for advisory warnings.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = log
	}
}

// WithStderrHandler sets a handler for CLI stderr output.
func WithStderrHandler(h func([]byte)) Option {
	return func(o *Options) {
		o.StderrHandler = h
	}
}

// NewSessionID returns a fresh session identifier for WithSessionID.
func NewSessionID() string {
	return uuid.NewString()
}

// defaultOptions returns the default configuration.
func defaultOptions() Options {
	return Options{
		Limits: safety.DefaultLimits(),
		Logger: slog.Default(),
	}
}
