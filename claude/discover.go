package claude

import (
	"os"
	"os/exec"
	"path/filepath"
)

const (
	nodeMissingMsg = "Claude Code requires Node.js, which is not installed.\n\n" +
		"Install Node.js from: https://nodejs.org/\n\n" +
		"After installing Node.js, install Claude Code:\n" +
		"npm install -g @anthropic-ai/claude-code"

	claudeMissingMsg = "Claude Code not found. Install with:\n" +
		"npm install -g @anthropic-ai/claude-code\n\n" +
		"If already installed locally, try:\n" +
		"export PATH=\"$HOME/node_modules/.bin:$PATH\"\n\n" +
		"Or specify the path with WithCLIPath"
)

// FindCLI locates the claude binary: PATH first, then the usual install
// locations. The error distinguishes a missing Node.js runtime from a
// missing CLI, since the fix differs.
func FindCLI() (string, error) {
	if path, err := exec.LookPath("claude"); err == nil {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "/"
	}

	locations := []string{
		filepath.Join(home, ".npm-global", "bin", "claude"),
		"/usr/local/bin/claude",
		filepath.Join(home, ".local", "bin", "claude"),
		filepath.Join(home, "node_modules", ".bin", "claude"),
		filepath.Join(home, ".yarn", "bin", "claude"),
	}
	for _, path := range locations {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}

	if _, err := exec.LookPath("node"); err != nil {
		return "", &CLINotFoundError{Message: nodeMissingMsg}
	}
	return "", &CLINotFoundError{Message: claudeMissingMsg}
}
