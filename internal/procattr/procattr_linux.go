//go:build linux

// Package procattr configures spawned CLI processes so they cannot outlive
// the client that launched them.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set puts the child in its own process group and, on Linux, arranges for
// the kernel to SIGTERM it if this process dies without cleaning up. The
// CLI forks node workers of its own; the group is what lets Stop reach
// them all.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGTERM,
	}
}
