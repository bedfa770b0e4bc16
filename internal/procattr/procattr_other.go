//go:build !linux

// Package procattr configures spawned CLI processes so they cannot outlive
// the client that launched them.
package procattr

import (
	"os/exec"
	"syscall"
)

// Set puts the child in its own process group so group signals reach the
// CLI and any workers it forks. Pdeathsig has no equivalent off Linux, so
// an abrupt parent death can still orphan the child here.
func Set(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
