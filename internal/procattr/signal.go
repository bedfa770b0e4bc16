package procattr

import (
	"os"
	"syscall"
)

// SignalGroup delivers sig to p's whole process group. The negative PID
// addresses the group rather than the single process, which only works if
// the child was started with Set.
func SignalGroup(p *os.Process, sig syscall.Signal) error {
	if p == nil {
		return nil
	}
	return syscall.Kill(-p.Pid, sig)
}

// KillGroup is SignalGroup with SIGKILL.
func KillGroup(p *os.Process) error {
	return SignalGroup(p, syscall.SIGKILL)
}
