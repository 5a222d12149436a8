package platform

import (
	"fmt"

	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// WaitMode selects one of the two reaping strategies of spec.md §4.1.
type WaitMode int

const (
	// WaitForTarget reaps children until targetPID is reaped, then
	// returns its disposition.
	WaitForTarget WaitMode = iota
	// DrainAll reaps every child until the process has none left
	// (ECHILD), never stopping early at a particular PID.
	DrainAll
)

// ParseWstatus reports whether a wait status represents a normal exit
// (WIFEXITED && WEXITSTATUS == 0) and a human-readable description of it.
func ParseWstatus(ws unix.WaitStatus) (normal bool, human string) {
	switch {
	case ws.Exited():
		code := ws.ExitStatus()
		return code == 0, fmt.Sprintf("exited with status %d", code)
	case ws.Signaled():
		return false, fmt.Sprintf("killed by signal %s", ws.Signal())
	case ws.Stopped():
		return false, fmt.Sprintf("stopped by signal %s", ws.StopSignal())
	default:
		return false, fmt.Sprintf("wait status 0x%x", uint32(ws))
	}
}

// Wait reaps children of the calling process. In WaitForTarget mode it
// reaps (and logs) every intermediate child until targetPID is reaped,
// then returns nil iff targetPID exited with status 0, or an error
// describing its abnormal exit otherwise. In DrainAll mode it reaps every
// child, including targetPID if given, until none remain (ECHILD),
// logging each one, and never returns an error for an individual child's
// abnormal exit (there is no longer a single process whose disposition the
// caller cares about).
func Wait(targetPID int, mode WaitMode) error {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, 0, nil)
		if err != nil {
			if errors.Is(err, unix.ECHILD) {
				if mode == WaitForTarget {
					return errors.Errorf("target process %d was not reaped", targetPID)
				}
				return nil
			}
			return errors.Wrap(err, "wait4")
		}

		normal, human := ParseWstatus(ws)

		if pid == targetPID {
			if normal {
				sylog.Infof("target process %d %s", pid, human)
			} else {
				sylog.Warningf("target process %d %s", pid, human)
			}
			if mode == WaitForTarget {
				if !normal {
					return errors.Errorf("target process %d %s", pid, human)
				}
				return nil
			}
			continue
		}

		if normal {
			sylog.Infof("reaped child %d %s", pid, human)
		} else {
			sylog.Warningf("reaped child %d %s", pid, human)
		}
	}
}
