package container

import (
	"os"

	"github.com/linglong/ll-box/internal/hook"
	"github.com/linglong/ll-box/internal/ipcsem"
	"github.com/linglong/ll-box/internal/platform"
	"github.com/linglong/ll-box/internal/reexec"
	"github.com/linglong/ll-box/internal/seccomp"
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func init() {
	reexec.Register("payload", payloadMain)
}

func payloadMain() {
	var bs payloadBootstrap
	if err := decodeFrom(os.NewFile(3, "bootstrap"), &bs); err != nil {
		sylog.Fatalf("payload: %s", err)
	}
	if err := payloadRun(&bs); err != nil {
		sylog.Fatalf("payload: %s", err)
	}
}

// payloadRun implements NonePrivilegeProc: remount /proc if a fresh PID
// namespace was requested, enter a private rootless user namespace,
// run prestart hooks, apply seccomp when privileged, then fork/exec the
// user command and reap everything beneath this process.
func payloadRun(bs *payloadBootstrap) error {
	rt := bs.Runtime

	if bs.ClonePID {
		if err := unix.Mount("proc", "/proc", "proc", 0, ""); err != nil {
			return errors.Wrap(err, "mounting /proc")
		}
	}

	if bs.Opt.Rootless {
		if err := unix.Unshare(unix.CLONE_NEWUSER); err != nil {
			sylog.Errorf("unshare user namespace failed: %s", err)
		}

		sem, err := ipcsem.New(bs.SemKey)
		if err != nil {
			return err
		}
		if err := sem.Post(); err != nil {
			return err
		}
		if err := sem.Wait(); err != nil {
			return err
		}
	}

	if err := hook.Run(rt.Hooks.Prestart); err != nil {
		sylog.Errorf("prestart hooks failed: %s", err)
	}

	if !bs.Opt.Rootless {
		if err := unix.Seteuid(0); err != nil {
			sylog.Warningf("seteuid(0) failed: %s", err)
		}
		if rt.Linux.Seccomp != nil {
			if err := seccomp.Load(rt.Linux.Seccomp, true); err != nil {
				sylog.Errorf("seccomp load failed: %s", err)
			}
		}
		if err := platform.DropPermissions(); err != nil {
			sylog.Warningf("drop permissions failed: %s", err)
		}
	}

	if err := platform.SetParentDeathSignal(unix.SIGKILL); err != nil {
		sylog.Warningf("set parent death signal failed: %s", err)
	}

	if rt.Process.Cwd != "" {
		if err := unix.Chdir(rt.Process.Cwd); err != nil {
			return errors.Wrapf(err, "chdir %q", rt.Process.Cwd)
		}
	}

	pid, err := platform.ForkExec(rt.Process.Args[0], rt.Process.Args, rt.Process.Env)
	if err != nil {
		return errors.Wrap(err, "starting payload command")
	}
	sylog.Debugf("payload command started, pid=%d", pid)

	return platform.Wait(0, platform.DrainAll)
}
