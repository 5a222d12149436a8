package platform

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// lookPathEnv resolves file the way exec.LookPath does, except against the
// PATH carried in env rather than the calling process's own environment:
// the payload command must be found using the container's configured
// process.env, not the launcher's own inherited PATH.
func lookPathEnv(file string, env []string) (string, error) {
	if strings.Contains(file, "/") {
		if err := findExecutable(file); err != nil {
			return "", err
		}
		return file, nil
	}

	for _, dir := range filepath.SplitList(envValue(env, "PATH")) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.Errorf("%q: executable file not found in PATH", file)
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// envValue looks up key in env, falling back to the calling process's own
// environment if env does not carry it, matching spec.md §4.8 Phase C step
// 6: "adopts the PATH from process.env if present".
func envValue(env []string, key string) string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return os.Getenv(key)
}

// ForkExec forks and execs path with argv/env in the child, returning its
// pid without waiting. Callers that need to reap alongside other children
// use platform.Wait afterward, rather than blocking here. Command lookup
// honors the PATH carried in env, not the calling process's own PATH, so a
// container-configured PATH in process.env resolves args[0] correctly.
func ForkExec(path string, argv []string, env []string) (int, error) {
	bin, err := lookPathEnv(path, env)
	if err != nil {
		return 0, errors.Wrapf(err, "resolving %q in PATH", path)
	}

	pid, err := syscall.ForkExec(bin, argv, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{0, 1, 2},
	})
	if err != nil {
		return 0, errors.Wrapf(err, "fork/exec %q", bin)
	}
	return pid, nil
}

// DropPermissions clears supplementary groups and restores the effective
// UID to the real UID, matching the teacher's ContainerPrivate::
// DropPermissions: it only clears groups when currently running as euid 0,
// and always reasserts seteuid(getuid()) afterward.
func DropPermissions() error {
	olduid := unix.Geteuid()
	newuid := unix.Getuid()
	newgid := unix.Getgid()

	if olduid == 0 {
		if err := unix.Setgroups([]int{newgid}); err != nil {
			return errors.Wrap(err, "setgroups")
		}
	}
	if err := unix.Seteuid(newuid); err != nil {
		return errors.Wrap(err, "seteuid")
	}
	return nil
}

// SetParentDeathSignal asks the kernel to send sig to the calling thread
// when its parent dies, the sole teardown mechanism spec.md relies on
// instead of cooperative cancellation (PR_SET_PDEATHSIG).
func SetParentDeathSignal(sig unix.Signal) error {
	return unix.Prctl(unix.PR_SET_PDEATHSIG, uintptr(sig), 0, 0, 0)
}

// ForkExecWait forks, execs path with argv/env in the child, and blocks in
// the parent until the child exits, returning its wait status. Unlike
// Clone, this does not enter new namespaces — it shares the caller's,
// matching spec.md §4.7's requirement that hooks run inside the
// already-entered namespaces of the calling process. It uses
// syscall.ForkExec directly rather than os/exec.Cmd.Run so hook execution
// shares the same low-level fork/exec/wait vocabulary as Clone and Exec.
func ForkExecWait(path string, argv []string, env []string) (syscall.WaitStatus, error) {
	var ws syscall.WaitStatus

	bin, err := exec.LookPath(path)
	if err != nil {
		return ws, errors.Wrapf(err, "resolving %q in PATH", path)
	}

	pid, err := syscall.ForkExec(bin, argv, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{0, 1, 2},
	})
	if err != nil {
		return ws, errors.Wrapf(err, "fork/exec %q", bin)
	}

	for {
		got, err := syscall.Wait4(pid, &ws, 0, nil)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			return ws, errors.Wrapf(err, "waiting for pid %d", pid)
		}
		if got == pid {
			return ws, nil
		}
	}
}
