// Package dbusproxy launches the optional companion D-Bus filtering
// proxy, per spec.md §4.9. The proxy binary itself is out of scope; this
// package only forks, execs it with its six positional arguments, and
// waits for its socket to appear.
package dbusproxy

import (
	"context"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultProxyBin is the proxy binary path, unchanged from the original
// implementation's ll_dbus_proxy_bin.
const DefaultProxyBin = "/usr/bin/ll-dbus-proxy"

// pollInterval is how often Start checks for the proxy socket to appear.
const pollInterval = 5 * time.Millisecond

// Start forks and execs the D-Bus proxy when info enables it, then blocks
// until info.ProxyPath exists on disk or timeout elapses. A disabled or
// nil info is a no-op, matching StartDbusProxy's "dbus proxy disabled"
// early return.
func Start(info *config.DbusProxyInfo, timeout time.Duration) error {
	if info == nil || !info.Enable {
		sylog.Infof("dbus proxy disabled")
		return nil
	}

	argv := []string{
		DefaultProxyBin,
		info.AppID,
		info.BusType,
		info.ProxyPath,
		strings.Join(info.Name, ","),
		strings.Join(info.Path, ","),
		strings.Join(info.Interface, ","),
	}

	pid, err := syscall.ForkExec(DefaultProxyBin, argv, &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{0, 1, 2},
		Sys:   &syscall.SysProcAttr{Pdeathsig: syscall.SIGKILL},
	})
	if err != nil {
		return errors.Wrap(err, "dbusproxy: fork/exec")
	}
	sylog.Debugf("dbus proxy started, pid=%d", pid)

	return waitForSocket(info.ProxyPath, timeout)
}

// waitForSocket polls for path to exist, bounded by timeout.
func waitForSocket(path string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if exists(path) {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Errorf("dbusproxy: timeout waiting for socket %q", path)
		case <-ticker.C:
		}
	}
}

func exists(path string) bool {
	var st unix.Stat_t
	return unix.Stat(path, &st) == nil
}
