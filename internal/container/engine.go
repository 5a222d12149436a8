// Package container implements the three-phase Parent/Entry/Payload
// container engine of spec.md §4.8: Engine.Start (Parent) clones the
// entry process, the entry stage owns the mount namespace and builds the
// rootfs before pivoting into it, and the payload stage runs hooks,
// applies seccomp, and execs the user command.
package container

import (
	"os"
	"time"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/dbusproxy"
	"github.com/linglong/ll-box/internal/idmap"
	"github.com/linglong/ll-box/internal/ipcsem"
	"github.com/linglong/ll-box/internal/platform"
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DbusProxyTimeout bounds how long the parent waits for the proxy socket
// to appear before giving up, per spec.md §4.9.
const DbusProxyTimeout = 5 * time.Second

// Engine drives one container's lifecycle from a fully populated Runtime
// configuration.
type Engine struct {
	Runtime config.Runtime
}

// NewEngine validates rt and returns an Engine ready to Start.
func NewEngine(rt config.Runtime) (*Engine, error) {
	if err := rt.Validate(); err != nil {
		return nil, err
	}
	return &Engine{Runtime: rt}, nil
}

// Start runs the parent phase: it clones the entry process into the
// namespaces the configuration requests, rendezvouses with it across the
// ID-map and D-Bus-proxy setup window via a SysV semaphore, and blocks
// until the entry process (and everything beneath it) has exited.
func (e *Engine) Start(opt Option) error {
	rt := e.Runtime

	var hostUID, hostGID int
	if opt.Rootless {
		hostUID = unix.Geteuid()
		hostGID = unix.Getegid()
	}

	flags, useNewCgroupNS, err := cloneFlags(rt.Linux.Namespaces, opt.Rootless)
	if err != nil {
		return err
	}

	semKey := ipcsem.NewKey()
	sem, err := ipcsem.New(semKey)
	if err != nil {
		return err
	}
	if err := sem.Init(); err != nil {
		return err
	}

	bs := entryBootstrap{
		Runtime:        rt,
		Opt:            opt,
		SemKey:         semKey,
		UseNewCgroupNS: useNewCgroupNS,
		HostUID:        hostUID,
		HostGID:        hostGID,
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "creating entry bootstrap pipe")
	}

	clone, err := platform.Clone([]string{"entry"}, os.Environ(), flags, []*os.File{pr})
	pr.Close()
	if err != nil {
		pw.Close()
		return errors.Wrap(err, "cloning entry process")
	}

	encErr := encodeTo(pw, bs)
	pw.Close()
	if encErr != nil {
		return encErr
	}

	sylog.Debugf("wait entry process %d start", clone.Pid)
	if err := sem.Wait(); err != nil {
		return err
	}

	if opt.Rootless {
		if err := idmap.Write(clone.Pid, rt.Linux.UIDMappings, rt.Linux.GIDMappings); err != nil {
			return err
		}
	}

	if err := dbusproxy.Start(rt.Annotations.DbusProxyInfo, DbusProxyTimeout); err != nil {
		_ = clone.Process.Kill()
		_ = platform.Wait(clone.Pid, platform.WaitForTarget)
		return errors.Wrap(err, "starting dbus proxy")
	}

	if err := sem.Post(); err != nil {
		return err
	}
	sylog.Debugf("wait entry process %d end", clone.Pid)

	if err := platform.DropPermissions(); err != nil {
		sylog.Warningf("drop permissions failed: %s", err)
	}
	if err := platform.SetParentDeathSignal(unix.SIGKILL); err != nil {
		sylog.Warningf("set parent death signal failed: %s", err)
	}

	return platform.Wait(clone.Pid, platform.WaitForTarget)
}
