package container

import (
	"os"

	"github.com/linglong/ll-box/internal/cgroupv2"
	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/idmap"
	"github.com/linglong/ll-box/internal/ipcsem"
	"github.com/linglong/ll-box/internal/mount"
	"github.com/linglong/ll-box/internal/platform"
	"github.com/linglong/ll-box/internal/reexec"
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func init() {
	reexec.Register("entry", entryMain)
}

// entryMain is the reexec entry point for the entry stage: decode the
// bootstrap data handed down through fd 3 and run the stage, exiting
// non-zero on failure since there is no longer a caller on the Go side to
// return an error to.
func entryMain() {
	var bs entryBootstrap
	if err := decodeFrom(os.NewFile(3, "bootstrap"), &bs); err != nil {
		sylog.Fatalf("entry: %s", err)
	}
	if err := entryRun(&bs); err != nil {
		sylog.Fatalf("entry: %s", err)
	}
}

// entryRun implements ContainerPrivate's EntryProc body: mount namespace
// ownership, rootfs assembly, cgroup/device/pivot_root setup, then clone
// of the payload process.
func entryRun(bs *entryBootstrap) error {
	rt := bs.Runtime

	sem, err := ipcsem.New(bs.SemKey)
	if err != nil {
		return err
	}

	if bs.Opt.Rootless {
		if err := sem.Post(); err != nil {
			return err
		}
		if err := sem.Wait(); err != nil {
			return err
		}
	}

	if err := unix.Mount("", "/", "", unix.MS_REC|unix.MS_SLAVE, ""); err != nil {
		return errors.Wrap(err, "making / a slave mount")
	}

	containerRoot := rt.Annotations.ContainerRootPath
	if err := unix.Mount("tmpfs", containerRoot, "tmpfs", unix.MS_NODEV|unix.MS_NOSUID, ""); err != nil {
		return errors.Wrapf(err, "mounting container root %q", containerRoot)
	}

	hm := &mount.HostMount{}
	rootfsDriver, clonePID, err := mount.SelectRootfsDriver(rt.Annotations, rt.Root.Path)
	if err != nil {
		return err
	}
	if err := hm.Setup(rootfsDriver); err != nil {
		return errors.Wrap(err, "setting up rootfs driver")
	}

	if rt.Annotations.Native != nil {
		for _, m := range rt.Annotations.Native.Mounts {
			if err := hm.MountNode(m); err != nil {
				sylog.Errorf("native rootfs mount %s -> %s failed: %s", m.Source, m.Destination, err)
			}
		}
	}

	for _, m := range rt.Mounts {
		if err := hm.MountNode(m); err != nil {
			sylog.Errorf("container mount %s -> %s failed: %s", m.Source, m.Destination, err)
		}
	}

	if bs.UseNewCgroupNS {
		if err := cgroupv2.Configure(rt.Linux.CgroupsPath, rt.Linux.Resources, os.Getpid()); err != nil {
			sylog.Errorf("cgroup configuration failed: %s", err)
		}
	}

	if err := prepareDefaultDevices(rt.Root.Path, bs.Opt.Rootless, hm); err != nil {
		sylog.Errorf("prepare default devices failed: %s", err)
	}

	rootlessOverlay := bs.Opt.Rootless && rt.Annotations.Overlayfs != nil
	if err := pivotRoot(rt.Root.Path, rootlessOverlay); err != nil {
		return err
	}

	prepareLinks(bs.Opt.LinkLFS)

	if !bs.Opt.Rootless && bs.UseNewCgroupNS {
		if err := unix.Unshare(unix.CLONE_NEWCGROUP); err != nil {
			sylog.Errorf("unshare cgroup namespace failed: %s", err)
		}
	}

	payloadSemKey := ipcsem.NewKey()
	payloadSem, err := ipcsem.New(payloadSemKey)
	if err != nil {
		return err
	}
	if err := payloadSem.Init(); err != nil {
		return err
	}

	payloadFlags := uintptr(unix.CLONE_NEWNS)
	if clonePID {
		payloadFlags |= unix.CLONE_NEWPID
	}

	pbs := payloadBootstrap{
		Runtime:  rt,
		Opt:      bs.Opt,
		SemKey:   payloadSemKey,
		ClonePID: clonePID,
		HostUID:  bs.HostUID,
		HostGID:  bs.HostGID,
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return errors.Wrap(err, "creating payload bootstrap pipe")
	}

	payload, err := platform.Clone([]string{"payload"}, os.Environ(), payloadFlags, []*os.File{pr})
	pr.Close()
	if err != nil {
		pw.Close()
		return errors.Wrap(err, "cloning payload process")
	}

	encErr := encodeTo(pw, pbs)
	pw.Close()
	if encErr != nil {
		return encErr
	}

	if bs.Opt.Rootless {
		if err := payloadSem.Wait(); err != nil {
			return err
		}
		uidMaps := []config.IDMap{{ContainerID: bs.HostUID, HostID: 0, Size: 1}}
		gidMaps := []config.IDMap{{ContainerID: bs.HostGID, HostID: 0, Size: 1}}
		if err := idmap.Write(payload.Pid, uidMaps, gidMaps); err != nil {
			return err
		}
		if err := payloadSem.Post(); err != nil {
			return err
		}
	}

	if err := platform.DropPermissions(); err != nil {
		sylog.Warningf("drop permissions failed: %s", err)
	}
	if err := platform.SetParentDeathSignal(unix.SIGKILL); err != nil {
		sylog.Warningf("set parent death signal failed: %s", err)
	}

	if clonePID {
		return platform.Wait(payload.Pid, platform.WaitForTarget)
	}
	return platform.Wait(0, platform.DrainAll)
}
