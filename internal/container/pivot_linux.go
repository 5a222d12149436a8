package container

import (
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// pivotRoot makes hostRoot the new "/", matching ContainerPrivate::
// PivotRoot's two paths. The rootless-overlayfs path uses a plain
// MS_MOVE + chroot, since pivot_root itself requires hostRoot to not
// already be the root of the mount namespace in the way MS_MOVE produces
// for a FUSE-backed overlay mount; every other configuration uses the
// standard bind-mount + pivot_root + detach-old-root sequence.
func pivotRoot(hostRoot string, rootlessOverlay bool) error {
	if err := unix.Chdir(hostRoot); err != nil {
		return errors.Wrapf(err, "chdir %q", hostRoot)
	}

	if rootlessOverlay {
		if err := unix.Mount(".", "/", "", unix.MS_MOVE, ""); err != nil {
			return errors.Wrap(err, "mount move / failed")
		}
		if err := unix.Chroot("."); err != nil {
			return errors.Wrap(err, "chroot . failed")
		}
		return nil
	}

	if err := unix.Mount(".", ".", "bind", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return errors.Wrap(err, "bind-mount root onto itself failed")
	}

	oldRoot := filepath.Join(hostRoot, "ll-host")
	if err := unix.Mkdir(oldRoot, 0o755); err != nil && !errors.Is(err, unix.EEXIST) {
		return errors.Wrapf(err, "mkdir %q", oldRoot)
	}

	if err := unix.PivotRoot(hostRoot, oldRoot); err != nil {
		return errors.Wrapf(err, "pivot_root %q -> %q", hostRoot, oldRoot)
	}

	if err := unix.Chdir("/"); err != nil {
		return errors.Wrap(err, "chdir /")
	}
	if err := unix.Chroot("."); err != nil {
		return errors.Wrap(err, "chroot . failed")
	}
	if err := unix.Chdir("/"); err != nil {
		return errors.Wrap(err, "chdir /")
	}

	if err := unix.Unmount("/ll-host", unix.MNT_DETACH); err != nil {
		return errors.Wrap(err, "detaching old root")
	}
	return nil
}
