package container

import (
	"path/filepath"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/mount"
	"github.com/linglong/ll-box/internal/sylog"
	"golang.org/x/sys/unix"
)

type defaultDevice struct {
	path        string
	mode        uint32
	major       uint32
	minor       uint32
}

// defaultDevices is the fixed device node list spec.md §4.8 names,
// unchanged from the original implementation's list.
var defaultDevices = []defaultDevice{
	{"/dev/null", unix.S_IFCHR | 0o666, 1, 3},
	{"/dev/zero", unix.S_IFCHR | 0o666, 1, 5},
	{"/dev/full", unix.S_IFCHR | 0o666, 1, 7},
	{"/dev/random", unix.S_IFCHR | 0o666, 1, 8},
	{"/dev/urandom", unix.S_IFCHR | 0o666, 1, 9},
	{"/dev/tty", unix.S_IFCHR | 0o666, 5, 0},
}

// prepareDefaultDevices creates the standard /dev nodes, matching
// ContainerPrivate::PrepareDefaultDevices: mknod directly under hostRoot
// when privileged, or a bind mount of the host's own node when rootless
// (an unprivileged process cannot mknod a character device). The
// /dev/pts/ptmx symlink is created either way.
func prepareDefaultDevices(hostRoot string, rootless bool, hm *mount.HostMount) error {
	if !rootless {
		for _, d := range defaultDevices {
			full := filepath.Join(hostRoot, d.path)
			dev := unix.Mkdev(d.major, d.minor)
			if err := unix.Mknod(full, d.mode, int(dev)); err != nil {
				sylog.Errorf("mknod %s (%o, %d:%d) failed: %s", full, d.mode, d.major, d.minor, err)
			}
			_ = unix.Chmod(full, d.mode&0o7777)
			_ = unix.Chown(full, 0, 0)
		}
	} else {
		for _, d := range defaultDevices {
			node := config.MountNode{
				Source:      d.path,
				Destination: d.path,
				Type:        config.MountBind,
				Flags:       config.MountFlagBIND,
			}
			if err := hm.MountNode(node); err != nil {
				sylog.Errorf("bind-mount device %s failed: %s", d.path, err)
			}
		}
	}

	_ = unix.Symlink("/dev/ptmx", "/dev/pts/ptmx")
	return nil
}
