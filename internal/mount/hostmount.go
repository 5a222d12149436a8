// Package mount implements HostMount, the owner of one filesystem driver
// that applies a mount-node sequence to a staging root (spec.md §4.4).
package mount

import (
	"os"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/mount/driver"
)

// FsBackendEnv is the environment variable that steers overlayfs-backed
// configurations to the FUSE-proxy driver instead of overlayfs-FUSE.
const FsBackendEnv = "LL_BOX_FS_BACKEND"

// HostMount owns exactly one driver instance, replacing it wholesale on
// Setup. Drivers are never shared across HostMount instances.
type HostMount struct {
	driver driver.Driver
}

// Setup installs d as the active driver, taking ownership of it, and runs
// its Setup.
func (h *HostMount) Setup(d driver.Driver) error {
	h.driver = d
	return d.Setup()
}

// MountNode delegates to the active driver.
func (h *HostMount) MountNode(node config.MountNode) error {
	return h.driver.MountNode(node)
}

// SelectRootfsDriver implements the selection policy of spec.md §4.4: the
// native driver for annotations.native, overlayfs-FUSE or FUSE-proxy for
// annotations.overlayfs depending on LL_BOX_FS_BACKEND. It also reports
// whether a fresh PID namespace is required, since overlayfs mandates one
// (clone_new_pid = true) so /proc can be remounted safely after
// pivot_root.
func SelectRootfsDriver(ann config.Annotations, stagingRoot string) (d driver.Driver, clonePID bool, err error) {
	if ann.Overlayfs != nil {
		ov := ann.Overlayfs
		if os.Getenv(FsBackendEnv) == "fuse-proxy" {
			return driver.NewFuseProxy(ov.Mounts, stagingRoot), true, nil
		}
		return driver.NewOverlay(ov.LowerParent, ov.Mounts, ov.Upper, ov.WorkDir, stagingRoot), true, nil
	}

	// ann.Native is guaranteed non-nil here: config.Validate() enforces
	// exactly one of Native/Overlayfs is set before the engine clones
	// anything.
	return driver.NewNative(stagingRoot), false, nil
}
