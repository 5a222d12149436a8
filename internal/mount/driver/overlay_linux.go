package driver

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/sylog"
	"github.com/pkg/errors"
)

// Overlay is the overlayfs-FUSE driver of spec.md §4.3. It first bind-
// mounts each of Mounts under a numbered subpath of LowerParent using a
// plain Native driver, collecting the subpaths that succeeded into an
// ordered lowerdir chain (failures are logged and simply omitted — they do
// not abort the sequence), then mounts a single overlay at StagingRoot.
//
// The overlay mount itself goes through the external "mount -t overlay"
// helper rather than a raw unix.Mount("overlay", …) call: overlay option
// strings are long, comma-delimited, and version-sensitive, and the
// teacher's own internal/pkg/util/fs/overlay package reaches for the same
// "mount" binary (via bin.FindBin) for exactly this reason rather than
// hand-assembling the syscall.
type Overlay struct {
	LowerParent string
	Mounts      []config.MountNode
	Upper       string
	WorkDir     string
	StagingRoot string

	assembled *Native
}

func NewOverlay(lowerParent string, mounts []config.MountNode, upper, workdir, stagingRoot string) *Overlay {
	return &Overlay{
		LowerParent: lowerParent,
		Mounts:      mounts,
		Upper:       upper,
		WorkDir:     workdir,
		StagingRoot: stagingRoot,
	}
}

func (o *Overlay) Setup() error {
	lowerMounter := NewNative(o.LowerParent)

	var lowerDirs []string
	for i, m := range o.Mounts {
		prefix := fmt.Sprintf("/%d", i)
		node := m
		node.Destination = filepath.Join(prefix, m.Destination)

		if err := lowerMounter.MountNode(node); err != nil {
			sylog.Errorf("overlay lower node %d (%s) failed, omitting from lowerdir: %s", i, m.Destination, err)
			continue
		}
		lowerDirs = append(lowerDirs, filepath.Join(o.LowerParent, prefix))
	}

	if len(lowerDirs) == 0 {
		return errors.New("overlayfs: no lower directories assembled successfully")
	}

	opts := fmt.Sprintf("lowerdir=%s,upperdir=%s,workdir=%s",
		strings.Join(lowerDirs, ":"), o.Upper, o.WorkDir)

	cmd := exec.Command("mount", "-t", "overlay", "-o", opts, "overlay", o.StagingRoot)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errors.Wrapf(err, "overlay mount at %q failed: %s", o.StagingRoot, out)
	}

	o.assembled = NewNative(o.StagingRoot)
	return nil
}

func (o *Overlay) MountNode(node config.MountNode) error {
	if o.assembled == nil {
		return errors.New("overlay driver: MountNode called before Setup assembled the staging root")
	}
	return o.assembled.MountNode(node)
}

func (o *Overlay) CreateDestination(path string, isFile bool) error {
	if o.assembled == nil {
		return errors.New("overlay driver: CreateDestination called before Setup assembled the staging root")
	}
	return o.assembled.CreateDestination(path, isFile)
}
