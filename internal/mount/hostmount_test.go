package mount

import (
	"testing"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/mount/driver"
	"gotest.tools/v3/assert"
)

func TestSelectRootfsDriverNative(t *testing.T) {
	t.Setenv(FsBackendEnv, "")
	ann := config.Annotations{Native: &config.AnnotationsNative{}}

	d, clonePID, err := SelectRootfsDriver(ann, "/staging")
	assert.NilError(t, err)
	assert.Assert(t, !clonePID)
	_, ok := d.(*driver.Native)
	assert.Assert(t, ok)
}

func TestSelectRootfsDriverOverlayfsDefaultsToFuseOverlay(t *testing.T) {
	t.Setenv(FsBackendEnv, "")
	ann := config.Annotations{Overlayfs: &config.AnnotationsOverlayfs{
		LowerParent: "/lp", Upper: "/up", WorkDir: "/wd",
	}}

	d, clonePID, err := SelectRootfsDriver(ann, "/staging")
	assert.NilError(t, err)
	assert.Assert(t, clonePID)
	_, ok := d.(*driver.Overlay)
	assert.Assert(t, ok)
}

func TestSelectRootfsDriverOverlayfsFuseProxyOverride(t *testing.T) {
	t.Setenv(FsBackendEnv, "fuse-proxy")
	ann := config.Annotations{Overlayfs: &config.AnnotationsOverlayfs{
		LowerParent: "/lp", Upper: "/up", WorkDir: "/wd",
	}}

	d, clonePID, err := SelectRootfsDriver(ann, "/staging")
	assert.NilError(t, err)
	assert.Assert(t, clonePID)
	_, ok := d.(*driver.FuseProxy)
	assert.Assert(t, ok)
}
