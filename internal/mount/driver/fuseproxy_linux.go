package driver

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/linglong/ll-box/internal/config"
	"github.com/pkg/errors"
)

// DefaultFuseProxyBin is the external FUSE proxy helper invoked when
// LL_BOX_FS_BACKEND=fuse-proxy selects this driver.
const DefaultFuseProxyBin = "ll-fuse-proxy"

// FuseProxy hands the full mount list, as newline-terminated
// "source:destination" records, to an external FUSE proxy process that
// exposes a single FUSE-backed root at StagingRoot (spec.md §4.3). Unlike
// the overlay helper, the proxy is a long-running daemon servicing the
// mountpoint, so Setup starts it and does not wait for it to exit.
type FuseProxy struct {
	Mounts      []config.MountNode
	StagingRoot string
	ProxyBin    string

	assembled *Native
	cmd       *exec.Cmd
}

func NewFuseProxy(mounts []config.MountNode, stagingRoot string) *FuseProxy {
	return &FuseProxy{Mounts: mounts, StagingRoot: stagingRoot}
}

func (f *FuseProxy) records() string {
	var b strings.Builder
	for _, m := range f.Mounts {
		fmt.Fprintf(&b, "%s:%s\n", m.Source, m.Destination)
	}
	return b.String()
}

func (f *FuseProxy) Setup() error {
	bin := f.ProxyBin
	if bin == "" {
		bin = DefaultFuseProxyBin
	}

	cmd := exec.Command(bin, f.StagingRoot)
	cmd.Stdin = strings.NewReader(f.records())
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "starting fuse-proxy %q", bin)
	}

	f.cmd = cmd
	f.assembled = NewNative(f.StagingRoot)
	return nil
}

func (f *FuseProxy) MountNode(node config.MountNode) error {
	if f.assembled == nil {
		return errors.New("fuse-proxy driver: MountNode called before Setup")
	}
	return f.assembled.MountNode(node)
}

func (f *FuseProxy) CreateDestination(path string, isFile bool) error {
	if f.assembled == nil {
		return errors.New("fuse-proxy driver: CreateDestination called before Setup")
	}
	return f.assembled.CreateDestination(path, isFile)
}
