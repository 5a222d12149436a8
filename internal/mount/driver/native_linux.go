package driver

import (
	"os"

	"github.com/linglong/ll-box/internal/config"
	"github.com/linglong/ll-box/internal/sylog"
	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Native performs a direct mount(source, dest, type, flags, data) for each
// node, creating the destination under root if absent. It is used both as
// the top-level "annotations.native" driver and as a helper: the overlayfs
// driver uses it to assemble its lower directory layout, and both the
// overlayfs and fuse-proxy drivers use it for the mounts applied at the
// staging root after Setup (spec.md §4.3).
type Native struct {
	Root string
}

func NewNative(root string) *Native {
	return &Native{Root: root}
}

func (n *Native) Setup() error { return nil }

// resolve confines dest under Root even if it contains ".." segments,
// hardening the staging root against a crafted mount destination (the
// original C++ joined paths with plain string concatenation).
func (n *Native) resolve(dest string) (string, error) {
	full, err := securejoin.SecureJoin(n.Root, dest)
	if err != nil {
		return "", errors.Wrapf(err, "resolving destination %q under %q", dest, n.Root)
	}
	return full, nil
}

func (n *Native) CreateDestination(dest string, isFile bool) error {
	full, err := n.resolve(dest)
	if err != nil {
		return err
	}

	if _, err := os.Lstat(full); err == nil {
		return nil
	}

	if isFile {
		if err := os.MkdirAll(parentDir(full), 0o755); err != nil {
			return errors.Wrapf(err, "creating parent of %q", full)
		}
		f, err := os.OpenFile(full, os.O_CREATE, 0o644)
		if err != nil {
			return errors.Wrapf(err, "creating bind-target file %q", full)
		}
		return f.Close()
	}

	if err := os.MkdirAll(full, 0o755); err != nil {
		return errors.Wrapf(err, "creating destination directory %q", full)
	}
	return nil
}

func parentDir(path string) string {
	idx := len(path) - 1
	for idx > 0 && path[idx] != '/' {
		idx--
	}
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

func (n *Native) MountNode(node config.MountNode) error {
	full, err := n.resolve(node.Destination)
	if err != nil {
		return &NodeError{Node: node, Cause: err}
	}

	isFile := node.Type == config.MountBind && isRegularSource(node.Source)
	if err := n.CreateDestination(node.Destination, isFile); err != nil {
		return &NodeError{Node: node, Cause: err}
	}

	fstype := string(node.Type)
	if node.FSType != "" {
		fstype = node.FSType
	}

	err = unix.Mount(node.Source, full, fstype, toUnixFlags(node.Flags), dataString(node.Data))
	if err != nil {
		sylog.Errorf("mount %s -> %s (%s) failed: %s", node.Source, full, fstype, err)
		return &NodeError{Node: node, Cause: errors.Wrapf(err, "mount %q -> %q", node.Source, full)}
	}
	return nil
}

func isRegularSource(source string) bool {
	if source == "" {
		return false
	}
	fi, err := os.Stat(source)
	return err == nil && fi.Mode().IsRegular()
}
