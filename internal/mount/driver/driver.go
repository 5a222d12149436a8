// Package driver implements the three interchangeable filesystem drivers
// of spec.md §4.3: native, overlayfs-FUSE, and FUSE-proxy. Each translates
// a config.MountNode into concrete syscalls (or external helper
// invocations) against a staging root.
package driver

import (
	"fmt"

	"github.com/linglong/ll-box/internal/config"
)

// Driver maps MountNodes to kernel effects against a staging root.
type Driver interface {
	// Setup prepares the driver to receive MountNode calls (e.g.
	// starting the fuse-proxy helper, or, for overlayfs, mounting every
	// lower node and then the overlay itself at the staging root).
	Setup() error
	// MountNode applies one mount-node operation. The destination is
	// created first if it does not exist.
	MountNode(node config.MountNode) error
	// CreateDestination ensures path exists, as a directory unless isFile.
	CreateDestination(path string, isFile bool) error
}

// NodeError wraps a MountNode that failed to mount, letting HostMount
// decide whether to continue the sequence (always, per spec.md §4.3 —
// node failures are logged and the pipeline continues) without
// re-parsing an error string.
type NodeError struct {
	Node  config.MountNode
	Cause error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("mount node %s -> %s: %s", e.Node.Source, e.Node.Destination, e.Cause)
}

func (e *NodeError) Unwrap() error { return e.Cause }
