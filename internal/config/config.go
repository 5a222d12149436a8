// Package config holds the in-memory runtime configuration the container
// engine operates on. Parsing this from an on-disk OCI-like bundle is out
// of scope (spec.md §1); callers hand the engine an already-populated
// Runtime value.
package config

import (
	specs "github.com/opencontainers/runtime-spec/specs-go"
)

// IDMap is the container/host UID or GID mapping triple. It is an alias
// for the OCI runtime-spec type since the two are field-for-field
// identical (ContainerID, HostID, Size).
type IDMap = specs.LinuxIDMapping

// NamespaceKind enumerates the namespace kinds the runtime configuration
// may request. Strings match the OCI runtime-spec namespace type names so
// that a caller building Runtime.Linux.Namespaces from parsed OCI JSON can
// pass the values straight through.
type NamespaceKind string

const (
	NamespaceIPC    NamespaceKind = "ipc"
	NamespaceUTS    NamespaceKind = "uts"
	NamespaceMount  NamespaceKind = "mount"
	NamespacePID    NamespaceKind = "pid"
	NamespaceNet    NamespaceKind = "network"
	NamespaceUser   NamespaceKind = "user"
	NamespaceCgroup NamespaceKind = "cgroup"
)

// knownNamespaces is the complete set NamespaceKind may take.
var knownNamespaces = map[NamespaceKind]bool{
	NamespaceIPC: true, NamespaceUTS: true, NamespaceMount: true,
	NamespacePID: true, NamespaceNet: true, NamespaceUser: true,
	NamespaceCgroup: true,
}

// Process describes the payload command.
type Process struct {
	Cwd  string
	Args []string
	Env  []string
}

// Linux carries the namespace, ID-mapping, resource, cgroup, and seccomp
// configuration of the container.
type Linux struct {
	Namespaces  []NamespaceKind
	UIDMappings []IDMap
	GIDMappings []IDMap
	Resources   *specs.LinuxResources
	CgroupsPath string
	Seccomp     *specs.LinuxSeccomp
}

// Hook is a single prestart hook invocation.
type Hook struct {
	Path string
	Args []string
	Env  []string
}

// Hooks groups the hook lists the runtime configuration may specify.
// Only Prestart is implemented, matching spec.md §3.
type Hooks struct {
	Prestart []Hook
}

// Root is the staging directory that becomes the container's "/".
type Root struct {
	Path string
}

// DbusProxyInfo configures the optional companion D-Bus proxy process.
type DbusProxyInfo struct {
	Enable    bool
	AppID     string
	BusType   string
	ProxyPath string
	Name      []string
	Path      []string
	Interface []string
}

// AnnotationsNative selects the native filesystem driver.
type AnnotationsNative struct {
	Mounts []MountNode
}

// AnnotationsOverlayfs selects the overlayfs (or FUSE-proxy, depending on
// LL_BOX_FS_BACKEND) filesystem driver.
type AnnotationsOverlayfs struct {
	LowerParent string
	Mounts      []MountNode
	Upper       string
	WorkDir     string
}

// Annotations carries the ll-box-specific configuration that has no home
// in the generic OCI runtime-spec schema.
type Annotations struct {
	ContainerRootPath string
	Native            *AnnotationsNative
	Overlayfs         *AnnotationsOverlayfs
	DbusProxyInfo     *DbusProxyInfo
}

// Runtime is the full, immutable-after-Start configuration for one
// container invocation.
type Runtime struct {
	Root        Root
	Hostname    string
	Process     Process
	Mounts      []MountNode
	Linux       Linux
	Hooks       Hooks
	Annotations Annotations
}
