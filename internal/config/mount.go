package config

// MountType names the kind of mount-node operation to perform.
type MountType string

const (
	MountBind      MountType = "bind"
	MountProc      MountType = "proc"
	MountTmpfs     MountType = "tmpfs"
	MountSysfs     MountType = "sysfs"
	MountDevpts    MountType = "devpts"
	MountMqueue    MountType = "mqueue"
	MountCgroup2   MountType = "cgroup2"
	MountOverlay   MountType = "overlay"
	MountFuseProxy MountType = "fuse-proxy"
)

// MountFlag is a bitmask of mount(2)-style flags. Bits mirror the kernel's
// MS_* constants by name, not by numeric value assigned here: the native
// driver translates them to unix.MS_* at mount time (see
// internal/mount/driver/flags.go).
type MountFlag uint32

const (
	MountFlagRDONLY MountFlag = 1 << iota
	MountFlagNOSUID
	MountFlagNODEV
	MountFlagNOEXEC
	MountFlagREC
	MountFlagBIND
	MountFlagMOVE
)

// Has reports whether all bits in want are set in f.
func (f MountFlag) Has(want MountFlag) bool { return f&want == want }

// MountNode is one entry of a mount sequence: either part of the runtime
// configuration's top-level Mounts, or of an annotations-scoped driver
// mount list (native.mounts / overlayfs.mounts).
type MountNode struct {
	Source      string
	Destination string
	Type        MountType
	FSType      string
	Flags       MountFlag
	Data        []string
}
