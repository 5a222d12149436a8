package driver

import (
	"strings"

	"github.com/linglong/ll-box/internal/config"
	"golang.org/x/sys/unix"
)

// toUnixFlags translates the configuration's portable MountFlag bitmask
// into the kernel's MS_* values for unix.Mount.
func toUnixFlags(f config.MountFlag) uintptr {
	var out uintptr
	if f.Has(config.MountFlagRDONLY) {
		out |= unix.MS_RDONLY
	}
	if f.Has(config.MountFlagNOSUID) {
		out |= unix.MS_NOSUID
	}
	if f.Has(config.MountFlagNODEV) {
		out |= unix.MS_NODEV
	}
	if f.Has(config.MountFlagNOEXEC) {
		out |= unix.MS_NOEXEC
	}
	if f.Has(config.MountFlagREC) {
		out |= unix.MS_REC
	}
	if f.Has(config.MountFlagBIND) {
		out |= unix.MS_BIND
	}
	if f.Has(config.MountFlagMOVE) {
		out |= unix.MS_MOVE
	}
	return out
}

// dataString joins a mount-option sequence into the single comma-joined
// string unix.Mount expects as its data argument.
func dataString(data []string) string {
	return strings.Join(data, ",")
}
