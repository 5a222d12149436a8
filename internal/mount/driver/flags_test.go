package driver

import (
	"testing"

	"github.com/linglong/ll-box/internal/config"
	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
)

func TestToUnixFlagsCombinesBits(t *testing.T) {
	got := toUnixFlags(config.MountFlagBIND | config.MountFlagREC)
	assert.Equal(t, got, uintptr(unix.MS_BIND|unix.MS_REC))
}

func TestToUnixFlagsEmpty(t *testing.T) {
	assert.Equal(t, toUnixFlags(0), uintptr(0))
}

func TestDataStringJoinsOptions(t *testing.T) {
	assert.Equal(t, dataString([]string{"mode=755", "size=64m"}), "mode=755,size=64m")
	assert.Equal(t, dataString(nil), "")
}
