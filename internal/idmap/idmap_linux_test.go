package idmap

import (
	"testing"

	"github.com/linglong/ll-box/internal/config"
	"gotest.tools/v3/assert"
)

func TestFormatMapLines(t *testing.T) {
	maps := []config.IDMap{
		{ContainerID: 0, HostID: 1000, Size: 1},
		{ContainerID: 1, HostID: 100000, Size: 65536},
	}

	got := FormatMapLines(maps)
	assert.Equal(t, got, "0 1000 1\n1 100000 65536\n")
}

func TestFormatMapLinesEmpty(t *testing.T) {
	assert.Equal(t, FormatMapLines(nil), "")
}

func TestProcPathSelf(t *testing.T) {
	assert.Equal(t, procPath(0), "/proc/self")
	assert.Equal(t, procPath(-1), "/proc/self")
	assert.Equal(t, procPath(42), "/proc/42")
}
