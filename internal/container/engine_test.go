package container

import (
	"bytes"
	"testing"

	"github.com/linglong/ll-box/internal/config"
	"gotest.tools/v3/assert"
)

func TestCloneFlagsMapsKnownNamespaces(t *testing.T) {
	flags, useNewCgroupNS, err := cloneFlags([]config.NamespaceKind{
		config.NamespaceIPC, config.NamespacePID, config.NamespaceCgroup,
	}, false)
	assert.NilError(t, err)
	assert.Assert(t, useNewCgroupNS)
	assert.Assert(t, flags&0x00020000 != 0) // CLONE_NEWNS always set
}

func TestCloneFlagsRootlessAddsUserNamespace(t *testing.T) {
	flags, _, err := cloneFlags(nil, true)
	assert.NilError(t, err)
	assert.Assert(t, flags&0x10000000 != 0) // CLONE_NEWUSER
}

func TestCloneFlagsRejectsUnknownNamespace(t *testing.T) {
	_, _, err := cloneFlags([]config.NamespaceKind{"bogus"}, false)
	assert.ErrorContains(t, err, "unknown namespace kind")
}

func TestBootstrapRoundTrip(t *testing.T) {
	bs := entryBootstrap{
		Runtime:        config.Runtime{Root: config.Root{Path: "/tmp/x"}},
		Opt:            Option{Rootless: true},
		SemKey:         42,
		UseNewCgroupNS: true,
		HostUID:        1000,
		HostGID:        1000,
	}

	var buf bytes.Buffer
	assert.NilError(t, encodeTo(&buf, bs))

	var got entryBootstrap
	assert.NilError(t, decodeFrom(&buf, &got))
	assert.DeepEqual(t, bs, got)
}

func TestNewEngineRejectsInvalidRuntime(t *testing.T) {
	_, err := NewEngine(config.Runtime{})
	assert.ErrorContains(t, err, "invalid runtime configuration")
}

func TestDefaultDevicesListMatchesOriginalSet(t *testing.T) {
	assert.Equal(t, len(defaultDevices), 6)
	assert.Equal(t, defaultDevices[0].path, "/dev/null")
	assert.Equal(t, defaultDevices[5].path, "/dev/tty")
}
