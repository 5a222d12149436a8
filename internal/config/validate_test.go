package config

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func validRuntime() Runtime {
	return Runtime{
		Root: Root{Path: "/tmp/staging"},
		Process: Process{
			Cwd:  "/",
			Args: []string{"/bin/true"},
		},
		Annotations: Annotations{
			ContainerRootPath: "/run/ll-box/root",
			Native:            &AnnotationsNative{},
		},
	}
}

func TestValidateAcceptsMinimalNativeConfig(t *testing.T) {
	r := validRuntime()
	assert.NilError(t, r.Validate())
}

func TestValidateRejectsNeitherNativeNorOverlayfs(t *testing.T) {
	r := validRuntime()
	r.Annotations.Native = nil

	err := r.Validate()
	assert.ErrorContains(t, err, "exactly one of native or overlayfs")
}

func TestValidateRejectsBothNativeAndOverlayfs(t *testing.T) {
	r := validRuntime()
	r.Annotations.Overlayfs = &AnnotationsOverlayfs{
		LowerParent: "/a", Upper: "/b", WorkDir: "/c",
	}

	err := r.Validate()
	assert.ErrorContains(t, err, "exactly one of native or overlayfs")
}

func TestValidateRejectsUnknownNamespace(t *testing.T) {
	r := validRuntime()
	r.Linux.Namespaces = []NamespaceKind{"bogus"}

	err := r.Validate()
	assert.ErrorContains(t, err, `unknown namespace kind "bogus"`)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	r := Runtime{}

	err := r.Validate()
	assert.Assert(t, err != nil)
	var cfgErr *ConfigError
	assert.Assert(t, errorsAs(err, &cfgErr))
	assert.Assert(t, len(cfgErr.Violations) >= 3, "expected multiple violations, got %v", cfgErr.Violations)
	assert.Assert(t, strings.Contains(err.Error(), "violations"))
}

func errorsAs(err error, target **ConfigError) bool {
	if e, ok := err.(*ConfigError); ok {
		*target = e
		return true
	}
	return false
}
