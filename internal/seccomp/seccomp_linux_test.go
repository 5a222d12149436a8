package seccomp

import (
	"testing"

	specs "github.com/opencontainers/runtime-spec/specs-go"
	"gotest.tools/v3/assert"
)

func TestLoadRejectsNilProfile(t *testing.T) {
	err := Load(nil, true)
	assert.ErrorContains(t, err, "nil profile")
}

func TestLoadRejectsMissingDefaultAction(t *testing.T) {
	err := Load(&specs.LinuxSeccomp{}, true)
	assert.ErrorContains(t, err, "defaultAction")
}

func TestConditionsRejectsOutOfRangeIndex(t *testing.T) {
	_, err := conditions([]specs.LinuxSeccompArg{{Index: 6, Op: specs.OpEqualTo}})
	assert.ErrorContains(t, err, "out of range")
}

func TestConditionsRejectsUnknownOperator(t *testing.T) {
	_, err := conditions([]specs.LinuxSeccompArg{{Index: 0, Op: "bogus"}})
	assert.ErrorContains(t, err, "invalid operator")
}
