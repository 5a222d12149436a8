package platform

import (
	"testing"

	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
)

func TestForkExecRejectsMissingBinary(t *testing.T) {
	_, err := ForkExec("ll-box-nonexistent-binary", nil, nil)
	assert.ErrorContains(t, err, "resolving")
}

func TestForkExecWaitRejectsMissingBinary(t *testing.T) {
	_, err := ForkExecWait("ll-box-nonexistent-binary", nil, nil)
	assert.ErrorContains(t, err, "resolving")
}

func TestSetParentDeathSignalSucceeds(t *testing.T) {
	assert.NilError(t, SetParentDeathSignal(unix.SIGKILL))
}

func TestForkExecUsesPathFromEnv(t *testing.T) {
	_, err := ForkExec("ll-box-nonexistent-binary", nil, []string{"PATH=/does/not/exist"})
	assert.ErrorContains(t, err, "resolving")
	assert.ErrorContains(t, err, "not found in PATH")
}

func TestLookPathEnvFallsBackToProcessEnvWhenAbsent(t *testing.T) {
	_, err := lookPathEnv("sh", nil)
	assert.NilError(t, err)
}
