package platform

import (
	"testing"

	"golang.org/x/sys/unix"
	"gotest.tools/v3/assert"
)

func TestParseWstatusNormalExit(t *testing.T) {
	// WIFEXITED with status 0 on linux/amd64 encodes as the low byte 0.
	var ws unix.WaitStatus
	normal, human := ParseWstatus(ws)
	assert.Assert(t, normal)
	assert.Assert(t, human != "")
}
