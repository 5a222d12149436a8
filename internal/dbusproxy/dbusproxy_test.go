package dbusproxy

import (
	"testing"
	"time"

	"github.com/linglong/ll-box/internal/config"
	"gotest.tools/v3/assert"
)

func TestStartDisabledIsNoop(t *testing.T) {
	assert.NilError(t, Start(nil, time.Millisecond))
	assert.NilError(t, Start(&config.DbusProxyInfo{Enable: false}, time.Millisecond))
}

func TestExistsOnMissingPath(t *testing.T) {
	assert.Assert(t, !exists("/nonexistent/path/for/ll-box-tests"))
}

func TestWaitForSocketTimesOut(t *testing.T) {
	err := waitForSocket("/nonexistent/path/for/ll-box-tests", 20*time.Millisecond)
	assert.ErrorContains(t, err, "timeout")
}
