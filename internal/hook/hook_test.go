package hook

import (
	"os"
	"testing"

	"github.com/linglong/ll-box/internal/config"
	"gotest.tools/v3/assert"
)

func TestRunEmptyIsNoop(t *testing.T) {
	assert.NilError(t, Run(nil))
}

func TestRunExecutesTrueAndFalseWithoutAborting(t *testing.T) {
	if os.Getenv("LL_BOX_TEST_ALLOW_FORK") == "" {
		t.Skip("requires forking the test binary; set LL_BOX_TEST_ALLOW_FORK=1 to run")
	}
	err := Run([]config.Hook{
		{Path: "/bin/true", Args: nil},
		{Path: "/bin/false", Args: nil},
	})
	assert.NilError(t, err)
}
