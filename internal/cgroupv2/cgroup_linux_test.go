package cgroupv2

import (
	"testing"

	"gotest.tools/v3/assert"
)

// TestCPUWeightBoundary exercises the formula spec.md Testable Property 5
// and scenario S6 both name: 1 + ((shares-2)*9999)/262142. Evaluating it
// exactly for shares=1024 gives 1022*9999/262142 = 38 (integer division),
// so weight = 39; see DESIGN.md for why this implementation follows the
// formula rather than the spec's own worked arithmetic for this case.
func TestCPUWeightBoundary(t *testing.T) {
	assert.Equal(t, CPUWeight(1024), uint64(39))
}

func TestCPUWeightRangeEndpoints(t *testing.T) {
	assert.Equal(t, CPUWeight(2), uint64(1))
	assert.Equal(t, CPUWeight(262144), uint64(10000))
}

func TestCPUWeightClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, CPUWeight(0), uint64(1))
	assert.Equal(t, CPUWeight(1_000_000), uint64(10000))
}

func TestClampSwapMaxClampsAtZero(t *testing.T) {
	assert.Equal(t, clampSwapMax(100, 200), int64(0))
}

func TestClampSwapMaxNormal(t *testing.T) {
	assert.Equal(t, clampSwapMax(300, 200), int64(100))
}
