package ipcsem

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewKeyIsPositiveAndVaries(t *testing.T) {
	a := NewKey()
	b := NewKey()

	assert.Assert(t, a >= 0)
	assert.Assert(t, b >= 0)
	assert.Assert(t, a != b, "two consecutive keys collided: %d == %d", a, b)
}
