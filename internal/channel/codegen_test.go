package channel

import (
	"testing"

	"gpssim/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCACodeIsBipolar(t *testing.T) {
	code := GenerateCACode(1)
	for i, c := range code {
		require.True(t, c == 1 || c == -1, "chip %d out of range: %d", i, c)
	}
}

func TestGenerateCACodeDiffersByPRN(t *testing.T) {
	c1 := GenerateCACode(1)
	c2 := GenerateCACode(2)
	assert.NotEqual(t, c1, c2)
}

func TestGenerateCACodeOutOfRangePRN(t *testing.T) {
	code := GenerateCACode(0)
	for _, c := range code {
		assert.Equal(t, int8(0), c)
	}
}

func TestCACodeMemoizes(t *testing.T) {
	a := CACode(5)
	b := CACode(5)
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestGenerateCACodeLength(t *testing.T) {
	code := GenerateCACode(10)
	assert.Equal(t, constants.CACodeLength, len(code))
}
