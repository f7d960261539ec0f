package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSliceRotate verifies rotation, including negative and oversized offsets.
func TestSliceRotate(t *testing.T) {
	x := []string{"DAO.hyp", "ManagedAccount.hyp", "Token.hyp", "TokenCreation.hyp"}

	assert.Equal(t, x, SliceRotate(x, 0))
	assert.Equal(t, []string{"Token.hyp", "TokenCreation.hyp", "DAO.hyp", "ManagedAccount.hyp"}, SliceRotate(x, 2))
	assert.Equal(t, SliceRotate(x, 3), SliceRotate(x, -1))
	assert.Equal(t, SliceRotate(x, 1), SliceRotate(x, 5))
	assert.Empty(t, SliceRotate([]int{}, 3))

	// The input is left untouched
	assert.Equal(t, "DAO.hyp", x[0])
}

// TestSliceRotations verifies that every rotation is produced once, in order.
func TestSliceRotations(t *testing.T) {
	rotations := SliceRotations([]int{1, 2, 3})
	assert.Equal(t, [][]int{{1, 2, 3}, {2, 3, 1}, {3, 1, 2}}, rotations)
	assert.Empty(t, SliceRotations([]int{}))
}

// TestSliceSelect verifies element projection.
func TestSliceSelect(t *testing.T) {
	lengths := SliceSelect([]string{"a", "bb", "ccc"}, func(s string) int { return len(s) })
	assert.Equal(t, []int{1, 2, 3}, lengths)
}
