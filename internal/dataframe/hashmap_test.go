package dataframe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueMapAddAndRows(t *testing.T) {
	m := newValueMap(2)

	assert.True(t, m.add("a", 0))
	assert.False(t, m.add("a", 3))
	assert.True(t, m.add("b", 1))

	assert.Equal(t, []int{0, 3}, m.rows("a"))
	assert.Equal(t, []int{1}, m.rows("b"))
	assert.Nil(t, m.rows("missing"))
}

func TestValueMapResize(t *testing.T) {
	m := newValueMap(1)

	// Push well past the initial capacity to force several resizes.
	for i := 0; i < 200; i++ {
		m.add(fmt.Sprintf("key-%d", i), i)
	}
	for i := 0; i < 200; i++ {
		assert.Equal(t, []int{i}, m.rows(fmt.Sprintf("key-%d", i)), "key-%d", i)
	}
	assert.GreaterOrEqual(t, m.capacity, 200)
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 2, want: 2},
		{in: 3, want: 4},
		{in: 17, want: 32},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPowerOfTwo(tt.in), "nextPowerOfTwo(%d)", tt.in)
	}
}
