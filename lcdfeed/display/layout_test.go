package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_NoBreakNeverExceedsColumns(t *testing.T) {
	for n := 0; n <= 40; n++ {
		msg := strings.Repeat("x", n)
		line1, line2, twoLines := Layout(msg)

		assert.Equal(t, min(n, Columns), len(line1))
		assert.Empty(t, line2)
		assert.False(t, twoLines)
	}
}

func TestLayout_BreakOffsets(t *testing.T) {
	after := "0123456789ABCDEFGHIJ"
	for k := 0; k <= 24; k++ {
		before := strings.Repeat("b", k)
		line1, line2, twoLines := Layout(before + "\n" + after)

		assert.True(t, twoLines)
		assert.Equal(t, before[:min(k, Columns)], line1, "k=%d", k)
		assert.Equal(t, after[:Columns], line2, "k=%d", k)
	}
}

func TestLayout_DoesNotCopy(t *testing.T) {
	msg := "hello\nworld"
	line1, line2, _ := Layout(msg)

	assert.Equal(t, "hello", line1)
	assert.Equal(t, "world", line2)
	assert.Equal(t, 0.0, testing.AllocsPerRun(10, func() { Layout(msg) }))
}
