package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	lines := SplitLines("first\nsecond\r\nthird")
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestSplitLines_PageBreakBecomesBlank(t *testing.T) {
	lines := SplitLines("page one\fpage two")
	require.Len(t, lines, 3)
	assert.Equal(t, "page one", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, "page two", lines[2])
}

func TestMock(t *testing.T) {
	m := &Mock{Lines: []string{"a", "b"}}
	lines, err := m.ExtractLines(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, lines)

	m = &Mock{Err: errors.New("corrupt")}
	_, err = m.ExtractLines([]byte("%PDF-1.5"))
	assert.Error(t, err)
}
