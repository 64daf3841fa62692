package history

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyLog(t *testing.T) {
	l := New()
	assert.Equal(t, -1, l.Cursor())
	assert.Zero(t, l.Len())
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())

	_, ok := l.Undo()
	assert.False(t, ok)
	_, ok = l.Redo()
	assert.False(t, ok)
	_, ok = l.Current()
	assert.False(t, ok)
}

func TestCapacityBound(t *testing.T) {
	l := New()
	for i := 0; i < 55; i++ {
		l.Push(Snapshot(fmt.Sprint(i)))
		require.LessOrEqual(t, l.Len(), Capacity)
		require.Equal(t, l.Len()-1, l.Cursor())
	}
	entries := l.Entries()
	assert.Equal(t, Snapshot("35"), entries[0])
	assert.Equal(t, Snapshot("54"), entries[Capacity-1])
}

func TestPushAfterUndoDiscardsRedoBranch(t *testing.T) {
	l := New()
	l.Push("A")
	l.Push("B")
	l.Push("C")
	require.Equal(t, 2, l.Cursor())

	s, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, Snapshot("B"), s)
	assert.Equal(t, 1, l.Cursor())

	l.Push("D")
	assert.Equal(t, []Snapshot{"A", "B", "D"}, l.Entries())
	assert.Equal(t, 2, l.Cursor())
	assert.False(t, l.CanRedo())
}

func TestBoundariesAreNoOps(t *testing.T) {
	l := New()
	l.Push("A")
	l.Push("B")

	_, ok := l.Redo()
	assert.False(t, ok)
	assert.Equal(t, 1, l.Cursor())

	s, ok := l.Undo()
	require.True(t, ok)
	assert.Equal(t, Snapshot("A"), s)

	_, ok = l.Undo()
	assert.False(t, ok)
	assert.Equal(t, 0, l.Cursor())
	assert.Equal(t, []Snapshot{"A", "B"}, l.Entries())

	s, ok = l.Redo()
	require.True(t, ok)
	assert.Equal(t, Snapshot("B"), s)
}

func TestSuppressedPushIgnored(t *testing.T) {
	l := New()
	l.Push("A")
	l.Push("B")
	l.Undo()

	err := l.WithSuppressed(func() error {
		assert.True(t, l.Suppressed())
		l.Push("X")
		l.Push("Y")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, l.Suppressed())
	assert.Equal(t, []Snapshot{"A", "B"}, l.Entries())
	assert.Equal(t, 0, l.Cursor())
}

func TestSuppressionResetOnFailure(t *testing.T) {
	l := New()
	boom := errors.New("boom")
	err := l.WithSuppressed(func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, l.Suppressed())

	assert.Panics(t, func() {
		_ = l.WithSuppressed(func() error { panic("restore failed") })
	})
	assert.False(t, l.Suppressed())

	l.Push("A")
	assert.Equal(t, 1, l.Len())
}

func TestSmallCapacity(t *testing.T) {
	l := NewWithCapacity(0)
	l.Push("A")
	l.Push("B")
	assert.Equal(t, []Snapshot{"B"}, l.Entries())
	assert.False(t, l.CanUndo())
}
