package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt64s(t *testing.T) {
	b := New()

	_, ok := b.Int64s("source_tabs")
	assert.False(t, ok)

	b.PutInt64s("source_tabs", []int64{5, 7})
	ids, ok := b.Int64s("source_tabs")
	require.True(t, ok)
	assert.Equal(t, []int64{5, 7}, ids)
}

func TestEmptyInt64sIsPresent(t *testing.T) {
	b := New()
	b.PutInt64s("source_tabs", nil)

	ids, ok := b.Int64s("source_tabs")
	assert.True(t, ok)
	assert.Empty(t, ids)
}

func TestInt64Default(t *testing.T) {
	b := New()
	assert.Equal(t, int64(-1), b.Int64("selected_tab", -1))

	b.PutInt64("selected_tab", 42)
	assert.Equal(t, int64(42), b.Int64("selected_tab", -1))
}

func TestTypeMismatch(t *testing.T) {
	b := New()
	b.PutString("5", "naruto")

	assert.Equal(t, int64(-1), b.Int64("5", -1))
	_, ok := b.Int64s("5")
	assert.False(t, ok)

	v, ok := b.String("5")
	assert.True(t, ok)
	assert.Equal(t, "naruto", v)
}

func TestRemoveAndKeys(t *testing.T) {
	b := New()
	b.PutInt64("selected_tab", 1)
	b.PutString("9", "q")
	b.PutInt64s("source_tabs", []int64{1})

	assert.Equal(t, []string{"9", "selected_tab", "source_tabs"}, b.Keys())

	b.Remove("selected_tab")
	assert.False(t, b.Contains("selected_tab"))
	assert.True(t, b.Contains("9"))
}

func TestSnapshotRestore(t *testing.T) {
	b := New()
	b.PutInt64s("source_tabs", []int64{3, 4})
	b.PutInt64("selected_tab", 4)

	restored := New()
	restored.Restore(b.Snapshot())

	ids, ok := restored.Int64s("source_tabs")
	require.True(t, ok)
	assert.Equal(t, []int64{3, 4}, ids)
	assert.Equal(t, int64(4), restored.Int64("selected_tab", -1))

	// snapshots are copies
	b.PutInt64("selected_tab", 3)
	assert.Equal(t, int64(4), restored.Int64("selected_tab", -1))
}
