package slotmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateSequentialIndices(t *testing.T) {
	var a Allocator
	for i := uint32(0); i < 4; i++ {
		k := a.Allocate()
		assert.Equal(t, Key{Index: i, Generation: 0}, k)
	}
	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 0, a.FreeLen())
}

func TestReleaseBumpsGenerationBeforeReuse(t *testing.T) {
	var a Allocator
	first := a.Allocate()
	_ = a.Allocate()

	require.True(t, a.Release(first))
	assert.False(t, a.IsCurrent(first))
	assert.False(t, a.Release(first), "double release must be rejected")

	reused := a.Allocate()
	assert.Equal(t, first.Index, reused.Index)
	assert.Greater(t, reused.Generation, first.Generation)
	assert.NotEqual(t, first, reused)
	assert.Equal(t, 2, a.Len(), "reuse must not grow the generation table")
}

func TestReleaseIsLIFO(t *testing.T) {
	var a Allocator
	k0, k1, k2 := a.Allocate(), a.Allocate(), a.Allocate()
	a.Release(k0)
	a.Release(k2)

	assert.Equal(t, k2.Index, a.Allocate().Index)
	assert.Equal(t, k0.Index, a.Allocate().Index)
	assert.True(t, a.IsCurrent(k1))
}

func TestInvalidKey(t *testing.T) {
	assert.False(t, InvalidKey.IsValid())
	assert.True(t, Key{}.IsValid())
	assert.Equal(t, "invalid", InvalidKey.String())
	assert.Equal(t, "3:7", Key{Index: 3, Generation: 7}.String())

	var a Allocator
	assert.False(t, a.IsCurrent(InvalidKey))
	assert.False(t, a.Release(InvalidKey))
}

func TestAllocatorRestore(t *testing.T) {
	var a Allocator
	require.NoError(t, a.Restore([]Key{{Index: 0, Generation: 2}, {Index: 3, Generation: 5}}))

	assert.Equal(t, 4, a.Len())
	assert.Equal(t, 2, a.FreeLen())
	assert.True(t, a.IsCurrent(Key{Index: 3, Generation: 5}))
	assert.False(t, a.IsCurrent(Key{Index: 3, Generation: 4}))

	// gaps are handed out lowest first
	assert.Equal(t, uint32(1), a.Allocate().Index)
	assert.Equal(t, uint32(2), a.Allocate().Index)
	assert.Equal(t, uint32(4), a.Allocate().Index)
}

func TestAllocatorRestoreRejectsBadInput(t *testing.T) {
	var a Allocator
	err := a.Restore([]Key{{Index: 1}, {Index: 1, Generation: 3}})
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	err = a.Restore([]Key{InvalidKey})
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestMapInsertGetRemove(t *testing.T) {
	m := New[string]()
	a := m.Insert(func(k Key) string { return "a@" + k.String() })
	b := m.Insert(func(Key) string { return "b" })

	v, ok := m.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a@0:0", v)
	assert.Equal(t, 2, m.Len())

	removed, ok := m.Remove(a)
	require.True(t, ok)
	assert.Equal(t, "a@0:0", removed)

	_, ok = m.Remove(a)
	assert.False(t, ok, "removing twice is a no-op")

	c := m.Insert(func(Key) string { return "c" })
	assert.Equal(t, a.Index, c.Index)

	_, ok = m.Get(a)
	assert.False(t, ok, "stale key must not resolve to the new occupant")
	got, ok := m.Get(c)
	require.True(t, ok)
	assert.Equal(t, "c", got)
	assert.True(t, m.Contains(b))
}

func TestMapReserveFill(t *testing.T) {
	var m Map[int]
	k := m.Reserve()
	assert.False(t, m.Contains(k))

	require.NoError(t, m.Fill(k, 42))
	assert.True(t, errors.Is(m.Fill(k, 43), ErrOccupied))

	v, _ := m.Get(k)
	assert.Equal(t, 42, v)

	m.Remove(k)
	assert.True(t, errors.Is(m.Fill(k, 1), ErrStaleKey))
}

func TestMapKeysSortedByIndex(t *testing.T) {
	m := New[int]()
	for i := 0; i < 5; i++ {
		m.Insert(func(Key) int { return i })
	}
	m.Remove(Key{Index: 2})

	keys := m.Keys()
	require.Len(t, keys, 4)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1].Index, keys[i].Index)
	}
}

func TestMapRestoreAndClear(t *testing.T) {
	m := New[string]()
	err := m.Restore(map[Key]string{
		{Index: 1, Generation: 4}: "one",
		{Index: 4, Generation: 0}: "four",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 5, m.Allocator().Len())

	v, ok := m.Get(Key{Index: 1, Generation: 4})
	require.True(t, ok)
	assert.Equal(t, "one", v)

	k := m.Insert(func(Key) string { return "zero" })
	assert.Equal(t, uint32(0), k.Index)

	m.Clear()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Allocator().Len())
}

func TestMapRange(t *testing.T) {
	m := New[int]()
	for i := 0; i < 3; i++ {
		m.Insert(func(Key) int { return i })
	}
	sum, visits := 0, 0
	m.Range(func(_ Key, v int) bool {
		sum += v
		visits++
		return true
	})
	assert.Equal(t, 3, sum)
	assert.Equal(t, 3, visits)

	visits = 0
	m.Range(func(Key, int) bool {
		visits++
		return false
	})
	assert.Equal(t, 1, visits)
}
