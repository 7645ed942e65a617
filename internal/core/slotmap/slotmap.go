// Package slotmap implements generational slot allocation: keys are
// {index, generation} pairs, released indices are reused, and every release
// bumps the generation so stale keys never alias a newer occupant.
package slotmap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

var (
	ErrInvalidKey   = errors.New("invalid slot key")
	ErrStaleKey     = errors.New("stale slot key")
	ErrDuplicateKey = errors.New("duplicate slot index")
	ErrOccupied     = errors.New("slot already occupied")
)

// Key identifies one slot at one generation. The zero value is a valid key
// (index 0, generation 0); InvalidKey is the reserved sentinel.
type Key struct {
	Index      uint32
	Generation uint32
}

// InvalidKey uses the maximum value for both fields.
var InvalidKey = Key{Index: math.MaxUint32, Generation: math.MaxUint32}

func (k Key) IsValid() bool {
	return k != InvalidKey
}

func (k Key) String() string {
	if !k.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%d:%d", k.Index, k.Generation)
}

// Allocator hands out keys. It stores one generation per index ever allocated
// plus a LIFO stack of indices free for reuse.
type Allocator struct {
	generations []uint32
	free        []uint32
	live        []bool
}

// Allocate returns a fresh key, reusing the most recently released index if any.
func (a *Allocator) Allocate() Key {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.generations))
		a.generations = append(a.generations, 0)
		a.live = append(a.live, false)
	}
	a.live[index] = true
	return Key{Index: index, Generation: a.generations[index]}
}

// Release retires k. It reports false when k is not the live key of its index.
func (a *Allocator) Release(k Key) bool {
	if !a.IsCurrent(k) {
		return false
	}
	a.generations[k.Index]++
	a.live[k.Index] = false
	a.free = append(a.free, k.Index)
	return true
}

// IsCurrent reports whether k is the live key for its index.
func (a *Allocator) IsCurrent(k Key) bool {
	if int(k.Index) >= len(a.generations) {
		return false
	}
	return a.live[k.Index] && a.generations[k.Index] == k.Generation
}

// Generation returns the current generation stored for index.
func (a *Allocator) Generation(index uint32) (uint32, bool) {
	if int(index) >= len(a.generations) {
		return 0, false
	}
	return a.generations[index], true
}

// Len is the number of indices ever allocated.
func (a *Allocator) Len() int {
	return len(a.generations)
}

// FreeLen is the number of indices waiting for reuse.
func (a *Allocator) FreeLen() int {
	return len(a.free)
}

// Reset forgets every allocation.
func (a *Allocator) Reset() {
	a.generations = a.generations[:0]
	a.free = a.free[:0]
	a.live = a.live[:0]
}

// Restore rebuilds the allocator from a persisted set of live keys. Indices in
// range that are not part of the set become free, lowest index reused first;
// their generation restarts at 0 because the original value was not persisted.
func (a *Allocator) Restore(keys []Key) error {
	size := 0
	for _, k := range keys {
		if !k.IsValid() || k.Index == math.MaxUint32 {
			return eris.Wrapf(ErrInvalidKey, "cannot restore key %s", k)
		}
		if int(k.Index)+1 > size {
			size = int(k.Index) + 1
		}
	}

	generations := make([]uint32, size)
	live := make([]bool, size)
	for _, k := range keys {
		if live[k.Index] {
			return eris.Wrapf(ErrDuplicateKey, "index %d appears more than once", k.Index)
		}
		live[k.Index] = true
		generations[k.Index] = k.Generation
	}

	free := make([]uint32, 0, size-len(keys))
	for i := size - 1; i >= 0; i-- {
		if !live[i] {
			free = append(free, uint32(i))
		}
	}

	a.generations = generations
	a.live = live
	a.free = free
	return nil
}

// Map stores one value per live key.
type Map[V any] struct {
	alloc Allocator
	items map[Key]V
}

// New returns an empty map.
func New[V any]() *Map[V] {
	return &Map[V]{items: make(map[Key]V)}
}

func (m *Map[V]) lazyInit() {
	if m.items == nil {
		m.items = make(map[Key]V)
	}
}

// Insert allocates a key and stores the value built for it.
func (m *Map[V]) Insert(build func(Key) V) Key {
	m.lazyInit()
	k := m.alloc.Allocate()
	m.items[k] = build(k)
	return k
}

// Reserve allocates a key without storing a value; complete it with Fill.
func (m *Map[V]) Reserve() Key {
	m.lazyInit()
	return m.alloc.Allocate()
}

// Fill stores v under a key obtained from Reserve.
func (m *Map[V]) Fill(k Key, v V) error {
	m.lazyInit()
	if !m.alloc.IsCurrent(k) {
		return eris.Wrapf(ErrStaleKey, "fill %s", k)
	}
	if _, ok := m.items[k]; ok {
		return eris.Wrapf(ErrOccupied, "fill %s", k)
	}
	m.items[k] = v
	return nil
}

func (m *Map[V]) Get(k Key) (V, bool) {
	v, ok := m.items[k]
	return v, ok
}

func (m *Map[V]) Contains(k Key) bool {
	_, ok := m.items[k]
	return ok
}

// Remove erases the value and releases its slot in one step.
func (m *Map[V]) Remove(k Key) (V, bool) {
	v, ok := m.items[k]
	if !ok {
		return v, false
	}
	delete(m.items, k)
	m.alloc.Release(k)
	return v, true
}

func (m *Map[V]) Len() int {
	return len(m.items)
}

// Keys returns the live keys ordered by index.
func (m *Map[V]) Keys() []Key {
	keys := make([]Key, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Index < keys[j].Index })
	return keys
}

// Range calls fn for every live entry in map order until fn returns false.
func (m *Map[V]) Range(fn func(Key, V) bool) {
	for k, v := range m.items {
		if !fn(k, v) {
			return
		}
	}
}

// Clear drops every value and resets the allocator.
func (m *Map[V]) Clear() {
	m.items = make(map[Key]V)
	m.alloc.Reset()
}

// Restore replaces the contents with persisted entries, keeping their keys.
func (m *Map[V]) Restore(entries map[Key]V) error {
	keys := make([]Key, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	var alloc Allocator
	if err := alloc.Restore(keys); err != nil {
		return err
	}
	items := make(map[Key]V, len(entries))
	for k, v := range entries {
		items[k] = v
	}
	m.alloc = alloc
	m.items = items
	return nil
}

// Allocator exposes the underlying allocator for inspection.
func (m *Map[V]) Allocator() *Allocator {
	return &m.alloc
}
