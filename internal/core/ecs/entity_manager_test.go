package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetra-engine/tetra/internal/core/slotmap"
)

func TestCreateEntityAssignsSequentialIDs(t *testing.T) {
	m := NewEntityManager()

	a := m.CreateEntity("a")
	b := m.CreateEntity("b")

	assert.Equal(t, EntityID{Index: 0, Generation: 0}, a.ID())
	assert.Equal(t, EntityID{Index: 1, Generation: 0}, b.ID())
	assert.Equal(t, "a", a.Name())
	assert.False(t, a.ParentID().IsValid())
	assert.Equal(t, 2, m.Len())
}

func TestDestroyedSlotIsReusedWithNewGeneration(t *testing.T) {
	m := NewEntityManager()
	m.CreateEntity("a")
	b := m.CreateEntity("b")
	stale := b.ID()

	m.DestroyEntity(stale)
	assert.False(t, m.HasEntity(stale))

	c := m.CreateEntity("c")
	assert.Equal(t, EntityID{Index: 1, Generation: 1}, c.ID())

	_, ok := m.GetEntityByID(stale)
	assert.False(t, ok, "a stale id must not resolve to the new occupant")

	got, ok := m.GetEntityByID(c.ID())
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestDestroyUnknownEntityIsNoop(t *testing.T) {
	m := NewEntityManager()
	e := m.CreateEntity("a")

	m.DestroyEntity(EntityID{Index: 5, Generation: 0})
	m.DestroyEntity(InvalidEntityID)
	m.DestroyEntity(e.ID())
	m.DestroyEntity(e.ID())

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, m.entities.Allocator().FreeLen())
}

func TestEntitiesAndRootsAreOrdered(t *testing.T) {
	m := NewEntityManager()
	root := m.CreateEntity("root")
	child := m.CreateEntity("child")
	m.CreateEntity("other")
	require.NoError(t, child.SetParent(root.ID()))

	names := func(es []*Entity) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Name())
		}
		return out
	}
	assert.Equal(t, []string{"root", "child", "other"}, names(m.Entities()))
	assert.Equal(t, []string{"root", "other"}, names(m.Roots()))

	m.DestroyEntity(root.ID())
	assert.Equal(t, []string{"child", "other"}, names(m.Roots()), "orphans count as roots")
}

func TestSetParentMaintainsChildren(t *testing.T) {
	m := NewEntityManager()
	a := m.CreateEntity("a")
	b := m.CreateEntity("b")
	c := m.CreateEntity("c")

	require.NoError(t, c.SetParent(a.ID()))
	assert.Equal(t, []EntityID{c.ID()}, a.ChildIDs())

	parent, ok := c.Parent()
	require.True(t, ok)
	assert.Same(t, a, parent)

	require.NoError(t, c.SetParent(b.ID()))
	assert.Empty(t, a.ChildIDs())
	assert.Equal(t, []*Entity{c}, b.Children())

	require.NoError(t, c.SetParent(InvalidEntityID))
	assert.Empty(t, b.ChildIDs())
	_, ok = c.Parent()
	assert.False(t, ok)
}

func TestSetParentRejects(t *testing.T) {
	m := NewEntityManager()
	a := m.CreateEntity("a")
	b := m.CreateEntity("b")
	c := m.CreateEntity("c")
	require.NoError(t, b.SetParent(a.ID()))
	require.NoError(t, c.SetParent(b.ID()))

	assert.ErrorIs(t, a.SetParent(a.ID()), ErrSelfParent)
	assert.ErrorIs(t, a.SetParent(c.ID()), ErrParentCycle)
	assert.ErrorIs(t, a.SetParent(EntityID{Index: 9}), ErrEntityNotFound)

	_, ok := a.Parent()
	assert.False(t, ok, "failed assignments leave the hierarchy alone")
}

func TestChildrenSkipDanglingIDs(t *testing.T) {
	m := NewEntityManager()
	a := m.CreateEntity("a")
	b := m.CreateEntity("b")
	a.children = append(a.children, b.ID(), EntityID{Index: 40, Generation: 2})

	assert.Equal(t, []*Entity{b}, a.Children())
	assert.Len(t, a.ChildIDs(), 2)
}

func TestEntityManagerRestoresFreeList(t *testing.T) {
	m := NewEntityManager()
	for _, name := range []string{"a", "b", "c", "d"} {
		m.CreateEntity(name)
	}
	m.DestroyEntity(EntityID{Index: 1, Generation: 0})
	m.DestroyEntity(EntityID{Index: 2, Generation: 0})
	m.CreateEntity("b2") // index 2, generation 1

	loaded := roundTripEntities(t, m)
	require.Equal(t, 3, loaded.Len())

	e, ok := loaded.GetEntityByID(EntityID{Index: 2, Generation: 1})
	require.True(t, ok)
	assert.Equal(t, "b2", e.Name())

	next := loaded.CreateEntity("next")
	assert.Equal(t, uint32(1), next.ID().Index, "missing indices are free again")
	assert.NotEqual(t, slotmap.InvalidKey, next.ID().Key())
}
