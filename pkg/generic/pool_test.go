package generic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolResetsOnPut(t *testing.T) {
	made := 0
	p := NewPool(func() *strings.Builder {
		made++
		return &strings.Builder{}
	}, (*strings.Builder).Reset)

	b := p.Get()
	b.WriteString("dirty")
	p.Put(b)
	assert.Zero(t, b.Len())
	assert.GreaterOrEqual(t, made, 1)
}

func TestWith(t *testing.T) {
	p := NewPool(func() *strings.Builder { return &strings.Builder{} }, (*strings.Builder).Reset)
	got := With(p, func(b *strings.Builder) string {
		b.WriteString("abc")
		return b.String()
	})
	assert.Equal(t, "abc", got)
	assert.Equal(t, "", With(p, func(b *strings.Builder) string { return b.String() }))
}

func TestNilReset(t *testing.T) {
	p := NewPool(func() []int { return make([]int, 0, 4) }, nil)
	v := p.Get()
	assert.Equal(t, 4, cap(v))
	p.Put(v)
}
