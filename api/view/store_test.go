package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetCreatesOncePerSession(t *testing.T) {
	created := 0
	s := NewStore(func() *Page {
		created++
		return NewPage(&fakeSource{}, "Marcus", initialViewport)
	})

	a := s.Get("a")
	assert.Same(t, a, s.Get("a"))
	assert.NotSame(t, a, s.Get("b"))
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SweepDropsIdlePages(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	s := NewStore(func() *Page {
		p := NewPage(&fakeSource{}, "Marcus", initialViewport)
		p.now = func() time.Time { return clock }
		p.touch()
		return p
	})

	s.Get("old")
	clock = base.Add(20 * time.Minute)
	s.Get("fresh")

	removed := s.Sweep(base.Add(35*time.Minute), 30*time.Minute)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
}
