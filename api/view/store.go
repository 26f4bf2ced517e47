package view

import (
	"sync"
	"time"
)

// Store keeps one Page per browser session.
type Store struct {
	mu      sync.Mutex
	pages   map[string]*Page
	newPage func() *Page
}

func NewStore(newPage func() *Page) *Store {
	return &Store{pages: make(map[string]*Page), newPage: newPage}
}

// Get returns the page for id, creating it on first use.
func (s *Store) Get(id string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[id]; ok {
		return p
	}
	p := s.newPage()
	s.pages[id] = p
	return p
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Sweep drops pages not used since now-idle and returns how many were removed.
func (s *Store) Sweep(now time.Time, idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, p := range s.pages {
		if now.Sub(p.idleSince()) > idle {
			delete(s.pages, id)
			removed++
		}
	}
	return removed
}
