package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"travelFront/internal/models"
)

type pagerSession struct {
	pager    *ResultPager
	lastSeen time.Time
}

// PagerRegistry keeps the result pagers of open results pages, keyed by a
// random session id. Idle sessions are dropped by Evict.
type PagerRegistry struct {
	newPager func() *ResultPager
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*pagerSession
}

func NewPagerRegistry(newPager func() *ResultPager, ttl time.Duration) *PagerRegistry {
	return &PagerRegistry{
		newPager: newPager,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*pagerSession),
	}
}

// Create opens a new session.
func (r *PagerRegistry) Create() (string, *ResultPager) {
	id := uuid.NewString()
	pager := r.newPager()

	r.mu.Lock()
	r.sessions[id] = &pagerSession{pager: pager, lastSeen: r.now()}
	r.mu.Unlock()
	return id, pager
}

// Get returns the session's pager and marks it as used.
func (r *PagerRegistry) Get(id string) (*ResultPager, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	s.lastSeen = r.now()
	return s.pager, nil
}

func (r *PagerRegistry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Evict drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *PagerRegistry) Evict(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *PagerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
