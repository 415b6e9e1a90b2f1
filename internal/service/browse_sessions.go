package service

import (
	"context"
	"sync"
	"time"
)

const maxBrowseSessions = 10000

// browseSessions hands out increasing tickets per browse session so a slow
// fetch can tell that a newer one was started after it.
type browseSessions struct {
	mu       sync.Mutex
	sessions map[string]*browseTicket
	idleTTL  time.Duration
	limit    int
	now      func() time.Time
}

type browseTicket struct {
	latest   uint64
	lastSeen time.Time
}

func newBrowseSessions(idleTTL time.Duration) *browseSessions {
	return &browseSessions{
		sessions: make(map[string]*browseTicket),
		idleTTL:  idleTTL,
		limit:    maxBrowseSessions,
		now:      time.Now,
	}
}

// next issues a new ticket for session.
func (b *browseSessions) next(session string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.sessions[session]
	if !ok {
		if len(b.sessions) >= b.limit {
			b.evictLocked()
		}
		t = &browseTicket{}
		b.sessions[session] = t
	}
	t.latest++
	t.lastSeen = b.now()
	return t.latest
}

// isLatest reports whether ticket is still the newest for session. An expired
// session counts as superseded.
func (b *browseSessions) isLatest(session string, ticket uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.sessions[session]
	return ok && t.latest == ticket
}

// evictLocked makes room for one session: expired sessions go first, then the
// least recently seen one. An evicted session's pending fetch reads as stale.
func (b *browseSessions) evictLocked() {
	b.sweepLocked()
	if len(b.sessions) < b.limit {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, t := range b.sessions {
		if oldestID == "" || t.lastSeen.Before(oldest) {
			oldestID, oldest = id, t.lastSeen
		}
	}
	delete(b.sessions, oldestID)
}

func (b *browseSessions) sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sweepLocked()
}

func (b *browseSessions) sweepLocked() {
	now := b.now()
	for id, t := range b.sessions {
		if now.Sub(t.lastSeen) > b.idleTTL {
			delete(b.sessions, id)
		}
	}
}

// run drops idle sessions until ctx is done.
func (b *browseSessions) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}
