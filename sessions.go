package main

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

var ErrSessionsClosed = errors.New("sessions closed")

// SessionKey identifies one user's calculator in one chat.
type SessionKey struct {
	ChatID int64
	UserID int64
}

type session struct {
	engine   *calc.Engine
	expireAt time.Time
}

// Sessions keeps a calculator per SessionKey and forgets it after ttl of
// inactivity. Engines handed out are not locked; callers serialize input.
type Sessions struct {
	mu          sync.RWMutex
	cleanerOnce sync.Once
	cleanerCh   chan struct{}
	items       map[SessionKey]session
	ttl         time.Duration
	inShutdown  atomic.Bool
	now         func() time.Time
}

func NewSessions(ttl, cleanupInterval time.Duration) *Sessions {
	s := &Sessions{
		cleanerCh: make(chan struct{}),
		items:     make(map[SessionKey]session),
		ttl:       ttl,
		now:       time.Now,
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-s.cleanerCh:
				return
			case <-ticker.C:
				s.cleanExpired()
			}
		}
	}()
	return s
}

// Open starts a new calculator for key. It returns false if an unexpired
// one already exists or the store is shutting down.
func (s *Sessions) Open(key SessionKey) (*calc.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inShutdown.Load() {
		return nil, false
	}
	if item, ok := s.items[key]; ok && !s.expired(item) {
		return nil, false
	}

	e := calc.NewEngine()
	s.items[key] = session{engine: e, expireAt: s.now().Add(s.ttl)}
	return e, true
}

// Get returns the live calculator for key, or nil.
func (s *Sessions) Get(key SessionKey) *calc.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[key]
	if !ok || s.expired(item) {
		return nil
	}
	return item.engine
}

// Touch extends the lifetime of a live session.
func (s *Sessions) Touch(key SessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item, ok := s.items[key]; ok && !s.expired(item) {
		item.expireAt = s.now().Add(s.ttl)
		s.items[key] = item
	}
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Sessions) IsEmpty() bool {
	return s.Len() == 0
}

func (s *Sessions) expired(item session) bool {
	return s.now().After(item.expireAt)
}

const shutdownIntervalMax = 500 * time.Millisecond

// Shutdown stops accepting new sessions and waits for the open ones to
// expire, or for ctx to be done.
func (s *Sessions) Shutdown(ctx context.Context) error {
	if s.inShutdown.Swap(true) {
		return ErrSessionsClosed
	}
	s.closeCleaner()

	intervalBase := time.Millisecond
	nextInterval := func() time.Duration {
		interval := intervalBase + time.Duration(rand.Int63n(int64(intervalBase/10)+1))

		intervalBase *= 2
		if intervalBase > shutdownIntervalMax {
			intervalBase = shutdownIntervalMax
		}
		return interval
	}

	timer := time.NewTimer(nextInterval())
	defer timer.Stop()
	for {
		s.cleanExpired()
		if s.IsEmpty() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			timer.Reset(nextInterval())
		}
	}
}

// Close drops every session immediately.
func (s *Sessions) Close() error {
	if s.inShutdown.Swap(true) {
		return ErrSessionsClosed
	}
	s.closeCleaner()

	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.items)
	return nil
}

func (s *Sessions) cleanExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, item := range s.items {
		if s.expired(item) {
			delete(s.items, k)
		}
	}
}

func (s *Sessions) closeCleaner() {
	s.cleanerOnce.Do(func() {
		close(s.cleanerCh)
	})
}
