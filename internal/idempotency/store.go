// Package idempotency replays the response of a create request when a client
// retries it with the same Idempotency-Key.
package idempotency

import (
	"errors"
	"sync"
	"time"
)

// ErrUnknownKey is returned when marking a key that has no live record.
var ErrUnknownKey = errors.New("unknown idempotency key")

// Store keeps idempotency records in memory until they expire.
type Store struct {
	mu        sync.Mutex
	records   map[string]*Record
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a Store whose records live for ttlWindow.
func NewStore(ttlWindow time.Duration) *Store {
	return &Store{
		records:   map[string]*Record{},
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// CreateIfNotExists records key as IN_PROGRESS unless a live record exists.
// Returns (true, nil) when created, (false, existing) otherwise.
func (s *Store) CreateIfNotExists(key, fingerprint string) (bool, *Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	if rec := s.live(key, now); rec != nil {
		cp := *rec
		return false, &cp
	}
	s.records[key] = &Record{
		Key:         key,
		Status:      StatusInProgress,
		Fingerprint: fingerprint,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttlWindow),
	}
	return true, nil
}

// Get returns a copy of the live record for key, or nil.
func (s *Store) Get(key string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.live(key, s.nowFunc())
	if rec == nil {
		return nil
	}
	cp := *rec
	return &cp
}

// MarkDone stores the response so later requests with key replay it.
func (s *Store) MarkDone(key string, status int, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.live(key, s.nowFunc())
	if rec == nil {
		return ErrUnknownKey
	}
	rec.Status = StatusDone
	rec.ResponseStatus = status
	rec.ResponseBody = append([]byte(nil), body...)
	rec.ContentType = contentType
	return nil
}

// MarkFailed forgets key so the client can retry it.
func (s *Store) MarkFailed(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
}

// live expects s.mu to be held; expired records are dropped on access.
func (s *Store) live(key string, now time.Time) *Record {
	rec, ok := s.records[key]
	if !ok {
		return nil
	}
	if !now.Before(rec.ExpiresAt) {
		delete(s.records, key)
		return nil
	}
	return rec
}
