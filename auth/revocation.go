package auth

import (
	"context"
	"sync"
	"time"
)

// RevocationList records token ids (jti) that must no longer be accepted.
// Entries only need to live until the token would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationList keeps revocations in process memory.
// Suitable for a single instance; use the Redis list when running several.
type MemoryRevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty in-memory revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks jti as revoked until the given time
func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	now := l.now()
	if !until.After(now) {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, exp := range l.entries {
		if !exp.After(now) {
			delete(l.entries, id)
		}
	}
	l.entries[jti] = until
	return nil
}

// IsRevoked reports whether jti is currently revoked
func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	until, ok := l.entries[jti]
	l.mu.RUnlock()
	return ok && until.After(l.now()), nil
}

// Len returns the number of tracked entries, including ones not yet pruned
func (l *MemoryRevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
