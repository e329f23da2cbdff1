package cart

import (
	"context"
	"sync"
)

// Store persists cart snapshots by key. Load of an unknown key returns an empty cart.
type Store interface {
	Load(ctx context.Context, key string) (*Cart, error)
	Save(ctx context.Context, key string, c *Cart) error
	Delete(ctx context.Context, key string) error
}

// UserKey is the cart key of an authenticated customer.
func UserKey(subject string) string {
	return "user:" + subject
}

// SessionKey is the cart key of a guest session.
func SessionKey(session string) string {
	return "session:" + session
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[key]
	s.mu.RUnlock()

	if !ok {
		return New(), nil
	}
	return decode(data)
}

func (s *MemoryStore) Save(ctx context.Context, key string, c *Cart) error {
	if c.IsEmpty() {
		return s.Delete(ctx, key)
	}

	data, err := encode(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[key] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
	return nil
}

// Locker serialises read-modify-write cycles per cart key.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates a keyed mutex.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free and returns the matching unlock function.
func (l *Locker) Lock(key string) func() {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Move merges the cart under from into the cart under to and deletes from.
// Lines present in both keep the larger quantity.
func Move(ctx context.Context, s Store, from, to string) error {
	src, err := s.Load(ctx, from)
	if err != nil {
		return err
	}
	if src.IsEmpty() {
		return nil
	}

	dst, err := s.Load(ctx, to)
	if err != nil {
		return err
	}
	dst.Merge(src)

	if err := s.Save(ctx, to, dst); err != nil {
		return err
	}
	return s.Delete(ctx, from)
}
