package session

import (
	"context"
	"sync"
)

// Cache is the storage core behind the keyed stores. Implementations must be
// safe for concurrent use; distinct sessions may run in parallel.
type Cache[S any] interface {
	Set(ctx context.Context, key string, val S) error
	Get(ctx context.Context, key string) (S, bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MemoryCache is the in-memory core for tests and single-process usage.
type MemoryCache[S any] struct {
	mu sync.RWMutex
	m  map[string]S
}

func NewMemoryCache[S any]() *MemoryCache[S] {
	return &MemoryCache[S]{m: map[string]S{}}
}

func (m *MemoryCache[S]) Set(ctx context.Context, key string, val S) error {
	m.mu.Lock()
	m.m[key] = val
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	m.mu.RLock()
	val, ok := m.m[key]
	m.mu.RUnlock()
	return val, ok, nil
}

func (m *MemoryCache[S]) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.m, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.m[key]
	m.mu.RUnlock()
	return ok, nil
}

type sessionIDContext struct{}

// WithSessionID sets the routing key for keyed stores in the context.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDContext{}, id)
}

// SessionIDFromContext gets the routing key from the context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionIDContext{})
	if value == nil {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}

// Store namespaces a Cache and routes every call through the session key
// carried in the context.
type Store[S any] struct {
	core      Cache[S]
	namespace string
}

func NewStore[S any](core Cache[S], namespace string) Store[S] {
	return Store[S]{core: core, namespace: namespace}
}

func (c Store[S]) key(ctx context.Context) (string, bool) {
	id, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.namespace + ":" + id, true
}

func (c Store[S]) Set(ctx context.Context, val S) error {
	key, ok := c.key(ctx)
	if !ok {
		return ErrNoSessionID
	}
	return c.core.Set(ctx, key, val)
}

func (c Store[S]) Get(ctx context.Context) (S, bool, error) {
	key, ok := c.key(ctx)
	if !ok {
		var zero S
		return zero, false, ErrNoSessionID
	}
	return c.core.Get(ctx, key)
}

func (c Store[S]) Del(ctx context.Context) error {
	key, ok := c.key(ctx)
	if !ok {
		return ErrNoSessionID
	}
	return c.core.Del(ctx, key)
}

func (c Store[S]) Exists(ctx context.Context) (bool, error) {
	key, ok := c.key(ctx)
	if !ok {
		return false, ErrNoSessionID
	}
	return c.core.Exists(ctx, key)
}

const stateNamespace = "reserva:state"

// StateStore persists per-session turn state. A session that was never
// written reads back as a fresh State.
type StateStore struct {
	store Store[State]
}

func NewStateStore(core Cache[State]) *StateStore {
	return &StateStore{store: NewStore(core, stateNamespace)}
}

func NewMemoryStateStore() *StateStore {
	return NewStateStore(NewMemoryCache[State]())
}

func (s *StateStore) Read(ctx context.Context) (State, error) {
	st, ok, err := s.store.Get(ctx)
	if err != nil {
		return State{}, err
	}
	if !ok {
		return NewState(), nil
	}
	if st.Phase == "" {
		st.Phase = PhaseRouting
	}
	return st, nil
}

func (s *StateStore) Write(ctx context.Context, st State) error {
	if st.Phase == "" {
		st.Phase = PhaseRouting
	}
	return s.store.Set(ctx, st)
}

func (s *StateStore) Remove(ctx context.Context) error {
	return s.store.Del(ctx)
}
