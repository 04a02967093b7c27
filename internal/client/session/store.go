package session

import (
	"context"
	"sync"
)

// Store is the client's single source of session state. It is created at the
// application root and passed to whatever needs it.
type Store struct {
	kv KV

	// wmu serializes writes so subscribers observe them in order
	wmu sync.Mutex

	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, subs: map[int]func(Snapshot){}}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers fn for every later snapshot change. Callbacks run
// synchronously on the writing goroutine and must not write to the store.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Load reads the durable state and publishes the first defined snapshot.
// A read failure loads as logged out.
func (s *Store) Load(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	sess, err := s.kv.Load(ctx)
	if err != nil {
		sess = nil
	}
	s.publish(Snapshot{Loaded: true, Session: sess})
	return err
}

// Write persists sess and then publishes it.
func (s *Store) Write(ctx context.Context, sess Session) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.kv.Save(ctx, sess); err != nil {
		return err
	}
	s.publish(Snapshot{Loaded: true, Session: &sess})
	return nil
}

// Clear drops the session. The in-memory state is cleared even if the
// durable delete fails.
func (s *Store) Clear(ctx context.Context) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	err := s.kv.Clear(ctx)
	s.publish(Snapshot{Loaded: true})
	return err
}

func (s *Store) publish(next Snapshot) {
	s.mu.Lock()
	s.snap = next
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
