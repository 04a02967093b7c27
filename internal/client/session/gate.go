package session

import "sync"

type Status int

const (
	Undetermined Status = iota
	Authenticated
	Unauthenticated
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "undetermined"
	}
}

type Outcome int

const (
	RenderPlaceholder Outcome = iota
	RenderContent
	Redirect
)

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// Decision is what a protected view does for a given status.
type Decision struct {
	Outcome  Outcome
	Location string
	Replace  bool
}

// Decide maps a status to a decision. It has no side effects.
func Decide(status Status) Decision {
	switch status {
	case Authenticated:
		return Decision{Outcome: RenderContent}
	case Unauthenticated:
		return Decision{Outcome: Redirect, Location: LoginPath, Replace: true}
	default:
		return Decision{Outcome: RenderPlaceholder}
	}
}

func statusOf(s Snapshot) Status {
	switch {
	case !s.Loaded:
		return Undetermined
	case s.Authenticated():
		return Authenticated
	default:
		return Unauthenticated
	}
}

// Gate guards one mounted protected view. It stays Undetermined until the
// store publishes its first loaded snapshot, then tracks the store.
type Gate struct {
	store *Store

	mu       sync.Mutex
	resolved bool
	unsub    func()
	ready    chan struct{}
	once     sync.Once
}

// Mount attaches a gate to store.
func Mount(store *Store) *Gate {
	g := &Gate{store: store, ready: make(chan struct{})}
	g.unsub = store.Subscribe(g.observe)
	// the store may have loaded before we subscribed
	g.observe(store.Snapshot())
	return g
}

func (g *Gate) observe(s Snapshot) {
	if !s.Loaded {
		return
	}
	g.once.Do(func() {
		g.mu.Lock()
		g.resolved = true
		g.mu.Unlock()
		close(g.ready)
	})
}

// Ready is closed once the gate has resolved.
func (g *Gate) Ready() <-chan struct{} { return g.ready }

func (g *Gate) Status() Status {
	g.mu.Lock()
	resolved := g.resolved
	g.mu.Unlock()
	if !resolved {
		return Undetermined
	}
	if st := statusOf(g.store.Snapshot()); st != Undetermined {
		return st
	}
	return Unauthenticated
}

// Render decides what the view shows right now.
func (g *Gate) Render() Decision {
	return Decide(g.Status())
}

// Unmount detaches the gate from its store.
func (g *Gate) Unmount() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
