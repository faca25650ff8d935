package discovery

import "sync"

// Ledger remembers which discoveries have been made, world-wide and per
// discoverer. It is safe for concurrent use.
type Ledger struct {
	mu           sync.Mutex
	world        map[ledgerKey]struct{}
	byDiscoverer map[string]map[ledgerKey]struct{}
}

type ledgerKey struct {
	kind Type
	key  string
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		world:        make(map[ledgerKey]struct{}),
		byDiscoverer: make(map[string]map[ledgerKey]struct{}),
	}
}

// Observe records that discovererID made the (kind, key) discovery and
// reports whether it is new to them and new to the world. A world first is
// always a first time as well.
func (l *Ledger) Observe(kind Type, key, discovererID string) (firstTime, worldFirst bool) {
	k := ledgerKey{kind: kind, key: key}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.world[k]; !ok {
		l.world[k] = struct{}{}
		worldFirst = true
	}

	seen, ok := l.byDiscoverer[discovererID]
	if !ok {
		seen = make(map[ledgerKey]struct{})
		l.byDiscoverer[discovererID] = seen
	}
	if _, ok := seen[k]; !ok {
		seen[k] = struct{}{}
		firstTime = true
	}
	return firstTime, worldFirst
}

// Seen reports whether anyone has made the (kind, key) discovery.
func (l *Ledger) Seen(kind Type, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.world[ledgerKey{kind: kind, key: key}]
	return ok
}

// Size returns the number of distinct world discoveries.
func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.world)
}

// Discoverers returns the number of distinct discoverers recorded.
func (l *Ledger) Discoverers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.byDiscoverer)
}
