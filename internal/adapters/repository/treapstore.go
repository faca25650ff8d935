package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/pkg/metrics"
)

// Treap-based, in-memory DiscoveryBoard implementation.
//
// Ordering: significance DESC, then discovery ID ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the board from
// most to least significant.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled >= float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled <= float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// record stores the fixed-point score plus the event it ranks.
type record struct {
	score scoreFP
	event discovery.Event
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, id string, score scoreFP, prio uint64) *node {
	if n == nil {
		return &node{id: id, score: score, prio: prio, size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		// Rotate the higher-priority child up until the node is a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// walk visits nodes in rank order until visit returns false.
func walk(n *node, visit func(*node) bool) bool {
	if n == nil {
		return true
	}
	if !walk(n.left, visit) {
		return false
	}
	if !visit(n) {
		return false
	}
	return walk(n.right, visit)
}

// TreapBoard ranks discoveries in a treap keyed by significance.
type TreapBoard struct {
	mu   sync.RWMutex
	root *node
	byID map[string]record

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewTreapBoard constructs a board and starts its metrics updater, which
// stops when ctx is done or Close is called.
func NewTreapBoard(ctx context.Context, opts ...Option) *TreapBoard {
	b := &TreapBoard{
		metricsUpdateInterval: 5 * time.Second,
		byID:                  make(map[string]record),
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.startMetricsUpdater(ctx)
	return b
}

// Close stops the background metrics updater.
func (b *TreapBoard) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.wg.Wait()
	return nil
}

// Record adds or replaces a discovery in O(log n) expected time.
func (b *TreapBoard) Record(_ context.Context, e discovery.Event) error {
	if e.ID == "" {
		metrics.RecordErrorByComponent("repository", "empty_id")
		return ErrEmptyID
	}
	score := toFixedPoint(e.Significance())

	b.mu.Lock()
	if old, ok := b.byID[e.ID]; ok {
		b.root = deleteNode(b.root, e.ID, old.score)
	}
	b.byID[e.ID] = record{score: score, event: e}
	b.root = insert(b.root, e.ID, score, rand.Uint64())
	b.mu.Unlock()
	return nil
}

// Get returns the stored discovery event.
func (b *TreapBoard) Get(_ context.Context, discoveryID string) (discovery.Event, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.byID[discoveryID]
	if !ok {
		return discovery.Event{}, ErrNotFound
	}
	return rec.event, nil
}

// Rank walks the board up to the discovery, counting distinct scores so
// that equal significance shares a rank.
func (b *TreapBoard) Rank(_ context.Context, discoveryID string) (Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	target, ok := b.byID[discoveryID]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}

	rank := 0
	var prev scoreFP
	walk(b.root, func(n *node) bool {
		if rank == 0 || n.score != prev {
			rank++
			prev = n.score
		}
		return n.score != target.score
	})

	e := entryFor(target)
	e.Rank = rank
	return e, nil
}

// TopN returns the top N entries ordered by significance desc.
func (b *TreapBoard) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, 0, min(n, len(b.byID)))
	walk(b.root, func(nd *node) bool {
		out = append(out, entryFor(b.byID[nd.id]))
		return len(out) < n
	})
	assignRanksWithTies(out)
	return out, nil
}

// Count returns the total number of ranked discoveries.
func (b *TreapBoard) Count(_ context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byID)
}

func (b *TreapBoard) startMetricsUpdater(ctx context.Context) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ticker := time.NewTicker(b.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-b.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateRankedDiscoveries(b.Count(ctx))
			}
		}
	}()
}

func entryFor(rec record) Entry {
	return Entry{
		DiscoveryID:  rec.event.ID,
		Name:         rec.event.Name,
		Type:         rec.event.Type,
		Rarity:       rec.event.Rarity,
		Significance: toFloat(rec.score),
		ProfileID:    rec.event.ProfileID,
		DiscovererID: rec.event.DiscovererID,
		IsWorldFirst: rec.event.IsWorldFirst,
	}
}

// assignRanksWithTies gives equal significance the same rank; the next
// distinct significance takes the next consecutive rank.
func assignRanksWithTies(entries []Entry) {
	currentRank := 0
	for i := range entries {
		if i == 0 || entries[i].Significance != entries[i-1].Significance {
			currentRank++
		}
		entries[i].Rank = currentRank
	}
}
