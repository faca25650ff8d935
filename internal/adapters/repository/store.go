// Package repository holds the in-memory stores of the breeding service:
// profiles with their parentage, breeding results and the ranked board of
// discoveries.
package repository

import (
	"context"

	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/model"
	"github.com/okian/chimera/internal/domain/types"
)

// Parentage links a profile to the two profiles it was bred from. Founders
// have none.
type Parentage struct {
	ParentA string `json:"parent_a,omitempty"`
	ParentB string `json:"parent_b,omitempty"`
}

// Founder reports whether the profile has no recorded parents.
func (p Parentage) Founder() bool {
	return p.ParentA == "" && p.ParentB == ""
}

// ProfileStore keeps genetic profiles by lineage ID.
type ProfileStore interface {
	// Put stores a profile and its parentage. A taken lineage ID fails with
	// ErrConflict and leaves the stored profile untouched.
	Put(ctx context.Context, p genetics.Profile, parents Parentage) error
	// Get returns a copy of the profile or ErrNotFound.
	Get(ctx context.Context, lineageID string) (genetics.Profile, error)
	// Parents returns the parentage or ErrNotFound.
	Parents(ctx context.Context, lineageID string) (Parentage, error)
	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}

// ResultStore keeps breeding results by request ID.
type ResultStore interface {
	Put(ctx context.Context, r model.BreedingResult) error
	// Get returns the result or ErrNotFound.
	Get(ctx context.Context, requestID string) (model.BreedingResult, error)
	// Delete forgets a result; unknown IDs are ignored.
	Delete(ctx context.Context, requestID string)
	Count(ctx context.Context) int
}

// Entry is a row of the discovery board.
type Entry = types.Entry

// DiscoveryBoard ranks discoveries by significance.
type DiscoveryBoard interface {
	// Record adds a discovery, replacing one with the same ID.
	Record(ctx context.Context, e discovery.Event) error

	// Get returns the stored event or ErrNotFound.
	Get(ctx context.Context, discoveryID string) (discovery.Event, error)

	// Rank returns the current rank of a discovery or ErrNotFound.
	Rank(ctx context.Context, discoveryID string) (Entry, error)

	// TopN returns the top-N entries ordered by significance desc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of ranked discoveries.
	Count(ctx context.Context) int
}
