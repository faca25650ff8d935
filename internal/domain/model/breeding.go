// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/chimera/internal/domain/genetics"
)

// BreedRequest is a breeding submitted by a client.
type BreedRequest struct {
	RequestID    string   // unique id for idempotency
	ParentA      string   // lineage id of the first parent
	ParentB      string   // lineage id of the second parent
	DiscovererID string   // who gets credit for discoveries
	Location     string   // optional place of the breeding
	Seed         uint64   // zero picks a random seed
	MutationRate *float64 // overrides the configured rate when set
	SubmittedAt  time.Time
}

// Status is the lifecycle state of a breeding request.
type Status string

// Request states.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// BreedingResult is what a client can look up by request ID.
type BreedingResult struct {
	RequestID    string              `json:"request_id"`
	Status       Status              `json:"status"`
	ChildID      string              `json:"child_id,omitempty"`
	Species      string              `json:"species,omitempty"`
	Generation   int                 `json:"generation,omitempty"`
	Mutations    []genetics.Mutation `json:"mutations,omitempty"`
	DiscoveryIDs []string            `json:"discovery_ids,omitempty"`
	Error        string              `json:"error,omitempty"`
	SubmittedAt  time.Time           `json:"submitted_at"`
	CompletedAt  time.Time           `json:"completed_at,omitzero"`
}

// Pending builds the initial result for a request.
func Pending(req BreedRequest) BreedingResult {
	return BreedingResult{
		RequestID:   req.RequestID,
		Status:      StatusPending,
		SubmittedAt: req.SubmittedAt,
	}
}

// Done reports whether the request reached a final state.
func (r BreedingResult) Done() bool {
	return r.Status == StatusCompleted || r.Status == StatusFailed
}
