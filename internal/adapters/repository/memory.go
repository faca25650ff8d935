package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/model"
	"github.com/okian/chimera/pkg/metrics"
)

type profileRecord struct {
	profile genetics.Profile
	parents Parentage
}

// MemoryProfileStore is a map-backed ProfileStore.
type MemoryProfileStore struct {
	mu   sync.RWMutex
	byID map[string]profileRecord
}

// NewMemoryProfileStore returns an empty profile store.
func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{byID: make(map[string]profileRecord)}
}

// Put stores a copy of p under a new lineage ID.
func (s *MemoryProfileStore) Put(_ context.Context, p genetics.Profile, parents Parentage) error {
	if p.LineageID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	if _, taken := s.byID[p.LineageID]; taken {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrConflict, p.LineageID)
	}
	s.byID[p.LineageID] = profileRecord{profile: p.Clone(), parents: parents}
	n := len(s.byID)
	s.mu.Unlock()

	metrics.UpdateProfileCount(n)
	return nil
}

// Get returns a copy of the stored profile.
func (s *MemoryProfileStore) Get(_ context.Context, lineageID string) (genetics.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[lineageID]
	if !ok {
		return genetics.Profile{}, ErrNotFound
	}
	return rec.profile.Clone(), nil
}

// Parents returns the recorded parentage.
func (s *MemoryProfileStore) Parents(_ context.Context, lineageID string) (Parentage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[lineageID]
	if !ok {
		return Parentage{}, ErrNotFound
	}
	return rec.parents, nil
}

// Count returns the number of stored profiles.
func (s *MemoryProfileStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// MemoryResultStore is a map-backed ResultStore.
type MemoryResultStore struct {
	mu   sync.RWMutex
	byID map[string]model.BreedingResult
}

// NewMemoryResultStore returns an empty result store.
func NewMemoryResultStore() *MemoryResultStore {
	return &MemoryResultStore{byID: make(map[string]model.BreedingResult)}
}

// Put stores r, replacing any earlier state of the same request.
func (s *MemoryResultStore) Put(_ context.Context, r model.BreedingResult) error {
	if r.RequestID == "" {
		return ErrEmptyID
	}
	s.mu.Lock()
	s.byID[r.RequestID] = r
	s.mu.Unlock()
	return nil
}

// Get returns the result for requestID.
func (s *MemoryResultStore) Get(_ context.Context, requestID string) (model.BreedingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[requestID]
	if !ok {
		return model.BreedingResult{}, ErrNotFound
	}
	return r, nil
}

// Delete removes the result for requestID.
func (s *MemoryResultStore) Delete(_ context.Context, requestID string) {
	s.mu.Lock()
	delete(s.byID, requestID)
	s.mu.Unlock()
}

// Count returns the number of stored results.
func (s *MemoryResultStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
