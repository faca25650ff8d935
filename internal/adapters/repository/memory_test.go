package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/model"
)

func TestMemoryProfileStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore()

	p := genetics.NewProfile([]genetics.Gene{
		genetics.NewGene("Strength", genetics.TraitPhysical, 0.7, 0.6),
	}, genetics.WithLineageID("child"), genetics.WithGeneration(2))

	if err := s.Put(ctx, p, Parentage{ParentA: "a", ParentB: "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := s.Count(ctx); n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}

	got, err := s.Get(ctx, "child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Generation != 2 || got.Len() != 1 {
		t.Errorf("unexpected profile %+v", got)
	}

	// Returned profiles are copies.
	g := got.Genes["Strength"]
	g.Value = 0
	got.Genes["Strength"] = g
	again, _ := s.Get(ctx, "child")
	if again.Genes["Strength"].Value != 0.7 {
		t.Errorf("store was mutated through a returned profile")
	}

	parents, err := s.Parents(ctx, "child")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parents.ParentA != "a" || parents.ParentB != "b" || parents.Founder() {
		t.Errorf("unexpected parentage %+v", parents)
	}

	// A taken ID is refused and the first profile survives.
	other := genetics.NewProfile([]genetics.Gene{
		genetics.NewGene("Agility", genetics.TraitPhysical, 0.2, 0.4),
	}, genetics.WithLineageID("child"), genetics.WithSpecies("Owl"))
	if err := s.Put(ctx, other, Parentage{}); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
	kept, _ := s.Get(ctx, "child")
	if _, ok := kept.Gene("Strength"); kept.Generation != 2 || kept.Species == "Owl" || !ok {
		t.Errorf("stored profile was replaced: %+v", kept)
	}
	if kept, _ := s.Parents(ctx, "child"); kept.ParentA != "a" {
		t.Errorf("stored parentage was replaced: %+v", kept)
	}
	if n := s.Count(ctx); n != 1 {
		t.Errorf("expected count 1 after conflict, got %d", n)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Parents(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.Put(ctx, genetics.Profile{}, Parentage{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
	if !(Parentage{}).Founder() {
		t.Errorf("empty parentage should be a founder")
	}
}

func TestMemoryResultStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryResultStore()

	req := model.BreedRequest{RequestID: "req-1", SubmittedAt: time.Now()}
	if err := s.Put(ctx, model.Pending(req)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	done := model.Pending(req)
	done.Status = model.StatusCompleted
	done.ChildID = "child"
	if err := s.Put(ctx, done); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != model.StatusCompleted || got.ChildID != "child" {
		t.Errorf("unexpected result %+v", got)
	}
	if n := s.Count(ctx); n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	s.Delete(ctx, "req-1")
	s.Delete(ctx, "never-stored")
	if n := s.Count(ctx); n != 0 {
		t.Errorf("expected count 0 after delete, got %d", n)
	}
	if err := s.Put(ctx, model.BreedingResult{}); !errors.Is(err, ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
}
