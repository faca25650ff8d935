package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/chimera/internal/adapters/repository"
	"github.com/okian/chimera/internal/domain/breeding"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/model"
	"github.com/okian/chimera/pkg/logger"
	"github.com/okian/chimera/pkg/metrics"
)

// ErrParentNotFound is returned when a request names an unknown parent.
var ErrParentNotFound = errors.New("parent not found")

// Breeder runs a single breeding.
type Breeder interface {
	Breed(ctx context.Context, in breeding.Input) (breeding.Outcome, error)
}

// Board records discovery events.
type Board interface {
	Record(ctx context.Context, e discovery.Event) error
}

// Processor turns a breed request into a stored child, result and
// discoveries.
type Processor struct {
	breeder  Breeder
	profiles repository.ProfileStore
	results  repository.ResultStore
	board    Board
	now      func() time.Time
	logger   logger.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithClock sets the clock used for completion timestamps.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProcessor wires a processor to its stores.
func NewProcessor(b Breeder, profiles repository.ProfileStore, results repository.ResultStore, board Board, opts ...ProcessorOption) *Processor {
	p := &Processor{
		breeder:  b,
		profiles: profiles,
		results:  results,
		board:    board,
		now:      time.Now,
		logger:   logger.Get().Named("processor"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process runs one request. The final result is always stored, also on
// failure, and returned alongside any error.
func (p *Processor) Process(ctx context.Context, req Request) (model.BreedingResult, error) { //nolint:gocritic // hugeParam: Request is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordBreedingLatency(float64(time.Since(start).Milliseconds()))
	}()

	res := model.Pending(req)
	out, err := p.breed(ctx, req)
	res.CompletedAt = p.now().UTC()
	if err != nil {
		res.Status = model.StatusFailed
		res.Error = err.Error()
		metrics.RecordBreeding(metrics.OutcomeFailed)
		p.store(ctx, res)
		return res, err
	}

	res.Status = model.StatusCompleted
	res.ChildID = out.Child.LineageID
	res.Species = out.Child.Species
	res.Generation = out.Child.Generation
	res.Mutations = out.Mutations
	res.DiscoveryIDs = make([]string, 0, len(out.Events))
	for _, e := range out.Events {
		res.DiscoveryIDs = append(res.DiscoveryIDs, e.ID)
	}
	metrics.RecordBreeding(metrics.OutcomeCompleted)
	p.store(ctx, res)
	return res, nil
}

func (p *Processor) breed(ctx context.Context, req Request) (breeding.Outcome, error) { //nolint:gocritic // hugeParam
	a, err := p.profiles.Get(ctx, req.ParentA)
	if err != nil {
		return breeding.Outcome{}, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentA)
	}
	b, err := p.profiles.Get(ctx, req.ParentB)
	if err != nil {
		return breeding.Outcome{}, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentB)
	}

	out, err := p.breeder.Breed(ctx, breeding.Input{
		ParentA:      a,
		ParentB:      b,
		Seed:         req.Seed,
		MutationRate: req.MutationRate,
		ChildID:      genetics.KeyedID(req.RequestID),
		DiscovererID: req.DiscovererID,
		Location:     req.Location,
		Lineage:      LineageContext(ctx, p.profiles, a, b),
	})
	if err != nil {
		return breeding.Outcome{}, err
	}

	parents := repository.Parentage{ParentA: a.LineageID, ParentB: b.LineageID}
	if err := p.profiles.Put(ctx, out.Child, parents); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.RecordErrorByComponent("worker", "lineage_conflict")
		} else {
			metrics.RecordErrorByComponent("worker", "profile_store")
		}
		return breeding.Outcome{}, fmt.Errorf("store child: %w", err)
	}

	for _, m := range out.Mutations {
		metrics.RecordMutation(string(m.Type))
	}
	for _, e := range out.Events {
		if err := p.board.Record(ctx, e); err != nil {
			metrics.RecordErrorByComponent("worker", "discovery_board")
			p.logger.Error(ctx, "record discovery failed",
				logger.String("discovery_id", e.ID),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordDiscovery(string(e.Type), e.Rarity.String(), e.Significance())
		p.logger.Info(ctx, "discovery",
			logger.String("name", e.Name),
			logger.String("type", string(e.Type)),
			logger.String("rarity", e.Rarity.String()),
			logger.Float64("significance", e.Significance()),
			logger.Bool("world_first", e.IsWorldFirst),
		)
	}
	return out, nil
}

func (p *Processor) store(ctx context.Context, res model.BreedingResult) {
	if err := p.results.Put(ctx, res); err != nil {
		metrics.RecordErrorByComponent("worker", "result_store")
		p.logger.Error(ctx, "store result failed",
			logger.String("request_id", res.RequestID),
			logger.Error(err),
		)
	}
}
