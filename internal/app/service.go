// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	breedqueue "github.com/okian/chimera/internal/adapters/mq/queue"
	workerpool "github.com/okian/chimera/internal/adapters/mq/worker"
	repository "github.com/okian/chimera/internal/adapters/repository"
	"github.com/okian/chimera/internal/config"
	"github.com/okian/chimera/internal/domain/breeding"
	"github.com/okian/chimera/internal/domain/dedupe"
	"github.com/okian/chimera/internal/domain/discovery"
	"github.com/okian/chimera/internal/domain/genetics"
	"github.com/okian/chimera/internal/domain/inheritance"
	"github.com/okian/chimera/internal/domain/model"
	"github.com/okian/chimera/internal/domain/mutation"
	"github.com/okian/chimera/internal/domain/types"
	"github.com/okian/chimera/pkg/logger"
	"github.com/okian/chimera/pkg/metrics"
)

// Service implements the API dependencies for the breeding lab.
type Service struct {
	mu sync.RWMutex

	// Core components
	profiles *repository.MemoryProfileStore
	results  *repository.MemoryResultStore
	board    *repository.TreapBoard
	deduper  dedupe.Deduper
	queue    breedqueue.Queue
	breeder  *breeding.Breeder
	pool     *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	species     map[string][]genetics.Gene
	now         func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the breeding queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBreeder replaces the breeding pipeline.
func WithBreeder(b *breeding.Breeder) Option {
	return func(s *Service) {
		if b != nil {
			s.breeder = b
		}
	}
}

// WithSpecies sets the founding species templates.
func WithSpecies(species map[string][]genetics.Gene) Option {
	return func(s *Service) {
		if len(species) > 0 {
			s.species = species
		}
	}
}

// WithClock sets the clock used to stamp submissions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithConfig applies every service and pipeline setting from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		WithWorkerCount(cfg.WorkerCount)(s)
		WithQueueSize(cfg.QueueSize)(s)
		WithDedupeSize(cfg.DedupeSize)(s)
		WithBreeder(NewBreeder(cfg))(s)
		WithSpecies(speciesFrom(cfg))(s)
	}
}

func speciesFrom(cfg *config.Config) map[string][]genetics.Gene {
	species := make(map[string][]genetics.Gene, len(cfg.Species))
	for name := range cfg.Species {
		genes, _ := cfg.Template(name)
		species[name] = genes
	}
	return species
}

// NewBreeder builds the breeding pipeline described by cfg.
func NewBreeder(cfg *config.Config) *breeding.Breeder {
	dist, _ := mutation.ParseDistribution(cfg.MutationDistribution)
	return breeding.NewBreeder(
		breeding.WithCombiner(inheritance.NewCombiner(
			inheritance.WithBlendVariance(cfg.BlendVariance),
			inheritance.WithCarrierDilution(cfg.CarrierDilution),
			inheritance.WithEnhancedThreshold(cfg.EnhancedThreshold),
			inheritance.WithSuppressedThreshold(cfg.SuppressedThreshold),
		)),
		breeding.WithMutator(mutation.NewMutator(
			mutation.WithRate(cfg.MutationRate),
			mutation.WithMaxMagnitude(cfg.MutationMaxMagnitude),
			mutation.WithDistribution(dist),
		)),
		breeding.WithDetector(discovery.NewDetector(
			discovery.WithRareMutationThreshold(cfg.RareMutationThreshold),
			discovery.WithLegendaryGeneration(cfg.LegendaryGeneration),
		)),
	)
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  100_000,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.breeder == nil {
		s.breeder = breeding.NewBreeder()
	}
	if s.species == nil {
		s.species = speciesFrom(config.New())
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting breeding service...")

	s.profiles = repository.NewMemoryProfileStore()
	s.results = repository.NewMemoryResultStore()
	s.board = repository.NewTreapBoard(ctx)
	s.queue = breedqueue.NewInMemoryQueue(
		breedqueue.WithCapacity(s.queueSize),
		breedqueue.WithBufferSize(s.queueSize),
	)

	proc := workerpool.NewProcessor(s.breeder, s.profiles, s.results, s.board)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, proc)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "breeding service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("species", len(s.species)),
	)
	return nil
}

// Stop gracefully shuts down the service. Queued requests are drained
// before the workers exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping breeding service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	_ = s.board.Close()

	s.started = false
	s.logger.Info(ctx, "breeding service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordBreedingDuplicate()
	}
	return seen
}

// Unrecord removes a request ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	return s.deduper.Size()
}

// Enqueue submits a breeding for asynchronous processing and records it as
// pending. Returns false on backpressure or when the service is stopped.
func (s *Service) Enqueue(ctx context.Context, req model.BreedRequest) bool { //nolint:gocritic // hugeParam: request is copied onto the queue
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false
	}

	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = s.now().UTC()
	}

	// pending must be visible before a worker can complete it
	if err := s.results.Put(ctx, model.Pending(req)); err != nil {
		s.logger.Warn(ctx, "rejecting breed request", logger.Error(err))
		return false
	}
	if err := s.queue.TryEnqueue(ctx, req); err != nil {
		s.results.Delete(ctx, req.RequestID)
		s.logger.Warn(ctx, "breed request refused",
			logger.String("request_id", req.RequestID),
			logger.Error(err),
		)
		return false
	}
	s.logger.Debug(ctx, "enqueued breed request",
		logger.String("request_id", req.RequestID),
		logger.String("parent_a", req.ParentA),
		logger.String("parent_b", req.ParentB),
	)
	return true
}

// Species lists the founding species names in order.
func (s *Service) Species() []string {
	names := make([]string, 0, len(s.species))
	for name := range s.species {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateFounder stores a generation zero profile of a configured species
// under a fresh lineage ID.
func (s *Service) CreateFounder(ctx context.Context, species string) (genetics.Profile, error) {
	tmpl, ok := s.species[species]
	if !ok {
		return genetics.Profile{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, species)
	}
	profiles, err := s.profileStore()
	if err != nil {
		return genetics.Profile{}, err
	}

	p := breeding.NewFounder(species, tmpl)
	if err := profiles.Put(ctx, p, repository.Parentage{}); err != nil {
		return genetics.Profile{}, fmt.Errorf("store founder: %w", err)
	}
	s.logger.Info(ctx, "founder created",
		logger.String("species", species),
		logger.String("lineage_id", p.LineageID),
	)
	return p, nil
}

// Breeding returns the state of a submitted request.
func (s *Service) Breeding(ctx context.Context, requestID string) (model.BreedingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.BreedingResult{}, ErrNotStarted
	}
	return s.results.Get(ctx, requestID)
}

// Profile returns a stored profile with its derived stats.
func (s *Service) Profile(ctx context.Context, lineageID string) (types.ProfileReport, error) {
	profiles, err := s.profileStore()
	if err != nil {
		return types.ProfileReport{}, err
	}
	p, err := profiles.Get(ctx, lineageID)
	if err != nil {
		return types.ProfileReport{}, err
	}
	parents, err := profiles.Parents(ctx, lineageID)
	if err != nil {
		return types.ProfileReport{}, err
	}
	return types.NewProfileReport(p, parents.ParentA, parents.ParentB), nil
}

// TopN returns the top N discoveries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	board, err := s.discoveryBoard()
	if err != nil {
		return nil, err
	}
	return board.TopN(ctx, n)
}

// Rank returns the board entry of a discovery.
func (s *Service) Rank(ctx context.Context, discoveryID string) (types.Entry, error) {
	board, err := s.discoveryBoard()
	if err != nil {
		return types.Entry{}, err
	}
	return board.Rank(ctx, discoveryID)
}

// Discovery returns a recorded discovery event.
func (s *Service) Discovery(ctx context.Context, discoveryID string) (discovery.Event, error) {
	board, err := s.discoveryBoard()
	if err != nil {
		return discovery.Event{}, err
	}
	return board.Get(ctx, discoveryID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"species":     s.Species(),
	}

	if s.started {
		ledger := s.breeder.Detector().Ledger()
		profiles := s.profiles.Count(ctx)
		discoveries := s.board.Count(ctx)

		stats["queueLength"] = s.queue.Len(ctx)
		stats["activeWorkers"] = s.pool.Active()
		stats["profiles"] = profiles
		stats["breedings"] = s.results.Count(ctx)
		stats["discoveries"] = discoveries
		stats["ledgerEntries"] = ledger.Size()
		stats["discoverers"] = ledger.Discoverers()
		stats["seenRequests"] = s.deduper.Size()

		metrics.UpdateProfileCount(profiles)
		metrics.UpdateRankedDiscoveries(discoveries)
	}

	return stats
}

func (s *Service) profileStore() (*repository.MemoryProfileStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.profiles, nil
}

func (s *Service) discoveryBoard() (*repository.TreapBoard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.board, nil
}
