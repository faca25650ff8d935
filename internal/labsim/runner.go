package labsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/okian/chimera/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Errors returned by Run.
var (
	ErrNoSpecies        = errors.New("service reports no species")
	ErrTooFewFounders   = errors.New("need at least two founders per lab")
	ErrBreedingTimedOut = errors.New("breeding did not complete")
)

const pcgStream = 0x9e3779b97f4a7c15

type breedRequest struct {
	RequestID    string `json:"request_id"`
	ParentA      string `json:"parent_a"`
	ParentB      string `json:"parent_b"`
	DiscovererID string `json:"discoverer_id"`
	Location     string `json:"location,omitempty"`
	Seed         uint64 `json:"seed"`
}

type ack struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type breedingResult struct {
	Status       string   `json:"status"`
	ChildID      string   `json:"child_id"`
	Generation   int      `json:"generation"`
	DiscoveryIDs []string `json:"discovery_ids"`
	Error        string   `json:"error"`
}

type job struct {
	lab int
	req breedRequest
}

// Run executes a full simulation against cfg.BaseURL.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	log := logger.Get().Named("labsim")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^pcgStream))

	log.Info(ctx, "starting lab simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("labs", cfg.Labs),
		logger.Int("generations", cfg.Generations),
		logger.Int("workers", cfg.Workers),
		logger.Uint64("seed", cfg.Seed))

	if _, err := client.getJSON(ctx, "/healthz", nil); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	species, err := fetchSpecies(ctx, client)
	if err != nil {
		return nil, err
	}

	report := &Report{
		BaseURL:     cfg.BaseURL,
		Labs:        cfg.Labs,
		Generations: cfg.Generations,
		PerLab:      make(map[string]int, cfg.Labs),
	}

	pools, err := seedFounders(ctx, cfg, client, species)
	if err != nil {
		return nil, fmt.Errorf("founder creation failed: %w", err)
	}
	for _, p := range pools {
		report.Founders += len(p)
	}

	for gen := 1; gen <= cfg.Generations; gen++ {
		if err := runRound(ctx, cfg, client, rng, pools, report); err != nil {
			return nil, fmt.Errorf("round %d failed: %w", gen, err)
		}
		log.Info(ctx, "round completed",
			logger.Int("round", gen),
			logger.Int("completed", report.Completed),
			logger.Int("discoveries", report.Discoveries))
	}

	var board []Entry
	if _, err := client.getJSON(ctx, fmt.Sprintf("/discoveries?limit=%d", cfg.TopN), &board); err != nil {
		return nil, fmt.Errorf("board retrieval failed: %w", err)
	}
	if err := verifyBoard(board); err != nil {
		return nil, fmt.Errorf("board verification failed: %w", err)
	}
	report.Top = board
	report.Significance = summarize(board)
	report.Duration = time.Since(start).Round(time.Millisecond).String()

	log.Info(ctx, "lab simulation completed",
		logger.Int("submitted", report.Submitted),
		logger.Int("failed", report.Failed),
		logger.Int("discoveries", report.Discoveries),
		logger.String("duration", report.Duration))
	return report, nil
}

func labName(i int) string { return fmt.Sprintf("lab-%02d", i+1) }

func fetchSpecies(ctx context.Context, c *httpClient) ([]string, error) {
	var st struct {
		Species []string `json:"species"`
	}
	if _, err := c.getJSON(ctx, "/stats", &st); err != nil {
		return nil, fmt.Errorf("stats retrieval failed: %w", err)
	}
	if len(st.Species) == 0 {
		return nil, ErrNoSpecies
	}
	return st.Species, nil
}

// seedFounders gives every lab its own founders of each species.
func seedFounders(ctx context.Context, cfg Config, c *httpClient, species []string) ([][]string, error) {
	if len(species)*cfg.FoundersPerSpecies < 2 {
		return nil, ErrTooFewFounders
	}

	type founderJob struct {
		lab, slot int
		species   string
	}
	var jobs []founderJob
	pools := make([][]string, cfg.Labs)
	for lab := range pools {
		pools[lab] = make([]string, len(species)*cfg.FoundersPerSpecies)
		slot := 0
		for _, sp := range species {
			for range cfg.FoundersPerSpecies {
				jobs = append(jobs, founderJob{lab: lab, slot: slot, species: sp})
				slot++
			}
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			var p struct {
				LineageID string `json:"lineage_id"`
			}
			body := map[string]any{"species": j.species}
			if _, err := c.postJSON(gctx, "/founders", body, &p); err != nil {
				return err
			}
			// each job owns its slot
			pools[j.lab][j.slot] = p.LineageID
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pools, nil
}

// runRound submits one round of breedings for every lab and adds the
// children to the lab pools once the round is done.
func runRound(ctx context.Context, cfg Config, c *httpClient, rng *rand.Rand, pools [][]string, report *Report) error {
	jobs := make([]job, 0, cfg.Labs*cfg.BreedingsPerRound)
	for lab, pool := range pools {
		for range cfg.BreedingsPerRound {
			a := rng.IntN(len(pool))
			b := rng.IntN(len(pool) - 1)
			if b >= a {
				b++
			}
			jobs = append(jobs, job{lab: lab, req: breedRequest{
				RequestID:    uuid.NewString(),
				ParentA:      pool[a],
				ParentB:      pool[b],
				DiscovererID: labName(lab),
				Location:     "sim",
				Seed:         rng.Uint64(),
			}})
		}
	}

	var mu sync.Mutex
	children := make([][]string, len(pools))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, j := range jobs {
		g.Go(func() error {
			res, dup, err := breed(gctx, c, cfg.PollInterval, j.req)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			report.Submitted++
			if dup {
				report.Duplicates++
			}
			switch res.Status {
			case "completed":
				report.Completed++
				report.Discoveries += len(res.DiscoveryIDs)
				report.PerLab[labName(j.lab)] += len(res.DiscoveryIDs)
				report.MaxGeneration = max(report.MaxGeneration, res.Generation)
				children[j.lab] = append(children[j.lab], res.ChildID)
			default:
				report.Failed++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for lab := range pools {
		pools[lab] = append(pools[lab], children[lab]...)
	}
	return nil
}

// breed submits req, retrying on backpressure, and polls until the
// breeding reaches a final state.
func breed(ctx context.Context, c *httpClient, poll time.Duration, req breedRequest) (breedingResult, bool, error) {
	var a ack
	for {
		code, err := c.postJSON(ctx, "/breedings", req, &a)
		if err == nil {
			break
		}
		if code != http.StatusTooManyRequests {
			return breedingResult{}, false, err
		}
		if err := sleep(ctx, poll); err != nil {
			return breedingResult{}, false, err
		}
	}

	var res breedingResult
	for {
		if _, err := c.getJSON(ctx, "/breedings/"+req.RequestID, &res); err != nil {
			return res, a.Duplicate, err
		}
		if res.Status != "pending" {
			return res, a.Duplicate, nil
		}
		if err := sleep(ctx, poll); err != nil {
			return res, a.Duplicate, fmt.Errorf("%w: %s: %w", ErrBreedingTimedOut, req.RequestID, err)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func summarize(board []Entry) Summary {
	if len(board) == 0 {
		return Summary{}
	}
	data := make(stats.Float64Data, len(board))
	for i, e := range board {
		data[i] = e.Significance
	}
	mean, _ := data.Mean()
	median, _ := data.Median()
	maxSig, _ := data.Max()
	return Summary{Mean: mean, Median: median, Max: maxSig}
}
