package match

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chris-donut/donut-investor-pipe/internal/model"
	"github.com/chris-donut/donut-investor-pipe/internal/store"
)

// scoreConcurrency bounds the scoring worker count. Scoring is CPU-cheap,
// so the bound mostly keeps goroutine churn down on large batches.
const scoreConcurrency = 8

// ScoreAll scores every investor and returns results sorted by score
// descending. Ties keep the input order, so ranking is reproducible for a
// fixed clock and reference set.
func (e *Engine) ScoreAll(ctx context.Context, investors []model.Investor, p *model.Profile) ([]MatchResult, error) {
	results := make([]MatchResult, len(investors))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)
	for i := range investors {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = e.Score(&investors[i], p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "match: score batch")
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

// PersistReport summarizes a scoring run that was written back to the store.
type PersistReport struct {
	Scored    int
	Persisted int
	Failed    int
}

// Ranker scores the tracked investor set and writes scores back.
type Ranker struct {
	engine *Engine
	store  store.Store
}

// NewRanker creates a Ranker over the given engine and store.
func NewRanker(engine *Engine, st store.Store) *Ranker {
	return &Ranker{engine: engine, store: st}
}

// Rank loads every tracked investor and returns scored results, best first.
func (r *Ranker) Rank(ctx context.Context, p *model.Profile) ([]MatchResult, error) {
	investors, err := r.store.ListInvestors(ctx, store.InvestorFilter{})
	if err != nil {
		return nil, eris.Wrap(err, "match: load investors")
	}
	return r.engine.ScoreAll(ctx, investors, p)
}

// RunAndPersist scores all investors and writes each score back
// individually. A failed write is logged and counted but never aborts the
// batch; the scored results are returned either way.
func (r *Ranker) RunAndPersist(ctx context.Context, p *model.Profile) ([]MatchResult, PersistReport, error) {
	results, err := r.Rank(ctx, p)
	if err != nil {
		return nil, PersistReport{}, err
	}

	var failed atomic.Int64
	var wg sync.WaitGroup
	sem := make(chan struct{}, scoreConcurrency)
	for _, res := range results {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			if err := r.store.UpdateScore(ctx, res.Investor.ID, res.Score); err != nil {
				failed.Add(1)
				zap.L().Warn("score persist failed",
					zap.String("investor_id", res.Investor.ID),
					zap.String("investor", res.Investor.Name),
					zap.Error(err))
			}
		}()
	}
	wg.Wait()

	report := PersistReport{
		Scored:    len(results),
		Persisted: len(results) - int(failed.Load()),
		Failed:    int(failed.Load()),
	}
	return results, report, nil
}
