package strangles

import (
	"runtime"
	"sync"

	"github.com/edgewalker/edgewalker/src/eventmodels"
)

// SearchBackend finds the candidate minimizing the normalized breakeven
// difference over the call/put cartesian product. Backends must be
// numerically equivalent; the parallel backend exists for large universes
// where chains run to thousands of contracts per side.
type SearchBackend interface {
	FindMinSpread(calls, puts []eventmodels.CleanedContract, cfg SearchConfig) (*eventmodels.StrangleCandidate, int)
}

// ReferenceBackend is the plain single-goroutine search. It is the default
// and the definition of correct behavior.
type ReferenceBackend struct{}

func (ReferenceBackend) FindMinSpread(calls, puts []eventmodels.CleanedContract, cfg SearchConfig) (*eventmodels.StrangleCandidate, int) {
	return scanRange(calls, puts, cfg)
}

// ParallelBackend shards the call list across workers. Shards are merged in
// ascending order with a strictly-better comparison, so the result is
// identical to the reference backend for every tie-break policy.
type ParallelBackend struct {
	Workers int
}

func (b ParallelBackend) FindMinSpread(calls, puts []eventmodels.CleanedContract, cfg SearchConfig) (*eventmodels.StrangleCandidate, int) {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers > len(calls) {
		workers = len(calls)
	}

	if workers <= 1 {
		return scanRange(calls, puts, cfg)
	}

	type shardResult struct {
		best          *eventmodels.StrangleCandidate
		numConsidered int
	}

	results := make([]shardResult, workers)
	chunkSize := (len(calls) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > len(calls) {
			end = len(calls)
		}

		if start >= end {
			continue
		}

		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			best, numConsidered := scanRange(calls[start:end], puts, cfg)
			results[w] = shardResult{best: best, numConsidered: numConsidered}
		}(w, start, end)
	}

	wg.Wait()

	var best *eventmodels.StrangleCandidate
	numConsidered := 0

	for _, r := range results {
		numConsidered += r.numConsidered
		if r.best == nil {
			continue
		}

		if best == nil || cfg.TieBreak.better(r.best, best) {
			best = r.best
		}
	}

	return best, numConsidered
}

func scanRange(calls, puts []eventmodels.CleanedContract, cfg SearchConfig) (*eventmodels.StrangleCandidate, int) {
	var best *eventmodels.StrangleCandidate
	numConsidered := 0

	for i := range calls {
		for j := range puts {
			if cfg.ForceCoupledExpirations && !calls[i].Expiration.Equal(puts[j].Expiration) {
				continue
			}

			numConsidered++

			candidate := newCandidate(calls[i], puts[j], cfg.FeePerContractLeg)
			if best == nil || cfg.TieBreak.better(&candidate, best) {
				c := candidate
				best = &c
			}
		}
	}

	return best, numConsidered
}
