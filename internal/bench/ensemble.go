package bench

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/san-kum/glyphswarm/internal/config"
)

// Ensemble repeats one bench over consecutive seeds in parallel. Each run
// owns its engine; nothing is shared between goroutines but the inputs.
type Ensemble struct {
	cfg       *config.Config
	opts      Options
	numRuns   int
	seedStart int64
}

func NewEnsemble(cfg *config.Config, opts Options, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{cfg: cfg, opts: opts, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = Run(ctx, &cfgCopy, e.opts)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Stat summarises one metric across runs. NaN values are left out.
type Stat struct {
	Name      string
	Mean, Std float64
	Min, Max  float64
	N         int
}

func Aggregate(results []*Result) []Stat {
	byName := map[string][]float64{}
	for _, r := range results {
		for k, v := range r.Metrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			byName[k] = append(byName[k], v)
		}
	}

	names := make([]string, 0, len(byName))
	for k := range byName {
		names = append(names, k)
	}
	sort.Strings(names)

	stats := make([]Stat, 0, len(names))
	for _, name := range names {
		vs := byName[name]
		st := Stat{Name: name, Min: vs[0], Max: vs[0], N: len(vs)}
		sum := 0.0
		for _, v := range vs {
			sum += v
			st.Min = math.Min(st.Min, v)
			st.Max = math.Max(st.Max, v)
		}
		st.Mean = sum / float64(len(vs))
		for _, v := range vs {
			st.Std += (v - st.Mean) * (v - st.Mean)
		}
		st.Std = math.Sqrt(st.Std / float64(len(vs)))
		stats = append(stats, st)
	}
	return stats
}
