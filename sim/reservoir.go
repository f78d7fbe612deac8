package sim

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Uint32Source is the fast uniform generator consumed by the reservoir pass.
// *rand.Rand satisfies it.
type Uint32Source interface {
	Uint32() uint32
}

// Resampler selects population values with probability proportional to their
// weights using a single forward weighted-reservoir pass.
//
// Weights need not be normalized: the accept ratio weight/runningSum is
// invariant under scaling every weight by the same factor.
type Resampler struct {
	items []Item
}

// NewResampler validates the weights once so that every subsequent pass can
// run without checks.
func NewResampler(items []Item) (*Resampler, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPopulation
	}
	sum := 0.0
	for i := range items {
		w := items[i].Weight
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.Wrapf(ErrInvalidWeight, "item %d has weight %v", i, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, ErrZeroWeightSum
	}
	return &Resampler{items: items}, nil
}

// Select runs one reservoir pass and returns the chosen value.
//
// After k items, item i (i <= k) is held with probability w_i / sum_k: item k+1
// keeps the current choice with probability sum_k/sum_{k+1} and replaces it
// otherwise. One uniform draw is consumed per item.
func (r *Resampler) Select(src Uint32Source) float64 {
	selected := 0.0
	sum := 0.0
	for i := range r.items {
		w := r.items[i].Weight
		sum += w
		u := Uniform01(src)
		if sum > 0 && u < w/sum {
			selected = r.items[i].Value
		}
	}
	return selected
}

// SelectOne validates items and runs a single reservoir pass over them.
func SelectOne(items []Item, src Uint32Source) (float64, error) {
	r, err := NewResampler(items)
	if err != nil {
		return 0, err
	}
	return r.Select(src), nil
}

// Resample runs len(out) independent trials. Trials are split into contiguous
// ranges, one per stream; each worker owns its stream and its range of out, so
// no state is shared while the trials run. The result depends only on the
// streams' seeds and their count.
func (r *Resampler) Resample(ctx context.Context, trials int, streams []*rand.Rand) ([]float64, error) {
	if trials < 0 {
		return nil, errors.Errorf("trial count must be non-negative, got %d", trials)
	}
	if len(streams) == 0 {
		return nil, errors.New("at least one random stream is required")
	}
	out := make([]float64, trials)
	workers := len(streams)
	if workers > trials && trials > 0 {
		workers = trials
	}

	var done atomic.Int64
	lastDecile := atomic.Int64{}
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * trials / workers
		hi := (w + 1) * trials / workers
		rng := streams[w]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				out[i] = r.Select(rng)
				reportProgress(done.Add(1), int64(trials), &lastDecile)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "resampling interrupted")
	}
	return out, nil
}

// reportProgress logs at each completed tenth of the trials.
func reportProgress(done, total int64, lastDecile *atomic.Int64) {
	decile := done * 10 / total
	prev := lastDecile.Load()
	if decile > prev && lastDecile.CompareAndSwap(prev, decile) {
		logrus.Debugf("resampling %d%% (%d/%d trials)", decile*10, done, total)
	}
}
