package phi

import (
	"context"
	"errors"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// TieTolerance is the score gap below which two partitions count as tied.
const TieTolerance = 1e-12

// #region search
// ScoreFunc returns the information lost by cutting along p.
type ScoreFunc func(p partition.Bipartition) (float64, error)

// SearchOptions configures one partition sweep.
type SearchOptions struct {
	Method   Method
	Parallel bool
	Observer Observer
	Started  time.Time
}

// Search scores every partition in order. Parallel sweeps write into an
// index-addressed buffer, so the returned slice matches the sequential order.
// The context is checked before each partition; cancellation or an expired
// deadline yields a Timeout error and no scores.
func Search(ctx context.Context, parts []partition.Bipartition, score ScoreFunc, opts SearchOptions) ([]PartitionScore, error) {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	if opts.Started.IsZero() {
		opts.Started = time.Now()
	}
	scores := make([]PartitionScore, len(parts))

	if !opts.Parallel || len(parts) < 2 {
		for i, p := range parts {
			if err := ctx.Err(); err != nil {
				return nil, timeoutError(err, opts.Started, i, len(parts))
			}
			v, err := score(p)
			if err != nil {
				return nil, err
			}
			scores[i] = PartitionScore{Partition: p, Phi: v}
			obs.PartitionEvaluated(opts.Method)
		}
		return scores, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range parts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := score(p)
			if err != nil {
				return err
			}
			scores[i] = PartitionScore{Partition: p, Phi: v}
			obs.PartitionEvaluated(opts.Method)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, timeoutError(err, opts.Started, -1, len(parts))
		}
		return nil, err
	}
	return scores, nil
}

func timeoutError(cause error, started time.Time, at, total int) error {
	elapsed := time.Since(started).Round(time.Microsecond)
	if at >= 0 {
		return phierr.New(phierr.Timeout, "%v after %s at partition %d of %d", cause, elapsed, at, total)
	}
	return phierr.New(phierr.Timeout, "%v after %s over %d partitions", cause, elapsed, total)
}

// #endregion search

// #region minimize
// Prefer reports whether a should win a tie against b.
type Prefer func(a, b PartitionScore) bool

// Minimize returns the index of the smallest score. Ties within TieTolerance
// keep the earlier entry unless prefer says otherwise. It returns -1 for no scores.
func Minimize(scores []PartitionScore, prefer Prefer) int {
	best := -1
	for i, s := range scores {
		if best < 0 {
			best = i
			continue
		}
		b := scores[best]
		switch {
		case s.Phi < b.Phi-TieTolerance:
			best = i
		case math.Abs(s.Phi-b.Phi) <= TieTolerance && prefer != nil && prefer(s, b):
			best = i
		}
	}
	return best
}

// Finish assembles a Result from ordered scores.
func Finish(scores []PartitionScore, prefer Prefer, method Method, started time.Time) Result {
	res := Result{Method: method, Scores: scores, PartitionsTried: len(scores)}
	if i := Minimize(scores, prefer); i >= 0 {
		mip := scores[i].Partition
		res.MIP = &mip
		res.Phi = math.Max(scores[i].Phi, 0)
	}
	res.Elapsed = time.Since(started)
	return res
}

// WithBudget derives a context bounded by cfg.Timeout, or a cancelable copy when unset.
func WithBudget(ctx context.Context, cfg Config) (context.Context, context.CancelFunc) {
	if cfg.Timeout > 0 {
		return context.WithTimeout(ctx, cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// #endregion minimize
