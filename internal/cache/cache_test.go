package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region helpers
type lookupObserver struct {
	phi.NopObserver
	hits, misses atomic.Int64
}

func (o *lookupObserver) CacheLookup(hit bool) {
	if hit {
		o.hits.Add(1)
	} else {
		o.misses.Add(1)
	}
}

func makeKey(purview subset.Set) Key {
	return Key{Mechanism: subset.Of(0), Purview: purview, Direction: repertoire.Effect, State: 1}
}

// #endregion helpers

func TestGet_HitAfterMiss(t *testing.T) {
	obs := &lookupObserver{}
	c, err := New(4, obs)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	builds := 0
	build := func() (repertoire.Repertoire, error) {
		builds++
		return repertoire.Uniform(subset.Of(1), repertoire.Effect), nil
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Get(makeKey(subset.Of(1)), build); err != nil {
			t.Fatalf("get: %v", err)
		}
	}
	if builds != 1 {
		t.Fatalf("expected 1 build, got %d", builds)
	}
	if obs.hits.Load() != 2 || obs.misses.Load() != 1 {
		t.Fatalf("expected 2 hits / 1 miss, got %d / %d", obs.hits.Load(), obs.misses.Load())
	}
}

func TestGet_SingleFlight(t *testing.T) {
	c, _ := New(16, nil)
	var builds atomic.Int64
	release := make(chan struct{})
	build := func() (repertoire.Repertoire, error) {
		builds.Add(1)
		<-release
		return repertoire.Uniform(subset.Of(2), repertoire.Effect), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Get(makeKey(subset.Of(2)), build); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("expected a single build, got %d", builds.Load())
	}
}

func TestGet_EvictsLRU(t *testing.T) {
	c, _ := New(2, nil)
	build := func() (repertoire.Repertoire, error) { return repertoire.Uniform(0, repertoire.Effect), nil }
	for _, p := range []subset.Set{subset.Of(1), subset.Of(2), subset.Of(3)} {
		c.Get(makeKey(p), build)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatal("purge left entries behind")
	}
}

func TestGet_ErrorNotCached(t *testing.T) {
	c, _ := New(4, nil)
	boom := errors.New("boom")
	if _, err := c.Get(makeKey(subset.Of(1)), func() (repertoire.Repertoire, error) { return repertoire.Repertoire{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed build should not be cached")
	}
}

func TestDisabled(t *testing.T) {
	c, _ := New(0, nil)
	builds := 0
	build := func() (repertoire.Repertoire, error) {
		builds++
		return repertoire.Uniform(0, repertoire.Cause), nil
	}
	c.Get(makeKey(0), build)
	c.Get(makeKey(0), build)
	if builds != 2 || c.Len() != 0 {
		t.Fatalf("disabled cache should rebuild every time, builds=%d", builds)
	}
}
