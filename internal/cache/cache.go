// Package cache memoizes repertoires per system with bounded LRU eviction.
// Concurrent misses on the same key are collapsed into a single build.
package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region key
// Key identifies a repertoire within one system. Digest covers the TPM and the
// effective connectivity, so cut systems never collide with the intact one.
type Key struct {
	Mechanism subset.Set
	Purview   subset.Set
	Direction repertoire.Direction
	State     uint32
	Digest    [32]byte
}

func (k Key) flight() string {
	return fmt.Sprintf("%d/%d/%d/%d/%x", k.Mechanism, k.Purview, k.Direction, k.State, k.Digest)
}

// #endregion key

// #region cache
// Repertoires is a concurrent repertoire cache. Cached values are shared and must not be mutated.
type Repertoires struct {
	entries *lru.Cache[Key, repertoire.Repertoire]
	group   singleflight.Group
	obs     phi.Observer
}

// New returns a cache holding at most size repertoires. A size of 0 disables caching.
func New(size int, obs phi.Observer) (*Repertoires, error) {
	if obs == nil {
		obs = phi.NopObserver{}
	}
	c := &Repertoires{obs: obs}
	if size > 0 {
		entries, err := lru.New[Key, repertoire.Repertoire](size)
		if err != nil {
			return nil, fmt.Errorf("new lru: %w", err)
		}
		c.entries = entries
	}
	return c, nil
}

// Get returns the cached repertoire for key, building it once on a miss.
func (c *Repertoires) Get(key Key, build func() (repertoire.Repertoire, error)) (repertoire.Repertoire, error) {
	if c == nil || c.entries == nil {
		return build()
	}
	if r, ok := c.entries.Get(key); ok {
		c.obs.CacheLookup(true)
		return r, nil
	}
	c.obs.CacheLookup(false)
	v, err, _ := c.group.Do(key.flight(), func() (any, error) {
		if r, ok := c.entries.Get(key); ok {
			return r, nil
		}
		r, err := build()
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, r)
		return r, nil
	})
	if err != nil {
		return repertoire.Repertoire{}, err
	}
	return v.(repertoire.Repertoire), nil
}

// Len returns the number of cached repertoires.
func (c *Repertoires) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every entry.
func (c *Repertoires) Purge() {
	if c != nil && c.entries != nil {
		c.entries.Purge()
	}
}

// #endregion cache
