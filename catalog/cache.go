package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/logger"
	"golang.org/x/sync/singleflight"
)

// Fetcher loads the full problem catalog from upstream.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]cfdomain.Problem, error)
}

const problemsetKey = "problemset"

// snapshotRetryTTL bounds how long a catalog restored from a snapshot is
// served before the upstream is asked again.
const snapshotRetryTTL = 5 * time.Minute

// refreshTimeout bounds a shared refresh, which outlives the caller that
// started it.
const refreshTimeout = 2 * time.Minute

// Cache holds the problem catalog for a fixed TTL. Reads of a fresh entry
// never block; a stale or missing entry is refreshed once no matter how many
// callers ask for it at the same time. Published entries are never mutated,
// a refresh replaces the whole entry.
type Cache struct {
	fetcher Fetcher
	store   SnapshotStore
	ttl     time.Duration
	now     func() time.Time

	items   *cache.Cache
	sfGroup singleflight.Group
}

type entry struct {
	problems  []cfdomain.Problem
	byID      map[cfdomain.ProblemID]int
	fetchedAt time.Time
	source    string
}

type Option func(*Cache)

func WithSnapshotStore(store SnapshotStore) Option {
	return func(c *Cache) { c.store = store }
}

func withClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func NewCache(fetcher Fetcher, ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		items:   cache.New(ttl, 2*ttl),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Problems returns the cached catalog, refreshing it first if it is stale.
func (c *Cache) Problems(ctx context.Context) ([]cfdomain.Problem, error) {
	e, err := c.get(ctx)
	if err != nil {
		return nil, err
	}
	return e.problems, nil
}

// Lookup finds a single problem in the catalog.
func (c *Cache) Lookup(ctx context.Context, id cfdomain.ProblemID) (cfdomain.Problem, bool, error) {
	e, err := c.get(ctx)
	if err != nil {
		return cfdomain.Problem{}, false, err
	}
	i, ok := e.byID[id]
	if !ok {
		return cfdomain.Problem{}, false, nil
	}
	return e.problems[i], true, nil
}

// Warm fills the cache ahead of the first request.
func (c *Cache) Warm(ctx context.Context) error {
	e, err := c.refresh(ctx)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("problem catalog cached",
		"problems", len(e.problems), "source", e.source)
	return nil
}

type State struct {
	Cached    bool      `json:"cached"`
	Problems  int       `json:"problems"`
	Source    string    `json:"source,omitempty"`
	FetchedAt time.Time `json:"fetched_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

func (c *Cache) State() State {
	v, exp, found := c.items.GetWithExpiration(problemsetKey)
	if !found {
		return State{}
	}
	e := v.(*entry)
	return State{
		Cached:    true,
		Problems:  len(e.problems),
		Source:    e.source,
		FetchedAt: e.fetchedAt,
		ExpiresAt: exp,
	}
}

func (c *Cache) get(ctx context.Context) (*entry, error) {
	if e, ok := c.cached(); ok {
		return e, nil
	}
	return c.refresh(ctx)
}

func (c *Cache) cached() (*entry, bool) {
	v, found := c.items.Get(problemsetKey)
	if !found {
		return nil, false
	}
	return v.(*entry), true
}

// refresh joins the in-flight load or starts one. The load runs detached from
// ctx so a caller that gives up does not fail the others waiting on it.
func (c *Cache) refresh(ctx context.Context) (*entry, error) {
	ch := c.sfGroup.DoChan(problemsetKey, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()
		return c.load(loadCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*entry), nil
	}
}

func (c *Cache) load(ctx context.Context) (*entry, error) {
	log := logger.FromContext(ctx)

	problems, fetchErr := c.fetcher.FetchCatalog(ctx)
	if fetchErr == nil {
		e := newEntry(problems, c.now(), "upstream")
		c.items.Set(problemsetKey, e, c.ttl)
		c.saveSnapshot(ctx, e)
		return e, nil
	}

	if c.store == nil {
		return nil, fmt.Errorf("failed to fetch problem catalog: %w", fetchErr)
	}

	log.Warn("problem catalog fetch failed, trying snapshot", "error", fetchErr)
	e, snapErr := c.loadSnapshot(ctx)
	if snapErr != nil {
		return nil, fmt.Errorf("failed to fetch problem catalog: %w",
			errors.Join(fetchErr, snapErr))
	}
	c.items.Set(problemsetKey, e, min(c.ttl, snapshotRetryTTL))
	return e, nil
}

func (c *Cache) saveSnapshot(ctx context.Context, e *entry) {
	if c.store == nil {
		return
	}
	data, err := encodeSnapshot(e.problems, e.fetchedAt)
	if err == nil {
		err = c.store.Save(ctx, data)
	}
	if err != nil {
		logger.FromContext(ctx).Warn("failed to save problem catalog snapshot", "error", err)
	}
}

func (c *Cache) loadSnapshot(ctx context.Context) (*entry, error) {
	data, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	problems, fetchedAt, err := decodeSnapshot(data)
	if err != nil {
		return nil, err
	}
	return newEntry(problems, fetchedAt, "snapshot"), nil
}

func newEntry(problems []cfdomain.Problem, fetchedAt time.Time, source string) *entry {
	byID := make(map[cfdomain.ProblemID]int, len(problems))
	for i, p := range problems {
		if _, dup := byID[p.ID()]; !dup {
			byID[p.ID()] = i
		}
	}
	return &entry{problems: problems, byID: byID, fetchedAt: fetchedAt, source: source}
}
