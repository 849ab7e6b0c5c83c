package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/kmorrow/shopkeep/internal/catalog"
)

// Cache keys. Product pages share the ProductsPrefix so a single invalidation
// covers every cached page.
const (
	ProductsPrefix = "products/"
	CategoriesKey  = "categories"
)

// ProductsKey returns the cache key for one page of products.
func ProductsKey(page int) string {
	return ProductsPrefix + strconv.Itoa(page)
}

const (
	defaultFreshFor = 5 * time.Minute
	defaultRetries  = 2
)

// Status reports a key's state for rendering. Errored is set only after the
// retry budget is exhausted; a stale value may still accompany it.
type Status struct {
	HasValue  bool
	Loading   bool
	Errored   bool
	FetchedAt time.Time
}

type entry struct {
	value      any
	hasValue   bool
	fetchedAt  time.Time
	stale      bool
	errored    bool
	inFlight   int
	generation uint64
}

// Options configure a Store.
type Options struct {
	FreshFor time.Duration // zero uses the 5 minute default
	Retries  int           // additional attempts after the first; zero uses default
	Logger   logrus.FieldLogger
}

// Store is the keyed cache of server resources. Reads are stale-while-
// revalidate: within the freshness window the cached value is served without
// network; beyond it (or after invalidation) a fetch runs with a bounded
// retry budget while any prior value remains available for display.
type Store struct {
	api      catalog.API
	freshFor time.Duration
	retries  int
	log      logrus.FieldLogger

	mu      sync.RWMutex
	entries map[string]*entry
	group   singleflight.Group
}

// New builds a Store reading through the given API.
func New(api catalog.API, opts Options) *Store {
	freshFor := opts.FreshFor
	if freshFor <= 0 {
		freshFor = defaultFreshFor
	}
	retries := opts.Retries
	if retries <= 0 {
		retries = defaultRetries
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		api:      api,
		freshFor: freshFor,
		retries:  retries,
		log:      log,
		entries:  make(map[string]*entry),
	}
}

// Products reads one page of products through the cache.
func (s *Store) Products(ctx context.Context, page int) ([]catalog.Product, error) {
	if page < 1 {
		page = 1
	}
	v, err := s.read(ctx, ProductsKey(page), func(ctx context.Context) (any, error) {
		return s.api.ListProducts(ctx, page)
	})
	if err != nil {
		return nil, err
	}
	products, _ := v.([]catalog.Product)
	return cloneProducts(products), nil
}

// Categories reads the category set through the cache.
func (s *Store) Categories(ctx context.Context) ([]catalog.Category, error) {
	v, err := s.read(ctx, CategoriesKey, func(ctx context.Context) (any, error) {
		return s.api.ListCategories(ctx)
	})
	if err != nil {
		return nil, err
	}
	categories, _ := v.([]catalog.Category)
	return cloneCategories(categories), nil
}

// ProductsSnapshot returns the cached page and its status without touching
// the network.
func (s *Store) ProductsSnapshot(page int) ([]catalog.Product, Status) {
	v, st := s.snapshot(ProductsKey(page))
	products, _ := v.([]catalog.Product)
	return cloneProducts(products), st
}

// CategoriesSnapshot returns the cached category set and its status without
// touching the network.
func (s *Store) CategoriesSnapshot() ([]catalog.Category, Status) {
	v, st := s.snapshot(CategoriesKey)
	categories, _ := v.([]catalog.Category)
	return cloneCategories(categories), st
}

// Invalidate marks every entry whose key matches the prefix as stale. The
// next read refetches regardless of freshness, and any fetch already in
// flight for those keys resolves into the void rather than overwriting
// fresher state.
func (s *Store) Invalidate(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		e.stale = true
		e.generation++
	}
	s.log.WithField("prefix", prefix).Debug("cache invalidated")
}

// read serves the cached value when fresh, otherwise fetches with the retry
// budget. Concurrent readers of the same key share one in-flight fetch.
func (s *Store) read(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	if ok && e.hasValue && !e.stale && time.Since(e.fetchedAt) < s.freshFor {
		v := e.value
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	gen := s.beginFetch(key)

	v, err, _ := s.group.Do(key, func() (any, error) {
		var lastErr error
		for attempt := 0; attempt <= s.retries; attempt++ {
			v, err := fetch(ctx)
			if err == nil {
				return v, nil
			}
			lastErr = err
			s.log.WithError(err).WithFields(logrus.Fields{
				"key":     key,
				"attempt": attempt + 1,
			}).Warn("cache fetch failed")
		}
		return nil, lastErr
	})

	return s.finishFetch(key, gen, v, err)
}

// beginFetch marks the key loading and records the generation the fetch
// belongs to.
func (s *Store) beginFetch(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	e.inFlight++
	return e.generation
}

// finishFetch stores the result unless the entry moved on to a newer
// generation while the fetch was in flight. On failure the last good value
// is preserved and served.
func (s *Store) finishFetch(key string, gen uint64, v any, err error) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return v, err
	}
	e.inFlight--

	if e.generation != gen {
		// Superseded by an invalidation; report what we have but leave the
		// entry for the next read to refresh.
		if e.hasValue {
			return e.value, nil
		}
		return v, err
	}

	if err != nil {
		e.errored = true
		if e.hasValue {
			return e.value, nil
		}
		return nil, err
	}

	e.value = v
	e.hasValue = true
	e.fetchedAt = time.Now()
	e.stale = false
	e.errored = false
	return v, nil
}

func (s *Store) snapshot(key string) (any, Status) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, Status{}
	}
	return e.value, Status{
		HasValue:  e.hasValue,
		Loading:   e.inFlight > 0,
		Errored:   e.errored,
		FetchedAt: e.fetchedAt,
	}
}

func cloneProducts(items []catalog.Product) []catalog.Product {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Product, len(items))
	copy(dup, items)
	return dup
}

func cloneCategories(items []catalog.Category) []catalog.Category {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Category, len(items))
	copy(dup, items)
	return dup
}
