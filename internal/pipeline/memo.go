package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mamadbah2/assetvista/internal/domain/models"
)

// DefaultCacheSize bounds the number of memoized group lists.
const DefaultCacheSize = 256

type groupKey struct {
	version uint64
	query   string
	view    string
	groupBy models.Field
	measure string
	order   GroupSort
	search  string
}

// Engine memoizes view results keyed on the collection version, the search
// query and the view definition. A new collection version never hits an
// older entry, so the cache needs no invalidation.
type Engine struct {
	cache  *lru.Cache[groupKey, []models.AggregatedGroup]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewEngine builds an engine holding at most size results.
func NewEngine(size int) (*Engine, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[groupKey, []models.AggregatedGroup](size)
	if err != nil {
		return nil, fmt.Errorf("create view cache: %w", err)
	}
	return &Engine{cache: cache}, nil
}

// Groups returns the view's groups for the given collection version. The
// returned slice is owned by the caller.
func (e *Engine) Groups(version uint64, records []models.AssetRecord, query string, v View) []models.AggregatedGroup {
	key := keyFor(version, query, v)
	if cached, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return slices.Clone(cached)
	}

	e.misses.Add(1)
	groups := v.Run(records, query)
	e.cache.Add(key, groups)
	return slices.Clone(groups)
}

// Stats reports cache hits and misses since creation.
func (e *Engine) Stats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

func keyFor(version uint64, query string, v View) groupKey {
	var order GroupSort
	if v.Order != nil {
		order = *v.Order
	}
	fields := make([]string, len(v.SearchFields))
	for i, f := range v.SearchFields {
		fields[i] = string(f)
	}
	return groupKey{
		version: version,
		query:   query,
		view:    v.Name,
		groupBy: v.GroupBy,
		measure: v.Measure.String(),
		order:   order,
		search:  strings.Join(fields, ","),
	}
}
