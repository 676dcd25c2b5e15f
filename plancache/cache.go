// Package plancache caches compiled plans by statement text and decides
// reuse purely by table identity: before serving a cached plan, every
// referenced table's object key is re-derived from the live catalogue and
// compared with the key recorded at compile time.  Any difference evicts
// the plan and recompiles.
package plancache

import (
	arc "github.com/hashicorp/golang-lru/arc/v2"
	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultSize = 1024

type Config struct {
	Size int
	// Registerer receives the cache's counters; nil disables metrics.
	Registerer prometheus.Registerer
	Logger     *zap.Logger
}

type Cache struct {
	compiler *compiler.Compiler
	resolver catalog.Resolver
	plans    *arc.ARCCache[string, *compiler.CompiledPlan]
	group    singleflight.Group
	logger   *zap.Logger

	hits          prometheus.Counter
	misses        prometheus.Counter
	invalidations prometheus.Counter
}

func New(c *compiler.Compiler, resolver catalog.Resolver, config Config) (*Cache, error) {
	size := config.Size
	if size <= 0 {
		size = DefaultSize
	}
	plans, err := arc.NewARC[string, *compiler.CompiledPlan](size)
	if err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cache := &Cache{
		compiler: c,
		resolver: resolver,
		plans:    plans,
		logger:   logger,
	}
	if reg := config.Registerer; reg != nil {
		cache.hits = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "plancache_hits_total",
			Help: "Cached plans served without recompilation.",
		})
		cache.misses = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "plancache_misses_total",
			Help: "Compilations triggered by cache misses.",
		})
		cache.invalidations = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "plancache_invalidations_total",
			Help: "Cached plans evicted because a table's object key changed.",
		})
	}
	return cache, nil
}

// Get returns a plan for the statement, reusing a cached one only if
// every referenced table's live object key still matches.  Concurrent
// requests for the same text share a single compilation.
func (c *Cache) Get(text string) (*compiler.CompiledPlan, error) {
	if plan, ok := c.plans.Get(text); ok {
		if c.valid(plan) {
			c.count(c.hits)
			return plan, nil
		}
		c.count(c.invalidations)
		c.plans.Remove(text)
		c.logger.Debug("invalidated cached plan",
			zap.String("plan_id", plan.ID.String()))
	}
	c.count(c.misses)
	v, err, _ := c.group.Do(text, func() (any, error) {
		plan, err := c.compiler.Compile(text)
		if err != nil {
			return nil, err
		}
		if plan.Cacheable() {
			c.plans.Add(text, plan)
		}
		return plan, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*compiler.CompiledPlan), nil
}

// Len returns the number of cached plans.
func (c *Cache) Len() int { return c.plans.Len() }

// Purge drops every cached plan.
func (c *Cache) Purge() { c.plans.Purge() }

// valid re-derives each referenced table's object key from the live
// catalogue.  A missing table, an invalid table, or any key difference
// invalidates the plan.
func (c *Cache) valid(plan *compiler.CompiledPlan) bool {
	for i, ref := range plan.Tables {
		table, err := c.resolver.Resolve([]string{ref.Schema}, ref.Name)
		if err != nil {
			return false
		}
		if table.ObjectKey() != plan.ObjectKeys[i] {
			return false
		}
	}
	return true
}

func (c *Cache) count(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}
