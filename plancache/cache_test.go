package plancache_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler"
	"github.com/keeldb/keel/compiler/gate"
	"github.com/keeldb/keel/plancache"
	"github.com/keeldb/keel/sqltype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tradesTable(priceType sqltype.ID) *catalog.Table {
	return catalog.New("public", "trades",
		[]catalog.Field{
			{Name: "id", Type: sqltype.BigInt},
			{Name: "price", Type: priceType, Nullable: true},
		},
		catalog.Statistics{},
		catalog.Descriptor{Format: "json"},
		catalog.Descriptor{Format: "json"})
}

func newCache(t *testing.T, store *catalog.Store, config plancache.Config) *plancache.Cache {
	t.Helper()
	cache, err := plancache.New(compiler.New(store), store, config)
	require.NoError(t, err)
	return cache
}

func TestCacheHit(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	reg := prometheus.NewRegistry()
	cache := newCache(t, store, plancache.Config{Registerer: reg})

	first, err := cache.Get("select id from trades")
	require.NoError(t, err)
	second, err := cache.Get("select id from trades")
	require.NoError(t, err)

	// Same compilation served twice: plan identifiers match.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, cache.Len())

	expected := `
# HELP plancache_hits_total Cached plans served without recompilation.
# TYPE plancache_hits_total counter
plancache_hits_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "plancache_hits_total"))
}

func TestCacheMissPerStatement(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{})

	a, err := cache.Get("select id from trades")
	require.NoError(t, err)
	b, err := cache.Get("select price from trades")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, cache.Len())
}

// A table definition change flips its object key, so the cached plan is
// evicted and the statement recompiles against the new definition.
func TestCacheInvalidation(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{})

	before, err := cache.Get("select price from trades")
	require.NoError(t, err)
	assert.Equal(t, sqltype.Double, before.Columns[0].Expr.Type())

	store.Put(tradesTable(sqltype.Decimal))

	after, err := cache.Get("select price from trades")
	require.NoError(t, err)
	assert.NotEqual(t, before.ID, after.ID)
	assert.Equal(t, sqltype.Decimal, after.Columns[0].Expr.Type())
	assert.NotEqual(t, before.ObjectKeys[0], after.ObjectKeys[0])
}

func TestCacheInvalidationOnDroppedTable(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{})

	_, err := cache.Get("select id from trades")
	require.NoError(t, err)

	store.Remove("public", "trades")

	_, err = cache.Get("select id from trades")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

// Plans over an invalid table are never cached: the table has no object
// key, so validity could not be checked on a later lookup.
func TestCacheSkipsInvalidTables(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	store.Put(catalog.NewInvalid("public", "broken", errors.New("schemas differ across members")))
	cache := newCache(t, store, plancache.Config{})

	_, err := cache.Get("select x from broken")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheErrorsNotCached(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{})

	_, err := cache.Get("select id from trades limit 1")
	var unsupported *gate.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, 0, cache.Len())
}

func TestCachePurge(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{Size: 4})

	_, err := cache.Get("select id from trades")
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())
	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentGets(t *testing.T) {
	store := catalog.NewStore()
	store.Put(tradesTable(sqltype.Double))
	cache := newCache(t, store, plancache.Config{})

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for i := 0; i < 50; i++ {
				if _, err := cache.Get("select id, price from trades"); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, 1, cache.Len())
}
