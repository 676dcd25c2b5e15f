package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// DefaultSchema is searched when a table reference carries no schema
// qualifier.
const DefaultSchema = "public"

var ErrNotFound = errors.New("table not found")

// Resolver resolves a table reference against some catalogue view.  An
// empty schemaPath means the default schema.  A resolver returns
// ErrNotFound for unknown names; an invalid table resolves normally and
// carries its error on the Table itself.
type Resolver interface {
	Resolve(schemaPath []string, name string) (*Table, error)
}

// Snapshotter is implemented by resolvers that can produce an immutable
// point-in-time view.  The compiler snapshots once at the start of
// semantic validation so a concurrent catalogue change cannot affect an
// in-flight compilation.
type Snapshotter interface {
	Snapshot() Resolver
}

// Lister is implemented by resolvers that can enumerate table names,
// enabling near-miss suggestions in diagnostics.
type Lister interface {
	TableNames() []string
}

// Store is a concurrency-safe in-memory catalogue.  Tables are immutable;
// Put replaces the entry wholesale.
type Store struct {
	mu     sync.RWMutex
	tables map[Ref]*Table
}

func NewStore() *Store {
	return &Store{tables: make(map[Ref]*Table)}
}

func (s *Store) Put(t *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Ref()] = t
}

func (s *Store) Remove(schema, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, Ref{Schema: schema, Name: name})
}

func (s *Store) Resolve(schemaPath []string, name string) (*Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve(s.tables, schemaPath, name)
}

func (s *Store) TableNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tableNames(s.tables)
}

// Snapshot returns an immutable view of the current catalogue contents.
func (s *Store) Snapshot() Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tables := make(map[Ref]*Table, len(s.tables))
	for ref, t := range s.tables {
		tables[ref] = t
	}
	return &snapshot{tables: tables}
}

type snapshot struct {
	tables map[Ref]*Table
}

func (s *snapshot) Resolve(schemaPath []string, name string) (*Table, error) {
	return resolve(s.tables, schemaPath, name)
}

func (s *snapshot) TableNames() []string {
	return tableNames(s.tables)
}

func resolve(tables map[Ref]*Table, schemaPath []string, name string) (*Table, error) {
	if len(schemaPath) == 0 {
		schemaPath = []string{DefaultSchema}
	}
	for _, schema := range schemaPath {
		if t, ok := tables[Ref{Schema: schema, Name: name}]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
}

func tableNames(tables map[Ref]*Table) []string {
	names := make([]string, 0, len(tables))
	for ref := range tables {
		names = append(names, ref.Name)
	}
	sort.Strings(names)
	return names
}
