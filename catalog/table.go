// Package catalog models the tables visible to the compiler and their
// structural identity used to validate cached plans.
package catalog

import "github.com/keeldb/keel/sqltype"

// Field is one column of a table.  Field order is significant: two tables
// with the same fields in different orders have different identities.
type Field struct {
	Name     string
	Type     sqltype.ID
	Nullable bool
}

// Statistics carries the table size estimate consumed by optimization.
type Statistics struct {
	RowCount int64
}

// Descriptor identifies how a table's backing keys or values are decoded
// into fields, e.g. {"json", ""} or {"record", "com.acme.Trade"}.  Two
// tables with different descriptors must never share a cached plan even
// when their field lists agree.
type Descriptor struct {
	Format   string
	TypeName string
}

// Table is an immutable snapshot of one catalogue table.  A catalogue
// update always produces a new Table; nothing mutates one in place.
//
// A Table is either valid, with a full definition, or invalid, carrying
// only the error encountered while assembling its definition (for
// example, an inconsistent cluster-wide view of its schema).  An invalid
// Table still resolves by name so that the error surfaces as a semantic
// diagnostic rather than "not found".
type Table struct {
	schemaName         string
	name               string
	fields             []Field
	stats              Statistics
	keyDescriptor      Descriptor
	valueDescriptor    Descriptor
	conflictingSchemas []string
	err                error
}

func New(schemaName, name string, fields []Field, stats Statistics, keyDesc, valDesc Descriptor) *Table {
	return &Table{
		schemaName:      schemaName,
		name:            name,
		fields:          fields,
		stats:           stats,
		keyDescriptor:   keyDesc,
		valueDescriptor: valDesc,
	}
}

func NewInvalid(schemaName, name string, err error) *Table {
	return &Table{schemaName: schemaName, name: name, err: err}
}

// WithConflictingSchemas returns a copy of t marked as also proposed by
// the given other schemas.  The markers participate in the object key: a
// plan compiled while a name conflict existed must not survive its
// resolution.
func (t *Table) WithConflictingSchemas(schemas ...string) *Table {
	c := *t
	c.conflictingSchemas = schemas
	return &c
}

func (t *Table) SchemaName() string          { return t.schemaName }
func (t *Table) Name() string                { return t.name }
func (t *Table) Statistics() Statistics      { return t.stats }
func (t *Table) KeyDescriptor() Descriptor   { return t.keyDescriptor }
func (t *Table) ValueDescriptor() Descriptor { return t.valueDescriptor }

// Valid reports whether the table's definition was obtainable.
func (t *Table) Valid() bool { return t.err == nil }

// Err returns the compilation error stored on an invalid table.
func (t *Table) Err() error { return t.err }

// Fields returns the ordered field list.  Callers must not modify it.
func (t *Table) Fields() []Field { return t.fields }

// FieldIndex returns the position of the named field, or -1.
func (t *Table) FieldIndex(name string) int {
	for i, f := range t.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Ref identifies a table by name, independent of its definition.
type Ref struct {
	Schema string
	Name   string
}

func (t *Table) Ref() Ref { return Ref{Schema: t.schemaName, Name: t.name} }
