package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ObjectKey is the structural fingerprint of a table.  Two keys are equal
// iff the schema name, table name, ordered field list (name, type,
// nullability per field), conflicting-schema markers, key descriptor, and
// value descriptor are all equal; this equality is the sole gate for
// reusing a cached plan that references the table.
//
// The zero ObjectKey is the "no key" sentinel returned for invalid
// tables; a plan that depends on one is never cacheable.
type ObjectKey struct {
	canonical string
	digest    uint64
}

// Valid reports whether k identifies a table; the zero key does not.
func (k ObjectKey) Valid() bool { return k.canonical != "" }

// Digest returns a 64-bit hash of the key for cheap map placement.
// Equality decisions must compare keys directly, never digests.
func (k ObjectKey) Digest() uint64 { return k.digest }

func (k ObjectKey) String() string {
	if !k.Valid() {
		return "none"
	}
	return fmt.Sprintf("%016x", k.digest)
}

// ObjectKey derives the table's fingerprint from a point-in-time view of
// its definition.  It is computed on demand and never cached on the
// Table, so a caller holding a live catalogue always sees live identity.
func (t *Table) ObjectKey() ObjectKey {
	if !t.Valid() {
		return ObjectKey{}
	}
	var b strings.Builder
	writeString(&b, t.schemaName)
	writeString(&b, t.name)
	fmt.Fprintf(&b, "%d;", len(t.fields))
	for _, f := range t.fields {
		writeString(&b, f.Name)
		fmt.Fprintf(&b, "%d,%t;", f.Type, f.Nullable)
	}
	// Conflict markers are a set; sort a copy for a stable encoding.
	conflicts := append([]string(nil), t.conflictingSchemas...)
	sort.Strings(conflicts)
	fmt.Fprintf(&b, "%d;", len(conflicts))
	for _, s := range conflicts {
		writeString(&b, s)
	}
	writeDescriptor(&b, t.keyDescriptor)
	writeDescriptor(&b, t.valueDescriptor)
	canonical := b.String()
	return ObjectKey{canonical: canonical, digest: xxhash.Sum64String(canonical)}
}

// writeString emits a length-prefixed string so that adjacent components
// can never run together and alias another table's encoding.
func writeString(b *strings.Builder, s string) {
	fmt.Fprintf(b, "%d:%s;", len(s), s)
}

func writeDescriptor(b *strings.Builder, d Descriptor) {
	writeString(b, d.Format)
	writeString(b, d.TypeName)
}
