package ast

import "strings"

// Kind classifies a call operator.  Every operator the parser can emit has
// a Kind; operators with no special meaning to validation are KindOther
// and are identified by their display name alone.
type Kind int

const (
	KindOther Kind = iota

	// Predicates
	KindAnd
	KindOr
	KindNot

	// Arithmetic
	KindPlus
	KindMinus
	KindTimes
	KindDivide
	KindMinusPrefix
	KindPlusPrefix

	// "IS" predicates
	KindIsTrue
	KindIsNotTrue
	KindIsFalse
	KindIsNotFalse
	KindIsNull
	KindIsNotNull

	// Comparisons
	KindEquals
	KindNotEquals
	KindLessThan
	KindGreaterThan
	KindGreaterThanOrEqual
	KindLessThanOrEqual

	// Miscellaneous
	KindAs
	KindCast
	KindSelect

	// Parsed but outside the supported dialect.
	KindLike
	KindBetween
	KindIn
	KindConcat
	KindModulo
	KindInterval
	KindFunction
)

// Op identifies a call's operator.  Name is the operator's display name
// and is the basis for diagnostics about unrecognized operators; internal
// operator names carry a "$" prefix and underscores, which diagnostics
// strip.
type Op struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// DisplayName returns the operator name as shown to users: dollar signs
// stripped and underscores replaced with spaces.
func (o Op) DisplayName() string {
	name := strings.ReplaceAll(o.Name, "$", "")
	return strings.ReplaceAll(name, "_", " ")
}
