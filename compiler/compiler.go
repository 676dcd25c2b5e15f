// Package compiler turns SQL text into a validated, optimized logical
// plan, sequencing parse, feature-gate validation, semantic validation,
// logical conversion, and heuristic optimization in strict order.
package compiler

import (
	"github.com/keeldb/keel/catalog"
	"github.com/keeldb/keel/compiler/convert"
	"github.com/keeldb/keel/compiler/gate"
	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/optimizer"
	"github.com/keeldb/keel/compiler/parser"
	"github.com/keeldb/keel/compiler/semantic"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"
)

// CompiledPlan is the result of one successful compilation.  ObjectKeys
// holds the fingerprint of every table the plan references, aligned with
// Tables; a plan cache must re-derive each table's live key and compare
// before reusing the plan.
type CompiledPlan struct {
	ID         ksuid.KSUID
	Text       string
	Plan       logical.Seq
	Columns    []semantic.Column
	Tables     []catalog.Ref
	ObjectKeys []catalog.ObjectKey
}

// Cacheable reports whether every referenced table had a valid object key
// at compile time.  A plan over an invalid table must recompile every
// time.
func (p *CompiledPlan) Cacheable() bool {
	for _, key := range p.ObjectKeys {
		if !key.Valid() {
			return false
		}
	}
	return true
}

type Compiler struct {
	resolver      catalog.Resolver
	parserConfig  parser.Config
	convertConfig convert.Config
	optimizer     *optimizer.Optimizer
	logger        *zap.Logger
}

type Option func(*Compiler)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithRules overrides the registered optimizer rule list, preserving the
// caller's order.
func WithRules(rules []optimizer.Rule) Option {
	return func(c *Compiler) { c.optimizer = optimizer.NewWithRules(rules) }
}

// New returns a compiler over the given catalogue.  The compiler is
// stateless across calls and safe for unlimited concurrent use.
func New(resolver catalog.Resolver, opts ...Option) *Compiler {
	c := &Compiler{
		resolver:      resolver,
		parserConfig:  parser.DefaultConfig(),
		convertConfig: convert.DefaultConfig(),
		optimizer:     optimizer.New(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile runs the full pipeline on one statement.  Each stage's failure
// is terminal: the first diagnostic is returned verbatim and nothing is
// retried.  The catalogue is snapshotted once, when semantic validation
// begins; the snapshot cannot be affected by concurrent catalogue
// changes.
func (c *Compiler) Compile(text string) (*CompiledPlan, error) {
	parsed, err := parser.ParseStatement(text, c.parserConfig)
	if err != nil {
		return nil, err
	}
	if err := gate.Check(parsed.Statement()); err != nil {
		return nil, err
	}
	resolver := c.resolver
	if s, ok := resolver.(catalog.Snapshotter); ok {
		resolver = s.Snapshot()
	}
	stmt, tables, err := semantic.Analyze(parsed.Statement(), resolver)
	if err != nil {
		return nil, err
	}
	seq, err := convert.Convert(stmt, c.convertConfig)
	if err != nil {
		return nil, err
	}
	seq, err = c.optimizer.Optimize(seq)
	if err != nil {
		return nil, err
	}
	plan := &CompiledPlan{
		ID:      ksuid.New(),
		Text:    text,
		Plan:    seq,
		Columns: stmt.Columns,
	}
	for _, t := range tables {
		plan.Tables = append(plan.Tables, t.Ref())
		plan.ObjectKeys = append(plan.ObjectKeys, t.ObjectKey())
	}
	c.logger.Debug("compiled statement",
		zap.String("plan_id", plan.ID.String()),
		zap.Int("tables", len(plan.Tables)),
		zap.Int("ops", len(seq)))
	return plan, nil
}
