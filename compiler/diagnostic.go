package compiler

import (
	"errors"

	"github.com/keeldb/keel/compiler/convert"
	"github.com/keeldb/keel/compiler/gate"
	"github.com/keeldb/keel/compiler/optimizer"
	"github.com/keeldb/keel/compiler/parser"
	"github.com/keeldb/keel/compiler/semantic"
	"github.com/keeldb/keel/compiler/srcloc"
)

// Stage identifies the pipeline stage a diagnostic came from.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StageSemantic Stage = "semantic"
	StageConvert  Stage = "convert"
	StageOptimize Stage = "optimize"
)

// Diagnostic is the uniform view of a failed compilation: the stage, the
// source span when one is known, and the message.  A compilation produces
// exactly one.
type Diagnostic struct {
	Stage Stage  `json:"stage"`
	Pos   int    `json:"pos"`
	End   int    `json:"end"`
	Msg   string `json:"message"`
}

// Diagnose maps a stage error to its Diagnostic.  The boolean result is
// false for errors that did not come from the pipeline.
func Diagnose(err error) (Diagnostic, bool) {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Diagnostic{StageParse, syntaxErr.Pos, -1, syntaxErr.Msg}, true
	}
	var gateErr *gate.UnsupportedError
	if errors.As(err, &gateErr) {
		return Diagnostic{StageValidate, gateErr.Pos, gateErr.End, gateErr.Msg}, true
	}
	var semErr *semantic.Error
	if errors.As(err, &semErr) {
		return Diagnostic{StageSemantic, semErr.Pos, semErr.End, semErr.Msg}, true
	}
	var convErr *convert.Error
	if errors.As(err, &convErr) {
		return Diagnostic{StageConvert, -1, -1, convErr.Msg}, true
	}
	var optErr *optimizer.Error
	if errors.As(err, &optErr) {
		return Diagnostic{StageOptimize, -1, -1, optErr.Error()}, true
	}
	return Diagnostic{}, false
}

// Format renders the diagnostic against the statement text it came from,
// underlining the offending span.
func (d Diagnostic) Format(text string) string {
	if d.Pos < 0 {
		return d.Msg
	}
	return srcloc.NewText(text).Format(d.Msg, d.Pos, d.End)
}
