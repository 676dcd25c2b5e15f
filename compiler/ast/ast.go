// Package ast declares the types used to represent the syntax tree of a
// parsed SQL statement prior to semantic validation.
package ast

// This module is derived from the GO AST design pattern in
// https://golang.org/pkg/go/ast/
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import "github.com/keeldb/keel/sqltype"

type Node interface {
	Pos() int // Position of first character belonging to the node.
	End() int // Position of last character belonging to the node.
}

type Loc struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

func NewLoc(pos, end int) Loc {
	return Loc{pos, end}
}

func (l Loc) Pos() int { return l.First }
func (l Loc) End() int { return l.Last }

type (
	// Call is an operator applied to an ordered list of operands.
	// The parser produces a Call for every expression form other than
	// the statement-level select, which has its own node.
	Call struct {
		Op   Op     `json:"op"`
		Args []Node `json:"args"`
		Loc  `json:"loc"`
	}
	// Select is the statement-level select form.  Clauses the dialect
	// does not support are still parsed and carried here so that
	// validation can reject them by name.
	Select struct {
		Distinct bool      `json:"distinct"`
		Columns  *NodeList `json:"columns"`
		From     Node      `json:"from"`
		Where    Node      `json:"where"`
		GroupBy  *NodeList `json:"group_by"`
		OrderBy  *NodeList `json:"order_by"`
		Limit    Node      `json:"limit"`
		Offset   Node      `json:"offset"`
		Loc      `json:"loc"`
	}
	// Identifier is a possibly qualified name.  A select-list "*" is
	// an Identifier whose single part is "*".
	Identifier struct {
		Parts []string `json:"parts"`
		Loc   `json:"loc"`
	}
	Literal struct {
		Type sqltype.ID `json:"type"`
		Text string     `json:"text"`
		Loc  `json:"loc"`
	}
	NodeList struct {
		Nodes []Node `json:"nodes"`
		Loc   `json:"loc"`
	}
	// TypeSpec is a declared type as written in a CAST.  Structured is
	// set for compound specifications like ROW(...), whose element
	// types are carried in Elems.
	TypeSpec struct {
		Name       string      `json:"name"`
		Structured bool        `json:"structured"`
		Elems      []*TypeSpec `json:"elems"`
		Loc        `json:"loc"`
	}
	DynamicParam struct {
		Index int `json:"index"`
		Loc   `json:"loc"`
	}
	IntervalQualifier struct {
		Unit string `json:"unit"`
		Loc  `json:"loc"`
	}
)

func (s *Select) Name() string { return "SELECT" }
