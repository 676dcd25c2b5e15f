package service

import (
	"encoding/json"
	"net/http"

	"github.com/keeldb/keel/compiler"
	"github.com/keeldb/keel/compiler/logical"
	"github.com/keeldb/keel/compiler/semantic"
	"go.uber.org/zap"
)

type CompileRequest struct {
	SQL string `json:"sql"`
}

type CompileResponse struct {
	PlanID     string       `json:"plan_id"`
	Plan       []PlanOp     `json:"plan"`
	Columns    []ColumnInfo `json:"columns"`
	ObjectKeys []string     `json:"object_keys"`
}

type PlanOp struct {
	Op      string   `json:"op"`
	Table   string   `json:"table,omitempty"`
	Columns []int    `json:"columns,omitempty"`
	Filter  string   `json:"filter,omitempty"`
	Exprs   []string `json:"exprs,omitempty"`
	Names   []string `json:"names,omitempty"`
}

type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ErrorResponse struct {
	compiler.Diagnostic
	Detail string `json:"detail,omitempty"`
}

func (s *Service) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	plan, err := s.cache.Get(req.SQL)
	if err != nil {
		s.writeError(w, req.SQL, err)
		return
	}
	resp := CompileResponse{PlanID: plan.ID.String()}
	for _, op := range plan.Plan {
		resp.Plan = append(resp.Plan, describeOp(op))
	}
	for _, col := range plan.Columns {
		resp.Columns = append(resp.Columns, ColumnInfo{
			Name: col.Name,
			Type: col.Expr.Type().String(),
		})
	}
	for _, key := range plan.ObjectKeys {
		resp.ObjectKeys = append(resp.ObjectKeys, key.String())
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cached_plans": s.cache.Len(),
	})
}

func (s *Service) writeError(w http.ResponseWriter, text string, err error) {
	diag, ok := compiler.Diagnose(err)
	if !ok {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Diagnostic: diag,
		Detail:     diag.Format(text),
	})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("response write failed", zap.Error(err))
	}
}

func describeOp(op logical.Op) PlanOp {
	switch op := op.(type) {
	case *logical.TableScan:
		out := PlanOp{
			Op:      "TableScan",
			Table:   op.Table.SchemaName() + "." + op.Table.Name(),
			Columns: op.Columns,
		}
		if op.Filter != nil {
			out.Filter = semantic.Format(op.Filter)
		}
		return out
	case *logical.Filter:
		return PlanOp{Op: "Filter", Filter: semantic.Format(op.Expr)}
	case *logical.Project:
		exprs := make([]string, 0, len(op.Exprs))
		for _, e := range op.Exprs {
			exprs = append(exprs, semantic.Format(e))
		}
		return PlanOp{Op: "Project", Exprs: exprs, Names: op.Names}
	}
	return PlanOp{Op: "Pass"}
}
