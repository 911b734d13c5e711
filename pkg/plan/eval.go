/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: eval.go
Description: Predicate and neighbor rule evaluation for the tablesynth engine.
Implements condition checks, relative predicates against the preceding row in a
partition, neighbor rule keep/drop decisions against the original row order, and
the stateless scalar transforms.
*/

package plan

import (
	"math"
	"strings"

	"github.com/kleascm/tablesynth/pkg/table"
)

// ConditionHolds evaluates an absolute condition against a row. Relative
// kinds (change, delta_ge) always report false here; they need the previous
// row and are evaluated through PredicateMatches.
func ConditionHolds(cond *Condition, row table.Row) bool {
	if cond == nil || cond.Kind != "" {
		return false
	}
	val := row.Get(cond.Column)
	switch cond.Op {
	case "==":
		return table.Equal(val, cond.Value)
	case "!=":
		return !table.Equal(val, cond.Value)
	case "in":
		for _, v := range cond.Values {
			if table.Equal(val, v) {
				return true
			}
		}
		return false
	}
	// Ordered comparisons require a typed numeric cell; numeric-looking
	// strings do not qualify.
	if !val.IsNumeric() {
		return false
	}
	v, _ := val.AsNumber()
	c, ok := cond.Value.AsNumber()
	if !ok {
		return false
	}
	switch cond.Op {
	case ">=":
		return v >= c
	case "<=":
		return v <= c
	case ">":
		return v > c
	case "<":
		return v < c
	}
	return false
}

// PredicateMatches evaluates a condition that may be relative. prev is the
// immediately preceding row within the row's partition, nil when the row is
// the partition's first.
func PredicateMatches(cond *Condition, row table.Row, prev table.Row) bool {
	if cond == nil {
		return false
	}
	switch cond.Kind {
	case KindChange:
		if prev == nil {
			return false
		}
		return !table.Equal(row.Get(cond.Column), prev.Get(cond.Column))
	case KindDeltaGE:
		if prev == nil {
			return false
		}
		a, aok := prev.Get(cond.Column).AsNumber()
		b, bok := row.Get(cond.Column).AsNumber()
		if !aok || !bok {
			return false
		}
		return math.Abs(b-a) >= cond.Delta
	}
	return ConditionHolds(cond, row)
}

// RowPasses reports whether the row satisfies every filter condition.
// A nil or empty condition list keeps everything.
func RowPasses(conditions []*Condition, row table.Row) bool {
	for _, cond := range conditions {
		if !ConditionHolds(cond, row) {
			return false
		}
	}
	return true
}

// CompareWithOp applies an operator between two cell values using the same
// semantics as ConditionHolds: equality ops are tolerant, ordered ops require
// a typed numeric left side.
func CompareWithOp(left table.Value, op string, right table.Value) bool {
	switch op {
	case "==":
		return table.Equal(left, right)
	case "!=":
		return !table.Equal(left, right)
	}
	if !left.IsNumeric() {
		return false
	}
	v, _ := left.AsNumber()
	c, ok := right.AsNumber()
	if !ok {
		return false
	}
	switch op {
	case ">=":
		return v >= c
	case "<=":
		return v <= c
	case ">":
		return v > c
	case "<":
		return v < c
	}
	return false
}

// NeighborOK reports whether the row at idx survives every neighbor rule.
// Neighbors are resolved in the original, unfiltered row order. At the table
// boundary only a neighbor_compare rule with RequireNeighbor drops the row.
func NeighborOK(rules []*NeighborRule, rows []table.Row, idx int) bool {
	for _, rule := range rules {
		neighborIdx := idx + rule.Offset
		if neighborIdx < 0 || neighborIdx >= len(rows) {
			if rule.Type == NeighborCompare && rule.RequireNeighbor {
				return false
			}
			continue
		}
		neighbor := rows[neighborIdx]
		switch rule.Type {
		case NeighborMatch:
			if table.Equal(rows[idx].Get(rule.Column), neighbor.Get(rule.Column)) {
				return false
			}
		case NeighborCompare:
			col := rule.NeighborColumn
			if col == "" {
				col = rule.Column
			}
			if !CompareWithOp(rows[idx].Get(rule.Column), rule.Op, neighbor.Get(col)) {
				return false
			}
		case NeighborValue:
			if CompareWithOp(neighbor.Get(rule.Column), rule.Op, rule.Value) {
				return false
			}
		}
	}
	return true
}

// ApplyScalar evaluates a stateless transform against a single row
func ApplyScalar(t *Transform, row table.Row) table.Value {
	switch t.Type {
	case TransformConstant:
		return t.Value
	case TransformCopy:
		return row.Get(t.Source)
	case TransformStrip:
		return mapString(row.Get(t.Source), strings.TrimSpace)
	case TransformLower:
		return mapString(row.Get(t.Source), strings.ToLower)
	case TransformUpper:
		return mapString(row.Get(t.Source), strings.ToUpper)
	case TransformPrefix:
		return table.StringValue(t.Prefix + stringOrEmpty(row.Get(t.Source)))
	case TransformSuffix:
		return table.StringValue(stringOrEmpty(row.Get(t.Source)) + t.Suffix)
	case TransformLinear:
		src := row.Get(t.Source)
		if src.IsNull() {
			return table.NullValue()
		}
		x, ok := src.AsNumber()
		if !ok {
			return table.NullValue()
		}
		return table.NumberValue(t.A*x + t.B)
	case TransformConcat:
		if len(t.Sources) < 2 {
			return table.NullValue()
		}
		first := stringOrEmpty(row.Get(t.Sources[0]))
		second := stringOrEmpty(row.Get(t.Sources[1]))
		if t.Order == "ba" {
			return table.StringValue(second + t.Delimiter + first)
		}
		return table.StringValue(first + t.Delimiter + second)
	case TransformBucket:
		val, ok := row.Get(t.Source).AsNumber()
		if !ok || len(t.Labels) == 0 {
			return table.NullValue()
		}
		for i, boundary := range t.Thresholds {
			if val < boundary {
				return t.Labels[i]
			}
		}
		return t.Labels[len(t.Labels)-1]
	}
	return table.NullValue()
}

func mapString(v table.Value, fn func(string) string) table.Value {
	if v.Kind() == table.KindString {
		return table.StringValue(fn(v.Str()))
	}
	return v
}

func stringOrEmpty(v table.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.Canonical()
}
