/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: strategies.go
Description: Transform hypothesis battery for the tablesynth engine. Defines the
Strategy interface, the inference Context shared by every strategy, and the fixed
battery order walked by InferTransform. Ordering is load-bearing: cheaper, more
literal explanations are tried before structurally equivalent stateful ones, so a
same-named column copy always beats a coincidentally matching running count.
*/

package strategies

import (
	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// Strategy is a single transform hypothesis generator. Attempt returns the
// first transform in the strategy's internal priority order that reproduces
// the output column over the aligned rows, or nil when none does.
type Strategy interface {
	// Name returns the name of this strategy
	Name() string

	// Description returns a description of this strategy
	Description() string

	// Attempt searches the strategy's hypothesis space against the context
	Attempt(ctx *Context) *plan.Transform
}

// Context carries the aligned sample slice one strategy battery run works on:
// the target output column's values and the row-paired input subset
type Context struct {
	OutCol    string
	Outputs   []table.Value
	InputRows []table.Row
	InputCols []string
}

// NewContext builds the inference context for one output column
func NewContext(outCol string, outputs []table.Value, inputRows []table.Row, inputCols []string) *Context {
	return &Context{
		OutCol:    outCol,
		Outputs:   outputs,
		InputRows: inputRows,
		InputCols: inputCols,
	}
}

// Matches reports whether the transform reproduces the output sequence over
// the aligned rows under tolerant equality
func (ctx *Context) Matches(t *plan.Transform) bool {
	predicted := plan.ComputeSequence(t, ctx.InputRows)
	if len(predicted) != len(ctx.Outputs) {
		return false
	}
	for i := range predicted {
		if !table.Equal(predicted[i], ctx.Outputs[i]) {
			return false
		}
	}
	return true
}

// MatchesNumeric reports whether the transform reproduces the output sequence
// within tol on every row, with both sides coerced to numbers
func (ctx *Context) MatchesNumeric(t *plan.Transform, tol float64) bool {
	predicted := plan.ComputeSequence(t, ctx.InputRows)
	if len(predicted) != len(ctx.Outputs) {
		return false
	}
	for i := range predicted {
		p, pok := predicted[i].AsNumber()
		o, ook := ctx.Outputs[i].AsNumber()
		if !pok || !ook {
			return false
		}
		if absFloat(p-o) > tol {
			return false
		}
	}
	return true
}

// orderedCols returns the input columns with the target column first when the
// schemas share its name, so a same-named copy outranks every other source
func (ctx *Context) orderedCols() []string {
	for _, col := range ctx.InputCols {
		if col == ctx.OutCol {
			out := make([]string, 0, len(ctx.InputCols))
			out = append(out, ctx.OutCol)
			for _, c := range ctx.InputCols {
				if c != ctx.OutCol {
					out = append(out, c)
				}
			}
			return out
		}
	}
	return ctx.InputCols
}

// partitions enumerates the candidate partition column sets for positional
// transforms: the global partition, then single columns, then column pairs,
// drawn from the first six input columns to bound the search
func (ctx *Context) partitions() [][]string {
	limited := ctx.InputCols
	if len(limited) > 6 {
		limited = limited[:6]
	}
	parts := [][]string{nil}
	for _, col := range limited {
		parts = append(parts, []string{col})
	}
	for i, c1 := range limited {
		for _, c2 := range limited[i+1:] {
			parts = append(parts, []string{c1, c2})
		}
	}
	return parts
}

// narrowPartitions enumerates the smaller partition set used by the stateful
// strategies: global first, then single columns from the first four inputs
func (ctx *Context) narrowPartitions() [][]string {
	parts := [][]string{nil}
	limited := ctx.InputCols
	if len(limited) > 4 {
		limited = limited[:4]
	}
	for _, col := range limited {
		parts = append(parts, []string{col})
	}
	return parts
}

// Battery returns the full strategy battery in priority order. InferTransform
// walks this list and stops at the first strategy that produces a match.
func Battery() []Strategy {
	return []Strategy{
		NewScalarStrategy(),
		NewConcatStrategy(),
		NewRowNumberStrategy(),
		NewRankStrategy(),
		NewPrefixAggStrategy(),
		NewStateStrategy(),
		NewToggleStrategy(),
		NewResetSumStrategy(),
		NewPrefixScanStrategy(),
		NewBucketStrategy(),
		NewCenteredWindowStrategy(),
		NewTrailingWindowStrategy(),
	}
}

// InferTransform walks the battery in order and returns the first matching
// transform. When nothing matches it falls back to the least informative
// representable transform: a constant when the output column is constant,
// otherwise a copy of the first input column.
func InferTransform(ctx *Context) *plan.Transform {
	if len(ctx.Outputs) == 0 {
		return &plan.Transform{Type: plan.TransformConstant, Value: table.NullValue()}
	}
	for _, strategy := range Battery() {
		if t := strategy.Attempt(ctx); t != nil {
			return t
		}
	}
	if table.DistinctCount(ctx.Outputs) == 1 {
		return &plan.Transform{Type: plan.TransformConstant, Value: ctx.Outputs[0]}
	}
	if len(ctx.InputCols) > 0 {
		return &plan.Transform{Type: plan.TransformCopy, Source: ctx.InputCols[0]}
	}
	return &plan.Transform{Type: plan.TransformConstant, Value: table.NullValue()}
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// canonicalOrEmpty renders a cell for string surgery: null reads as the empty
// string so prefixes and delimiters derived from the first row stay literal
func canonicalOrEmpty(v table.Value) string {
	if v.IsNull() {
		return ""
	}
	return v.Canonical()
}
