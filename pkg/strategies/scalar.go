/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scalar.go
Description: Scalar transform strategy for the tablesynth engine. Tries the most
literal per-cell explanations first: copy, whitespace strip, case folding, literal
prefix/suffix derived from the first row, and a numeric linear fit. Sources are
walked with the same-named column first.
*/

package strategies

import (
	"strings"

	"github.com/kleascm/tablesynth/pkg/plan"
)

// ScalarStrategy matches stateless per-cell transforms from a single source
// column
type ScalarStrategy struct{}

// NewScalarStrategy creates a new scalar strategy
func NewScalarStrategy() *ScalarStrategy { return &ScalarStrategy{} }

// Name returns the name of this strategy
func (s *ScalarStrategy) Name() string { return "ScalarStrategy" }

// Description returns a description of this strategy
func (s *ScalarStrategy) Description() string {
	return "Matches copy, strip, case folding, literal prefix/suffix, and linear fits from a single source column"
}

// Attempt walks source columns in order and returns the first matching scalar
// transform
func (s *ScalarStrategy) Attempt(ctx *Context) *plan.Transform {
	firstOut := ctx.Outputs[0].Canonical()
	for _, col := range ctx.orderedCols() {
		for _, tt := range []plan.TransformType{
			plan.TransformCopy, plan.TransformStrip, plan.TransformLower, plan.TransformUpper,
		} {
			t := &plan.Transform{Type: tt, Source: col}
			if ctx.Matches(t) {
				return t
			}
		}

		// Literal affixes derived from the first aligned row. A prefix match
		// is tried before a suffix match at the same rank.
		firstSrc := canonicalOrEmpty(ctx.InputRows[0].Get(col))
		if strings.HasSuffix(firstOut, firstSrc) {
			t := &plan.Transform{
				Type:   plan.TransformPrefix,
				Source: col,
				Prefix: firstOut[:len(firstOut)-len(firstSrc)],
			}
			if ctx.Matches(t) {
				return t
			}
		}
		if strings.HasPrefix(firstOut, firstSrc) {
			t := &plan.Transform{
				Type:   plan.TransformSuffix,
				Source: col,
				Suffix: firstOut[len(firstSrc):],
			}
			if ctx.Matches(t) {
				return t
			}
		}

		if t := s.attemptLinear(ctx, col); t != nil {
			return t
		}
	}
	return nil
}

// attemptLinear fits y = a*x + b when both the source and the output are typed
// numeric on every aligned row
func (s *ScalarStrategy) attemptLinear(ctx *Context, col string) *plan.Transform {
	xs := make([]float64, len(ctx.Outputs))
	ys := make([]float64, len(ctx.Outputs))
	for i := range ctx.Outputs {
		src := ctx.InputRows[i].Get(col)
		if !src.IsNumeric() || !ctx.Outputs[i].IsNumeric() {
			return nil
		}
		xs[i], _ = src.AsNumber()
		ys[i], _ = ctx.Outputs[i].AsNumber()
	}
	a, b, ok := inferLinear(xs, ys)
	if !ok {
		return nil
	}
	t := &plan.Transform{Type: plan.TransformLinear, Source: col, A: a, B: b}
	if !ctx.Matches(t) {
		return nil
	}
	return t
}
