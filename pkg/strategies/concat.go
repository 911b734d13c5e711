/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: concat.go
Description: Concatenation strategy for the tablesynth engine. Joins two source
columns in either order with a delimiter recovered from the first aligned row.
*/

package strategies

import (
	"strings"

	"github.com/kleascm/tablesynth/pkg/plan"
)

// ConcatStrategy matches two-column concatenations with an inferred delimiter
type ConcatStrategy struct{}

// NewConcatStrategy creates a new concat strategy
func NewConcatStrategy() *ConcatStrategy { return &ConcatStrategy{} }

// Name returns the name of this strategy
func (s *ConcatStrategy) Name() string { return "ConcatStrategy" }

// Description returns a description of this strategy
func (s *ConcatStrategy) Description() string {
	return "Matches concatenation of two source columns in either order with a delimiter recovered from the first row"
}

// Attempt tries every unordered column pair in both orders. The delimiter is
// whatever sits between the two first-row values inside the first output; when
// the first row gives no delimiter the empty string is still tried.
func (s *ConcatStrategy) Attempt(ctx *Context) *plan.Transform {
	firstOut := ctx.Outputs[0].Canonical()
	for i, colA := range ctx.InputCols {
		for _, colB := range ctx.InputCols[i:] {
			aVal := canonicalOrEmpty(ctx.InputRows[0].Get(colA))
			bVal := canonicalOrEmpty(ctx.InputRows[0].Get(colB))
			for _, order := range []string{"ab", "ba"} {
				delim := ""
				lead, trail := aVal, bVal
				if order == "ba" {
					lead, trail = bVal, aVal
				}
				if strings.HasPrefix(firstOut, lead) && strings.HasSuffix(firstOut, trail) &&
					len(firstOut) >= len(lead)+len(trail) {
					delim = firstOut[len(lead) : len(firstOut)-len(trail)]
				}
				t := &plan.Transform{
					Type:      plan.TransformConcat,
					Sources:   []string{colA, colB},
					Delimiter: delim,
					Order:     order,
				}
				if ctx.Matches(t) {
					return t
				}
			}
		}
	}
	return nil
}
