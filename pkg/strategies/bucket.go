/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: bucket.go
Description: Bucket strategy for the tablesynth engine. Infers numeric threshold
classifiers for categorical outputs by sorting source values, segmenting them by
output label, and placing boundaries inside the gap between adjacent segments.
*/

package strategies

import (
	"sort"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/table"
)

// BucketStrategy matches numeric-threshold classification into categorical
// labels
type BucketStrategy struct{}

// NewBucketStrategy creates a new bucket strategy
func NewBucketStrategy() *BucketStrategy { return &BucketStrategy{} }

// Name returns the name of this strategy
func (s *BucketStrategy) Name() string { return "BucketStrategy" }

// Description returns a description of this strategy
func (s *BucketStrategy) Description() string {
	return "Matches numeric threshold buckets producing categorical labels"
}

// Attempt only considers non-numeric outputs. Thresholds sit a fifth of the
// way into the gap after the left segment's maximum, so the boundary
// generalizes slightly past the observed values.
func (s *BucketStrategy) Attempt(ctx *Context) *plan.Transform {
	allNumeric := true
	for _, v := range ctx.Outputs {
		if !v.IsNull() && !v.IsNumeric() {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		return nil
	}

	for _, col := range ctx.InputCols {
		nums, ok := numericColumn(ctx.InputRows, col)
		if !ok {
			continue
		}

		type pair struct {
			val   float64
			label table.Value
		}
		pairs := make([]pair, len(nums))
		for i := range nums {
			pairs[i] = pair{val: nums[i], label: ctx.Outputs[i]}
		}
		sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].val < pairs[j].val })

		type segment struct {
			label table.Value
			vals  []float64
		}
		var segments []segment
		for _, p := range pairs {
			if len(segments) == 0 || !table.Equal(segments[len(segments)-1].label, p.label) {
				segments = append(segments, segment{label: p.label, vals: []float64{p.val}})
			} else {
				last := &segments[len(segments)-1]
				last.vals = append(last.vals, p.val)
			}
		}

		// Non-contiguous label repeats break the monotonic mapping
		labelKeys := make(map[string]struct{}, len(segments))
		monotonic := true
		for _, seg := range segments {
			key := seg.label.Key()
			if _, dup := labelKeys[key]; dup {
				monotonic = false
				break
			}
			labelKeys[key] = struct{}{}
		}
		if !monotonic {
			continue
		}

		labels := make([]table.Value, len(segments))
		for i, seg := range segments {
			labels[i] = seg.label
		}
		thresholds := make([]float64, 0, len(segments)-1)
		for i := 0; i < len(segments)-1; i++ {
			leftMax := segments[i].vals[len(segments[i].vals)-1]
			rightMin := segments[i+1].vals[0]
			gap := rightMin - leftMax
			boundary := leftMax
			if gap > 0 {
				boundary = leftMax + 0.2*gap
			}
			thresholds = append(thresholds, boundary)
		}

		t := &plan.Transform{
			Type:       plan.TransformBucket,
			Source:     col,
			Thresholds: thresholds,
			Labels:     labels,
		}
		if ctx.Matches(t) {
			return t
		}
	}
	return nil
}
