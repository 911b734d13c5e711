/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: align.go
Description: Alignment search for the tablesynth engine. Proposes candidate
input-to-output row index mappings by searching each output column's value
sequence as an in-order subsequence of a cheaply transformed input column.
Candidates are ranked by transform priority and output column position, then
deduplicated by the mapping itself.
*/

package align

import (
	"sort"
	"strconv"
	"strings"

	"github.com/kleascm/tablesynth/pkg/table"
)

// cheap value transforms tried during the subsequence search, in priority
// order: identity, strip, lower, upper
var cheapTransforms = []func(table.Value) table.Value{
	func(v table.Value) table.Value { return v },
	func(v table.Value) table.Value { return mapString(v, strings.TrimSpace) },
	func(v table.Value) table.Value { return mapString(v, strings.ToLower) },
	func(v table.Value) table.Value { return mapString(v, strings.ToUpper) },
}

type candidate struct {
	mapping []int
	score   int
}

// Search proposes candidate mappings from output row positions to input row
// indices. For every non-constant output column, every input column, and every
// cheap transform, the output value sequence is searched as an in-order
// subsequence of the transformed input column. Results are ranked by
// prio*1000 + outputColumnIndex and deduplicated by mapping identity.
func Search(input, output *table.Table) [][]int {
	var candidates []candidate
	for outIdx, outCol := range output.Columns {
		outVals := output.Column(outCol)
		if table.DistinctCount(outVals) <= 1 {
			continue
		}
		for _, inCol := range input.Columns {
			inVals := input.Column(inCol)
			for prio, transform := range cheapTransforms {
				transformed := make([]table.Value, len(inVals))
				for i, v := range inVals {
					transformed[i] = transform(v)
				}
				mapping := subsequenceIndices(outVals, transformed)
				if mapping == nil {
					continue
				}
				candidates = append(candidates, candidate{
					mapping: mapping,
					score:   prio*1000 + outIdx,
				})
			}
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})
	seen := make(map[string]struct{}, len(candidates))
	out := make([][]int, 0, len(candidates))
	for _, c := range candidates {
		key := mappingKey(c.mapping)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c.mapping)
	}
	return out
}

// IdentityMapping returns the one-to-one mapping when the output has exactly
// as many rows as the input, nil otherwise
func IdentityMapping(outputRows, inputRows int) []int {
	if outputRows != inputRows {
		return nil
	}
	mapping := make([]int, inputRows)
	for i := range mapping {
		mapping[i] = i
	}
	return mapping
}

// PrefixMapping returns the length-matching prefix mapping, the last-resort
// candidate and the basis of the driver's best-effort fallback
func PrefixMapping(outputRows, inputRows int) []int {
	n := outputRows
	if inputRows < n {
		n = inputRows
	}
	mapping := make([]int, n)
	for i := range mapping {
		mapping[i] = i
	}
	return mapping
}

// subsequenceIndices finds outVals as an in-order subsequence of inVals under
// tolerant equality, greedily taking the earliest match for each output value.
// Returns nil when no full match exists.
func subsequenceIndices(outVals, inVals []table.Value) []int {
	mapping := make([]int, 0, len(outVals))
	next := 0
	for _, want := range outVals {
		found := -1
		for i := next; i < len(inVals); i++ {
			if table.Equal(inVals[i], want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil
		}
		mapping = append(mapping, found)
		next = found + 1
	}
	return mapping
}

// MappingKey identifies a mapping for deduplication across search results and
// fallback candidates
func MappingKey(mapping []int) string { return mappingKey(mapping) }

func mappingKey(mapping []int) string {
	parts := make([]string, len(mapping))
	for i, idx := range mapping {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func mapString(v table.Value, fn func(string) string) table.Value {
	if v.Kind() == table.KindString {
		return table.StringValue(fn(v.Str()))
	}
	return v
}
