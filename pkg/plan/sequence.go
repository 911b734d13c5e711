/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: sequence.go
Description: Full-sequence transform evaluation for the tablesynth engine. Computes
the output value sequence of a Transform over a kept-row sequence, carrying
per-partition mutable state in an explicit StateStore that is allocated fresh for
every evaluation pass and never shared across columns or synthesis attempts.
*/

package plan

import (
	"sort"
	"strconv"

	"github.com/kleascm/tablesynth/pkg/table"
)

// StateStore holds the per-partition mutable state of a single transform
// evaluation pass. One store serves one (transform, output column) pair for
// one pass; callers allocate a fresh store per pass so candidate N+1 never
// observes state mutated while evaluating candidate N.
type StateStore struct {
	cells map[string]*partitionState
}

type partitionState struct {
	sum     float64
	count   int
	max     float64
	maxSet  bool
	min     float64
	minSet  bool
	counter float64
	label   table.Value
	index   int
	prev    table.Row
}

// NewStateStore creates an empty state store
func NewStateStore() *StateStore {
	return &StateStore{cells: make(map[string]*partitionState)}
}

func (s *StateStore) cell(key string) *partitionState {
	st, ok := s.cells[key]
	if !ok {
		st = &partitionState{}
		s.cells[key] = st
	}
	return st
}

// ComputeSequence evaluates the transform over the full kept-row sequence and
// returns one output value per row. Stateful kinds restart per partition key.
func ComputeSequence(t *Transform, rows []table.Row) []table.Value {
	switch t.Type {
	case TransformConstant, TransformCopy, TransformStrip, TransformLower,
		TransformUpper, TransformPrefix, TransformSuffix, TransformLinear,
		TransformConcat, TransformBucket:
		out := make([]table.Value, len(rows))
		for i, row := range rows {
			out[i] = ApplyScalar(t, row)
		}
		return out
	case TransformRowNumber:
		return computeRowNumber(rows, t.Partition, t.Reverse)
	case TransformRank, TransformDenseRank:
		return computeRank(rows, t.Partition, t.OrderBy, t.Type == TransformDenseRank, t.Ascending)
	case TransformPrefixAgg:
		return computePrefixAgg(t, rows)
	case TransformResetSum:
		return computeResetSum(t, rows)
	case TransformWindow:
		return computeWindow(t, rows)
	case TransformState, TransformToggle:
		return computeStateful(t, rows)
	}
	out := make([]table.Value, len(rows))
	for i := range rows {
		out[i] = table.NullValue()
	}
	return out
}

// computeRowNumber yields 1-based positional counters per partition, counting
// from the end when reverse is set
func computeRowNumber(rows []table.Row, partition []string, reverse bool) []table.Value {
	out := make([]table.Value, 0, len(rows))
	if reverse {
		counts := make(map[string]int)
		for _, row := range rows {
			counts[table.PartitionKey(row, partition)]++
		}
		seen := make(map[string]int)
		for _, row := range rows {
			key := table.PartitionKey(row, partition)
			seen[key]++
			out = append(out, table.IntValue(int64(counts[key]-seen[key]+1)))
		}
		return out
	}
	counts := make(map[string]int)
	for _, row := range rows {
		key := table.PartitionKey(row, partition)
		counts[key]++
		out = append(out, table.IntValue(int64(counts[key])))
	}
	return out
}

// rankKey collapses a value to its ordering identity: numeric where the value
// coerces to a number, canonical string otherwise
func rankKey(v table.Value) string {
	if n, ok := v.AsNumber(); ok {
		return "f:" + strconv.FormatFloat(n, 'g', -1, 64)
	}
	return "s:" + v.Canonical()
}

func computeRank(rows []table.Row, partition []string, orderCol string, dense, ascending bool) []table.Value {
	groups := make(map[string][]table.Value)
	for _, row := range rows {
		key := table.PartitionKey(row, partition)
		groups[key] = append(groups[key], row.Get(orderCol))
	}
	out := make([]table.Value, 0, len(rows))
	for _, row := range rows {
		key := table.PartitionKey(row, partition)
		vals := groups[key]
		current := row.Get(orderCol)
		if dense {
			distinct := distinctByRankKey(vals)
			sort.SliceStable(distinct, func(i, j int) bool {
				if ascending {
					return table.Compare(distinct[i], distinct[j]) < 0
				}
				return table.Compare(distinct[i], distinct[j]) > 0
			})
			rank := 1
			for i, v := range distinct {
				if table.Compare(v, current) == 0 {
					rank = i + 1
					break
				}
			}
			out = append(out, table.IntValue(int64(rank)))
			continue
		}
		better := 0
		for _, v := range vals {
			cmp := table.Compare(v, current)
			if (ascending && cmp < 0) || (!ascending && cmp > 0) {
				better++
			}
		}
		out = append(out, table.IntValue(int64(better+1)))
	}
	return out
}

func distinctByRankKey(vals []table.Value) []table.Value {
	seen := make(map[string]struct{}, len(vals))
	out := make([]table.Value, 0, len(vals))
	for _, v := range vals {
		k := rankKey(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func computePrefixAgg(t *Transform, rows []table.Row) []table.Value {
	store := NewStateStore()
	out := make([]table.Value, 0, len(rows))
	for _, row := range rows {
		st := store.cell(table.PartitionKey(row, t.Partition))
		var agg float64
		ok := true
		switch t.Op {
		case "sum":
			if v, vok := row.Get(t.Source).AsNumber(); vok {
				st.sum += v
			}
			agg = st.sum
		case "max":
			if v, vok := row.Get(t.Source).AsNumber(); vok {
				if !st.maxSet || v > st.max {
					st.max = v
					st.maxSet = true
				}
			}
			agg, ok = st.max, st.maxSet
		case "min":
			if v, vok := row.Get(t.Source).AsNumber(); vok {
				if !st.minSet || v < st.min {
					st.min = v
					st.minSet = true
				}
			}
			agg, ok = st.min, st.minSet
		default: // count
			if t.Predicate == nil || ConditionHolds(t.Predicate, row) {
				st.count++
			}
			agg = float64(st.count)
		}
		if !ok {
			out = append(out, table.NullValue())
			continue
		}
		out = append(out, table.NumberValue(t.A*agg+t.B))
	}
	return out
}

func computeResetSum(t *Transform, rows []table.Row) []table.Value {
	store := NewStateStore()
	out := make([]table.Value, 0, len(rows))
	for _, row := range rows {
		st := store.cell(table.PartitionKey(row, t.Partition))
		triggered := PredicateMatches(t.Predicate, row, st.prev)
		if t.SkipFirst && st.index == 0 {
			triggered = false
		}
		v, _ := row.Get(t.Source).AsNumber()
		if triggered || st.index == 0 {
			st.sum = v
		} else {
			st.sum += v
		}
		st.prev = row
		st.index++
		out = append(out, table.NumberValue(t.A*st.sum+t.B))
	}
	return out
}

func computeWindow(t *Transform, rows []table.Row) []table.Value {
	before, after := t.Before, t.After
	if !t.Centered {
		w := t.Window
		if w < 1 {
			w = 1
		}
		before, after = w-1, 0
	}
	groups := make(map[string][]int)
	positions := make([]int, len(rows))
	keys := make([]string, len(rows))
	for idx, row := range rows {
		key := table.PartitionKey(row, t.Partition)
		keys[idx] = key
		positions[idx] = len(groups[key])
		groups[key] = append(groups[key], idx)
	}
	out := make([]table.Value, 0, len(rows))
	for idx := range rows {
		g := groups[keys[idx]]
		pos := positions[idx]
		start := pos - before
		if start < 0 {
			start = 0
		}
		end := pos + after
		if end > len(g)-1 {
			end = len(g) - 1
		}
		selected := g[start : end+1]
		if t.Op == "count" {
			matches := 0
			for _, j := range selected {
				if t.Predicate == nil || ConditionHolds(t.Predicate, rows[j]) {
					matches++
				}
			}
			out = append(out, table.NumberValue(t.A*float64(matches)+t.B))
			continue
		}
		vals := make([]float64, 0, len(selected))
		for _, j := range selected {
			v, _ := rows[j].Get(t.Source).AsNumber()
			vals = append(vals, v)
		}
		if len(vals) == 0 {
			out = append(out, table.NullValue())
			continue
		}
		var agg float64
		switch t.Op {
		case "mean":
			for _, v := range vals {
				agg += v
			}
			agg /= float64(len(vals))
		case "median":
			sorted := append([]float64(nil), vals...)
			sort.Float64s(sorted)
			agg = sorted[(len(sorted)-1)/2]
		default: // sum
			for _, v := range vals {
				agg += v
			}
		}
		out = append(out, table.NumberValue(t.A*agg+t.B))
	}
	return out
}

func computeStateful(t *Transform, rows []table.Row) []table.Value {
	store := NewStateStore()
	out := make([]table.Value, 0, len(rows))
	for _, row := range rows {
		st := store.cell(table.PartitionKey(row, t.Partition))
		if st.index == 0 {
			st.label = t.Initial
			st.counter, _ = t.Initial.AsNumber()
		}
		triggered := false
		if !(t.SkipFirst && st.index == 0) {
			triggered = PredicateMatches(t.Predicate, row, st.prev)
		}
		st.prev = row
		st.index++
		if t.Type == TransformToggle {
			if triggered && len(t.Labels) >= 2 {
				if table.Equal(st.label, t.Labels[0]) {
					st.label = t.Labels[1]
				} else {
					st.label = t.Labels[0]
				}
			}
			out = append(out, st.label)
			continue
		}
		if triggered {
			st.counter += t.Step
		}
		out = append(out, table.NumberValue(st.counter))
	}
	return out
}
