/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: table.go
Description: Row and Table model for the tablesynth engine. Tables are loaded once,
carry an ordered column list, and are never mutated by synthesis. Also provides the
partition key used to scope stateful transforms to row groups.
*/

package table

import "strings"

// Row maps column names to cell values. Missing columns read as null.
type Row map[string]Value

// Get returns the value for col, or null when the column is absent
func (r Row) Get(col string) Value { return r[col] }

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of rows plus the ordered column-name list.
// Immutable once loaded.
type Table struct {
	Columns []string
	Rows    []Row
}

// Column returns the full value sequence for a single column
func (t *Table) Column(col string) []Value {
	out := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Get(col)
	}
	return out
}

// Select returns the rows at the given indices, in order
func (t *Table) Select(indices []int) []Row {
	out := make([]Row, 0, len(indices))
	for _, idx := range indices {
		out = append(out, t.Rows[idx])
	}
	return out
}

// PartitionKey builds the grouping key for a row from the partition column
// list. An empty list yields the single global partition "()".
func PartitionKey(row Row, partition []string) string {
	if len(partition) == 0 {
		return "()"
	}
	parts := make([]string, len(partition))
	for i, col := range partition {
		parts[i] = row.Get(col).Key()
	}
	return "(" + strings.Join(parts, "\x1f") + ")"
}

// DistinctCount returns the number of exact-distinct values in vals
func DistinctCount(vals []Value) int {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		seen[v.Key()] = struct{}{}
	}
	return len(seen)
}

// DistinctValues returns the distinct values of vals in first-seen order
func DistinctValues(vals []Value) []Value {
	seen := make(map[string]struct{}, len(vals))
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v.Key()]; ok {
			continue
		}
		seen[v.Key()] = struct{}{}
		out = append(out, v)
	}
	return out
}
