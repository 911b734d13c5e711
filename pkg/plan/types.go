/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Plan data model for the tablesynth engine. Defines Condition,
NeighborRule, and Transform descriptors plus the immutable Plan assembled by the
synthesis driver. Descriptors are closed data: inference builds them, simulation
and the renderers consume them, nothing mutates them afterwards.
*/

package plan

import (
	"encoding/json"

	"github.com/kleascm/tablesynth/pkg/table"
)

// Relative predicate kinds. Absolute conditions leave Kind empty.
const (
	KindChange  = "change"
	KindDeltaGE = "delta_ge"
)

// Condition is a boolean test on a row, or on a row and its immediate
// predecessor for the relative kinds. Relative kinds are false when no
// previous row exists in the partition.
type Condition struct {
	Kind   string        // "" | change | delta_ge
	Column string
	Op     string        // == != in >= <= > <
	Value  table.Value   // comparison value for scalar ops
	Values []table.Value // membership list for op "in"
	Delta  float64       // threshold for delta_ge
}

// Neighbor rule shapes
const (
	NeighborMatch   = "neighbor_match"
	NeighborCompare = "neighbor_compare"
	NeighborValue   = "neighbor_value"
)

// NeighborRule drops rows based on the row at Offset in the original,
// unfiltered row order. A neighbor_compare rule with RequireNeighbor set
// rejects rows with no neighbor at the table boundary; the other shapes pass
// such rows through.
type NeighborRule struct {
	Type            string
	Offset          int // -1 or +1
	Column          string
	NeighborColumn  string
	Op              string
	Value           table.Value
	RequireNeighbor bool
}

// TransformType enumerates the rule language for per-column transforms
type TransformType string

const (
	TransformConstant  TransformType = "constant"
	TransformCopy      TransformType = "copy"
	TransformStrip     TransformType = "strip"
	TransformLower     TransformType = "lower"
	TransformUpper     TransformType = "upper"
	TransformPrefix    TransformType = "prefix"
	TransformSuffix    TransformType = "suffix"
	TransformLinear    TransformType = "linear"
	TransformConcat    TransformType = "concat"
	TransformBucket    TransformType = "bucket"
	TransformRowNumber TransformType = "row_number"
	TransformRank      TransformType = "rank"
	TransformDenseRank TransformType = "dense_rank"
	TransformPrefixAgg TransformType = "prefix_agg"
	TransformWindow    TransformType = "window"
	TransformResetSum  TransformType = "reset_sum"
	TransformState     TransformType = "state"
	TransformToggle    TransformType = "toggle"
)

// Transform describes how one output column is produced. Only the fields
// meaningful for Type are populated; A and B default to the identity scaling
// (a=1, b=0) and are set explicitly by every constructor site.
type Transform struct {
	Type TransformType

	Source    string
	Sources   []string // concat: exactly two
	Order     string   // concat: "ab" or "ba"
	Delimiter string

	Value  table.Value // constant
	Prefix string
	Suffix string

	A float64 // y = a*x + b for linear and aggregate scaling
	B float64

	Partition []string
	Reverse   bool // row_number
	OrderBy   string
	Ascending bool

	Op        string // sum max min count mean median
	Predicate *Condition

	Thresholds []float64
	Labels     []table.Value

	Initial   table.Value
	Step      float64
	SkipFirst bool

	// Window geometry. Centered windows use Before/After radii; trailing
	// windows use Window rows ending at the current row.
	Centered bool
	Before   int
	After    int
	Window   int
}

// Plan is the complete, immutable synthesis result: filter, neighbor rules,
// and per-column transforms, sufficient to replay input to output.
// Alignment records the committed alignment for diagnostics; replay always
// recomputes keep/drop from Filter and NeighborRules against the full input.
type Plan struct {
	ID            string
	Ext           string
	OutputColumns []string
	Transforms    map[string]*Transform
	Filter        []*Condition // nil means "no filter"
	NeighborRules []*NeighborRule
	Alignment     []int

	// Validated is true only when replaying the plan over the sample input
	// reproduced the sample output exactly. Callers must treat unvalidated
	// plans as degraded, best-effort output.
	Validated bool
}

// MarshalJSON renders the condition in the wire shape shared with the
// rendered evaluator modules
func (c *Condition) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"column": c.Column}
	switch c.Kind {
	case KindChange:
		m["kind"] = KindChange
	case KindDeltaGE:
		m["kind"] = KindDeltaGE
		m["value"] = c.Delta
	default:
		m["op"] = c.Op
		if c.Op == "in" {
			m["value"] = c.Values
		} else {
			m["value"] = c.Value
		}
	}
	return json.Marshal(m)
}

// MarshalJSON renders the rule in the wire shape shared with the rendered
// evaluator modules
func (r *NeighborRule) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{
		"type":   r.Type,
		"offset": r.Offset,
		"column": r.Column,
	}
	switch r.Type {
	case NeighborCompare:
		m["neighbor_column"] = r.NeighborColumn
		m["op"] = r.Op
		m["require_neighbor"] = r.RequireNeighbor
	case NeighborValue:
		m["op"] = r.Op
		m["value"] = r.Value
	}
	return json.Marshal(m)
}

// MarshalJSON renders the transform in the wire shape shared with the
// rendered evaluator modules
func (t *Transform) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{"type": string(t.Type)}
	switch t.Type {
	case TransformConstant:
		m["value"] = t.Value
	case TransformCopy, TransformStrip, TransformLower, TransformUpper:
		m["source"] = t.Source
	case TransformPrefix:
		m["source"] = t.Source
		m["prefix"] = t.Prefix
	case TransformSuffix:
		m["source"] = t.Source
		m["suffix"] = t.Suffix
	case TransformLinear:
		m["source"] = t.Source
		m["a"] = t.A
		m["b"] = t.B
	case TransformConcat:
		m["sources"] = t.Sources
		m["delimiter"] = t.Delimiter
		m["order"] = t.Order
	case TransformBucket:
		m["source"] = t.Source
		m["thresholds"] = t.Thresholds
		m["labels"] = t.Labels
	case TransformRowNumber:
		m["partition"] = partitionList(t.Partition)
		m["reverse"] = t.Reverse
	case TransformRank, TransformDenseRank:
		m["partition"] = partitionList(t.Partition)
		m["order_by"] = t.OrderBy
		m["ascending"] = t.Ascending
	case TransformPrefixAgg:
		m["partition"] = partitionList(t.Partition)
		m["op"] = t.Op
		m["source"] = t.Source
		m["a"] = t.A
		m["b"] = t.B
		if t.Predicate != nil {
			m["predicate"] = t.Predicate
		}
	case TransformWindow:
		m["partition"] = partitionList(t.Partition)
		m["op"] = t.Op
		m["source"] = t.Source
		m["a"] = t.A
		m["b"] = t.B
		if t.Centered {
			m["before"] = t.Before
			m["after"] = t.After
		} else {
			m["window"] = t.Window
		}
		if t.Predicate != nil {
			m["predicate"] = t.Predicate
		}
	case TransformResetSum:
		m["partition"] = partitionList(t.Partition)
		m["source"] = t.Source
		m["predicate"] = t.Predicate
		m["skip_first"] = t.SkipFirst
	case TransformState:
		m["partition"] = partitionList(t.Partition)
		m["initial"] = t.Initial
		m["step"] = t.Step
		m["predicate"] = t.Predicate
		m["skip_first"] = t.SkipFirst
	case TransformToggle:
		m["partition"] = partitionList(t.Partition)
		m["initial"] = t.Initial
		m["labels"] = t.Labels
		m["predicate"] = t.Predicate
		m["skip_first"] = t.SkipFirst
	}
	return json.Marshal(m)
}

// MarshalJSON renders the full plan, including the validation verdict
func (p *Plan) MarshalJSON() ([]byte, error) {
	type alias struct {
		ID            string                `json:"id"`
		Ext           string                `json:"ext"`
		OutputColumns []string              `json:"output_columns"`
		Transforms    map[string]*Transform `json:"transforms"`
		Filter        []*Condition          `json:"filter_conditions"`
		NeighborRules []*NeighborRule       `json:"neighbor_rules"`
		Alignment     []int                 `json:"committed_alignment"`
		Validated     bool                  `json:"validated"`
	}
	return json.Marshal(alias{
		ID:            p.ID,
		Ext:           p.Ext,
		OutputColumns: p.OutputColumns,
		Transforms:    p.Transforms,
		Filter:        p.Filter,
		NeighborRules: p.NeighborRules,
		Alignment:     p.Alignment,
		Validated:     p.Validated,
	})
}

func partitionList(p []string) []string {
	if p == nil {
		return []string{}
	}
	return p
}
