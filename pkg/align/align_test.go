/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: align_test.go
Description: Tests for alignment search. Covers subsequence candidate discovery,
cheap transform matching, identity and prefix fallbacks, and mapping
deduplication.
*/

package align_test

import (
	"testing"

	"github.com/kleascm/tablesynth/pkg/align"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strTable(col string, vals ...string) *table.Table {
	t := &table.Table{Columns: []string{col}}
	for _, v := range vals {
		t.Rows = append(t.Rows, table.Row{col: table.StringValue(v)})
	}
	return t
}

// TestSearchSubsequence tests that a filtered output yields its row mapping
func TestSearchSubsequence(t *testing.T) {
	input := strTable("id", "a", "b", "c", "d")
	output := strTable("id", "b", "d")

	mappings := align.Search(input, output)
	require.NotEmpty(t, mappings)
	assert.Equal(t, []int{1, 3}, mappings[0])
}

// TestSearchCheapTransform tests matching through a case-folding transform
func TestSearchCheapTransform(t *testing.T) {
	input := strTable("name", "Alice", "Bob", "Carol")
	output := strTable("name", "alice", "carol")

	mappings := align.Search(input, output)
	require.NotEmpty(t, mappings)
	assert.Contains(t, mappings, []int{0, 2})
}

// TestSearchSkipsConstantColumns tests that constant output columns propose nothing
func TestSearchSkipsConstantColumns(t *testing.T) {
	input := strTable("id", "a", "b")
	output := strTable("id", "x", "x")

	assert.Empty(t, align.Search(input, output))
}

// TestSearchDeduplicates tests that identical mappings from different columns collapse
func TestSearchDeduplicates(t *testing.T) {
	input := &table.Table{
		Columns: []string{"a", "b"},
		Rows: []table.Row{
			{"a": table.StringValue("x"), "b": table.StringValue("p")},
			{"a": table.StringValue("y"), "b": table.StringValue("q")},
		},
	}
	output := &table.Table{
		Columns: []string{"a", "b"},
		Rows: []table.Row{
			{"a": table.StringValue("x"), "b": table.StringValue("p")},
			{"a": table.StringValue("y"), "b": table.StringValue("q")},
		},
	}

	mappings := align.Search(input, output)
	require.Len(t, mappings, 1)
	assert.Equal(t, []int{0, 1}, mappings[0])
}

// TestIdentityMapping tests the identity fallback
func TestIdentityMapping(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, align.IdentityMapping(3, 3))
	assert.Nil(t, align.IdentityMapping(2, 3))
}

// TestPrefixMapping tests the last-resort prefix fallback
func TestPrefixMapping(t *testing.T) {
	assert.Equal(t, []int{0, 1}, align.PrefixMapping(2, 4))
	// Never maps past the input
	assert.Equal(t, []int{0, 1, 2}, align.PrefixMapping(5, 3))
}

// TestMappingKey tests mapping identity keys
func TestMappingKey(t *testing.T) {
	assert.Equal(t, align.MappingKey([]int{1, 2}), align.MappingKey([]int{1, 2}))
	assert.NotEqual(t, align.MappingKey([]int{1, 2}), align.MappingKey([]int{12}))
}
