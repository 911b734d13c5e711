/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render_test.go
Description: Tests for module rendering. Covers literal serialization for both
target languages, the emitted module files, and the unsupported-language error.
*/

package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/tablesynth/pkg/plan"
	"github.com/kleascm/tablesynth/pkg/render"
	"github.com/kleascm/tablesynth/pkg/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlan() *plan.Plan {
	return &plan.Plan{
		ID:            "test-plan",
		Ext:           "csv",
		OutputColumns: []string{"name"},
		Transforms: map[string]*plan.Transform{
			"name": {Type: plan.TransformCopy, Source: "name"},
		},
		Filter: []*plan.Condition{
			{Column: "score", Op: ">", Value: table.IntValue(10)},
		},
	}
}

// TestPyLiteral tests Python literal spellings with sorted keys
func TestPyLiteral(t *testing.T) {
	lit, err := render.PyLiteral(map[string]interface{}{
		"b": nil,
		"a": true,
		"c": false,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a": True, "b": None, "c": False}`, lit)

	lit, err = render.PyLiteral([]interface{}{1, 2.5, "x"})
	require.NoError(t, err)
	assert.Equal(t, `[1, 2.5, "x"]`, lit)
}

// TestJSLiteral tests JavaScript literal spellings
func TestJSLiteral(t *testing.T) {
	lit, err := render.JSLiteral(map[string]interface{}{
		"b": nil,
		"a": true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a": true, "b": null}`, lit)
}

// TestRenderPython tests the emitted Python package
func TestRenderPython(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, render.Render(samplePlan(), "python", "prep", dir))

	data, err := os.ReadFile(filepath.Join(dir, "prep", "__init__.py"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `EXT = "csv"`)
	assert.Contains(t, content, "OUTPUT_COLS = ")
	assert.Contains(t, content, "TRANSFORMS = ")
	assert.Contains(t, content, "class DynamicPreprocessor:")
	assert.Contains(t, content, `__all__ = ["DynamicPreprocessor"]`)
	// Python spellings, not JSON ones
	assert.NotContains(t, content, "NEIGHBOR_RULES = null")
	assert.Contains(t, content, "NEIGHBOR_RULES = None")
}

// TestRenderJavaScript tests the emitted JavaScript module
func TestRenderJavaScript(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, render.Render(samplePlan(), "javascript", "prep", dir))

	data, err := os.ReadFile(filepath.Join(dir, "prep", "index.js"))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "const OUTPUT_COLS = ")
	assert.Contains(t, content, "const TRANSFORMS = ")
	assert.Contains(t, content, "class DynamicPreprocessor {")
	assert.Contains(t, content, "module.exports = { DynamicPreprocessor };")
}

// TestRenderedParsersKeepZeroPaddedStrings tests that both emitted evaluators
// carry the loader's cell grammar: zero-padded tokens like "007" must stay
// strings, not fall through to a float parse
func TestRenderedParsersKeepZeroPaddedStrings(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, render.Render(samplePlan(), "python", "prep", dir))
	require.NoError(t, render.Render(samplePlan(), "javascript", "prep", dir))

	py, err := os.ReadFile(filepath.Join(dir, "prep", "__init__.py"))
	require.NoError(t, err)
	assert.Contains(t, string(py),
		`zero_padded = stripped.startswith("0") and stripped not in {"0", "0.0"} and not stripped.startswith("0.")`)
	assert.Contains(t, string(py), "if not zero_padded:",
		"the guard must cover the float parse, not just the int parse")

	js, err := os.ReadFile(filepath.Join(dir, "prep", "index.js"))
	require.NoError(t, err)
	assert.Contains(t, string(js),
		`const zeroPadded = trimmed.startsWith("0") && trimmed !== "0" && trimmed !== "0.0" && !trimmed.startsWith("0.");`)
	assert.Contains(t, string(js), "if (!zeroPadded && numericPattern.test(trimmed))")
}

// TestRenderUnsupportedLang tests the error for unknown languages
func TestRenderUnsupportedLang(t *testing.T) {
	err := render.Render(samplePlan(), "ruby", "prep", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language: ruby")
}

// TestRenderers tests the language registry
func TestRenderers(t *testing.T) {
	renderers := render.Renderers()
	require.Len(t, renderers, 2)
	assert.Equal(t, "python", renderers["python"].Lang())
	assert.Equal(t, "javascript", renderers["javascript"].Lang())
}
