/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: render.go
Description: Module rendering for the tablesynth engine. Emits a validated plan
as a standalone preprocessor module in a target language. The emitted module
embeds the plan constants plus a fixed evaluator and needs no dependency on
this engine.
*/

package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kleascm/tablesynth/pkg/plan"
)

// Renderer emits one target language
type Renderer interface {
	// Lang returns the language flag this renderer serves
	Lang() string

	// Render writes the module files for the plan under outputDir/moduleName
	Render(p *plan.Plan, moduleName, outputDir string) error
}

// Renderers returns the supported renderers keyed by language flag
func Renderers() map[string]Renderer {
	return map[string]Renderer{
		"python":     &PythonRenderer{},
		"javascript": &JavaScriptRenderer{},
	}
}

// Render emits the plan as a module in the requested language
func Render(p *plan.Plan, lang, moduleName, outputDir string) error {
	r, ok := Renderers()[lang]
	if !ok {
		return fmt.Errorf("unsupported language: %s", lang)
	}
	return r.Render(p, moduleName, outputDir)
}

func writeModuleFile(outputDir, moduleName, fileName, content string) error {
	moduleDir := filepath.Join(outputDir, moduleName)
	if err := os.MkdirAll(moduleDir, 0o755); err != nil {
		return fmt.Errorf("failed to create module directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(moduleDir, fileName), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write module file: %w", err)
	}
	return nil
}
