// Package report renders parse results through text/template.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"github.com/Epistemic-Technology/docparse/internal/logger"
	"github.com/Epistemic-Technology/docparse/internal/parseerr"
	"github.com/Epistemic-Technology/docparse/models"
)

// View is the data a template executes against. The embedded result
// exposes fields and query methods such as .TotalWords, .Page 2 and
// .HeadingsByLevel 1; caller variables live under .Extra.
type View struct {
	*models.DocumentResult
	Extra map[string]any
}

// TemplateDef names one template for RenderMultiple. Exactly one of
// String, File or Builtin should be set.
type TemplateDef struct {
	Name    string `json:"name" yaml:"name"`
	String  string `json:"string,omitempty" yaml:"string,omitempty"`
	File    string `json:"file,omitempty" yaml:"file,omitempty"`
	Builtin string `json:"builtin,omitempty" yaml:"builtin,omitempty"`
}

type Renderer struct {
	templateDir string
	log         logger.Logger
}

func NewRenderer(templateDir string, log logger.Logger) *Renderer {
	return &Renderer{templateDir: templateDir, log: log}
}

// BuiltinNames lists the predefined templates in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"join":  strings.Join,
		"indent": func(level int) string {
			return strings.Repeat("  ", max(level-1, 0))
		},
		"truncate": truncate,
		"timestamp": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
	}
}

// truncate keeps the first n runes of s and appends "..." when it cut
// anything.
func truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func (r *Renderer) execute(name, text string, doc *models.DocumentResult, extra map[string]any) (string, error) {
	if doc == nil {
		return "", parseerr.New(parseerr.InvalidConfiguration, "", "template %q: no document to render", name)
	}
	tpl, err := template.New(name).Funcs(funcMap()).Parse(text)
	if err != nil {
		return "", parseerr.Wrap(parseerr.InvalidConfiguration, "", err, fmt.Sprintf("failed to parse template %q", name))
	}
	if extra == nil {
		extra = map[string]any{}
	}
	var b strings.Builder
	if err := tpl.Execute(&b, View{DocumentResult: doc, Extra: extra}); err != nil {
		return "", parseerr.Wrap(parseerr.InvalidConfiguration, "", err, fmt.Sprintf("failed to render template %q", name))
	}
	return b.String(), nil
}

// RenderString renders an inline template.
func (r *Renderer) RenderString(text string, doc *models.DocumentResult, extra map[string]any) (string, error) {
	r.log.Debug("Rendering template from string")
	return r.execute("inline", text, doc, extra)
}

// RenderFile renders a template stored in the renderer's template
// directory. The name must stay inside that directory.
func (r *Renderer) RenderFile(name string, doc *models.DocumentResult, extra map[string]any) (string, error) {
	if r.templateDir == "" {
		return "", parseerr.New(parseerr.InvalidConfiguration, "", "template directory not configured for file-based templates")
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", parseerr.New(parseerr.InvalidConfiguration, name, "template name escapes the template directory")
	}

	path := filepath.Join(r.templateDir, clean)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", parseerr.Wrap(parseerr.InvalidConfiguration, path, err, "template file not found")
		}
		return "", parseerr.Wrap(parseerr.InvalidConfiguration, path, err, "cannot read template file")
	}

	r.log.Debug("Rendering template from file: %s", path)
	return r.execute(clean, string(data), doc, extra)
}

// RenderBuiltin renders one of the predefined templates.
func (r *Renderer) RenderBuiltin(name string, doc *models.DocumentResult, extra map[string]any) (string, error) {
	text, ok := builtins[name]
	if !ok {
		return "", parseerr.New(parseerr.InvalidConfiguration, "", "unknown builtin template %q, available: %s", name, strings.Join(BuiltinNames(), ", "))
	}
	return r.execute(name, text, doc, extra)
}

// Render dispatches a single definition.
func (r *Renderer) Render(def TemplateDef, doc *models.DocumentResult, extra map[string]any) (string, error) {
	switch {
	case def.String != "":
		return r.RenderString(def.String, doc, extra)
	case def.File != "":
		return r.RenderFile(def.File, doc, extra)
	case def.Builtin != "":
		return r.RenderBuiltin(def.Builtin, doc, extra)
	default:
		return "", parseerr.New(parseerr.InvalidConfiguration, "", "template %q has no string, file or builtin", def.Name)
	}
}

// RenderMultiple renders each definition against the same document.
// Definitions without a name or source are skipped; a failing template
// maps to "Error: <message>" instead of aborting the rest.
func (r *Renderer) RenderMultiple(defs []TemplateDef, doc *models.DocumentResult, extra map[string]any) map[string]string {
	results := make(map[string]string, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			r.log.Warn("Template definition missing name, skipping")
			continue
		}
		if def.String == "" && def.File == "" && def.Builtin == "" {
			r.log.Warn("Template %q has no source, skipping", def.Name)
			continue
		}
		out, err := r.Render(def, doc, extra)
		if err != nil {
			r.log.Error("Failed to render template %q: %v", def.Name, err)
			results[def.Name] = "Error: " + err.Error()
			continue
		}
		results[def.Name] = out
	}
	return results
}

// SaveRendered writes rendered output to path, creating parent directories.
func SaveRendered(path, rendered string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
