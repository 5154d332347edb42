package summary

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/go-openapi/inflect"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/generator"
)

// DefaultProject names the generated module in every document header.
const DefaultProject = "LAB Product Validation Workflow"

// TimestampLayout formats the "Generated on" line.
const TimestampLayout = "2006-01-02 15:04:05"

//go:embed templates/*.tpl
var embedded embed.FS

// Templates exposes the built-in summary templates.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("summary: sub templates: %v", err))
	}
	return sub
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock injects the time source used for the "Generated on" stamp.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithPlatform overrides the platform compatibility line.
func WithPlatform(platform string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(platform); trimmed != "" {
			e.platform = trimmed
		}
	}
}

// WithProject overrides the project name printed in headers.
func WithProject(project string) Option {
	return func(e *Engine) {
		if trimmed := strings.TrimSpace(project); trimmed != "" {
			e.project = trimmed
		}
	}
}

// WithFS adds a template source consulted before the built-in templates, so
// callers can ship their own documents or override a built-in one.
func WithFS(files fs.FS) Option {
	return func(e *Engine) {
		if files != nil {
			e.sources = append(e.sources, files)
		}
	}
}

// Engine renders summary documents from pongo2 templates.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	sources   []fs.FS
	clock     func() time.Time
	platform  string
	project   string
}

// New constructs an Engine backed by the embedded templates plus any sources
// supplied through WithFS.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		templates: make(map[string]*pongo2.Template),
		clock:     time.Now,
		platform:  generator.DefaultPlatform,
		project:   DefaultProject,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	loaders := make([]pongo2.TemplateLoader, 0, len(e.sources)+1)
	for _, files := range e.sources {
		loaders = append(loaders, pongo2.NewFSLoader(files))
	}
	loaders = append(loaders, pongo2.NewFSLoader(Templates()))

	if err := registerFilters(); err != nil {
		return nil, err
	}
	e.set = pongo2.NewSet("lowcodegen", loaders...)
	return e, nil
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// Platform returns the compatibility line printed in documents.
func (e *Engine) Platform() string {
	return e.platform
}

// Summarize renders the summary document for one kind.
func (e *Engine) Summarize(kind artifact.Kind, entries []artifact.Entry) ([]byte, error) {
	spec, ok := artifact.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("summary: unknown kind %q", kind)
	}

	views := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		views = append(views, entryView(entry))
	}

	noun := Noun(kind)
	data := pongo2.Context{
		"title":   inflect.Titleize(inflect.Pluralize(noun)),
		"total":   Count(len(entries), noun),
		"entries": views,
		"rule":    strings.Repeat("=", 60),
		"kind":    string(kind),
	}
	return e.Render(templateFor(spec), data)
}

// Render executes a named template (extension optional) with data. The
// project, platform and generated timestamp are always available.
func (e *Engine) Render(name string, data pongo2.Context) ([]byte, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("summary: engine is nil")
	}
	if path.Ext(name) == "" {
		name += ".tpl"
	}
	tmpl, err := e.template(name)
	if err != nil {
		return nil, err
	}

	ctx := pongo2.Context{
		"project":   e.project,
		"platform":  e.platform,
		"generated": e.clock().Format(TimestampLayout),
	}
	ctx.Update(data)

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return nil, fmt.Errorf("summary: execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("summary: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

func templateFor(spec artifact.Spec) string {
	switch {
	case spec.Kind == artifact.KindWorkflow:
		return "workflow.tpl"
	case path.Ext(spec.SummaryFile) == ".txt":
		return "text.tpl"
	default:
		return "markdown.tpl"
	}
}

// Noun returns the human singular for kind, e.g. "security role".
func Noun(kind artifact.Kind) string {
	return strings.ReplaceAll(string(kind), "_", " ")
}

// Count renders n with the singular or plural form of noun.
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %s", n, inflect.Pluralize(noun))
}

func entryView(entry artifact.Entry) map[string]any {
	facts := make([]map[string]string, 0, len(entry.Facts))
	for _, fact := range entry.Facts {
		facts = append(facts, map[string]string{"label": fact.Label, "value": fact.Value})
	}
	view := map[string]any{
		"name":        entry.Name,
		"description": entry.Description,
		"facts":       facts,
	}
	if entry.Table != nil && len(entry.Table.Headers) > 0 {
		view["headers"] = entry.Table.Headers
		view["rows"] = entry.Table.Rows
	}
	if entry.Graph != nil {
		view["mermaid"] = Mermaid(entry.Graph)
	}
	return view
}
