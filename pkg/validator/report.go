package validator

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/go-openapi/inflect"
	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/summary"
)

// ReportFile is the conventional report name at the output root.
const ReportFile = "VALIDATION_REPORT.txt"

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Report renders the plain-text validation report for result.
func (v *Validator) Report(result Result) ([]byte, error) {
	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("validator: sub templates: %w", err)
	}
	engine, err := summary.New(
		summary.WithFS(templates),
		summary.WithClock(v.clock),
		summary.WithPlatform(v.platform),
	)
	if err != nil {
		return nil, fmt.Errorf("validator: template engine: %w", err)
	}

	grouped := result.ByCategory()
	groups := make([]map[string]any, 0, len(grouped))
	for _, category := range reportOrder(grouped) {
		issues := grouped[category]
		if len(issues) == 0 {
			continue
		}
		lines := make([]string, 0, len(issues))
		for _, issue := range issues {
			lines = append(lines, issue.String())
		}
		groups = append(groups, map[string]any{
			"title":  inflect.Titleize(strings.ReplaceAll(category, "-", " ")),
			"issues": lines,
		})
	}

	out, err := engine.Render("report", pongo2.Context{
		"rule":          strings.Repeat("=", 50),
		"root":          result.Root,
		"comprehensive": result.Comprehensive,
		"checked":       result.Checked,
		"passed":        result.Passed(),
		"total":         summary.Count(result.Total(), "issue"),
		"groups":        groups,
	})
	if err != nil {
		return nil, fmt.Errorf("validator: render report: %w", err)
	}
	return out, nil
}

// WriteReport renders the report for result and writes it to path.
func (v *Validator) WriteReport(path string, result Result) error {
	content, err := v.Report(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("validator: write report %s: %w", path, err)
	}
	v.logger.Info("validation report written", zap.String("file", path))
	return nil
}

// reportOrder lists the known categories first, then any other category
// present in grouped, sorted by name.
func reportOrder(grouped map[string][]Issue) []string {
	order := Categories()
	var extra []string
	for category := range grouped {
		if !knownCategory(category) {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	return append(order, extra...)
}
