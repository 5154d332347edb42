package summary

import (
	"fmt"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce sync.Once
	filtersErr  error

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func registerFilters() error {
	filtersOnce.Do(func() {
		filters := map[string]pongo2.FilterFunction{
			"sanitize": filterSanitize,
			"cell":     filterCell,
		}
		for name, fn := range filters {
			if pongo2.FilterExists(name) {
				continue
			}
			if err := pongo2.RegisterFilter(name, fn); err != nil {
				filtersErr = fmt.Errorf("summary: register filter %q: %w", name, err)
				return
			}
		}
	})
	return filtersErr
}

// Sanitize strips markup from free text before it lands in a markdown
// document.
func Sanitize(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}

// Cell sanitizes raw and makes it safe inside a markdown table cell.
func Cell(raw string) string {
	cleaned := Sanitize(raw)
	cleaned = strings.ReplaceAll(cleaned, "|", `\|`)
	cleaned = strings.ReplaceAll(cleaned, "\r\n", " ")
	return strings.ReplaceAll(cleaned, "\n", " ")
}

func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(Sanitize(in.String())), nil
}

func filterCell(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(Cell(in.String())), nil
}
