package validator

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// Issue categories, in report order.
const (
	CategoryStructure     = "structure"
	CategoryDomainModel   = "domain-model"
	CategoryMicroflows    = "microflows"
	CategorySecurity      = "security"
	CategoryCompatibility = "compatibility"
)

// Categories lists every issue category in report order.
func Categories() []string {
	return []string{CategoryStructure, CategoryDomainModel, CategoryMicroflows, CategorySecurity, CategoryCompatibility}
}

// Issue is one validation finding. Issues are reported, never raised.
type Issue struct {
	Category string
	Rule     string
	File     string
	Message  string
}

func (i Issue) String() string {
	if i.File == "" {
		return i.Message
	}
	return i.File + ": " + i.Message
}

// Request describes one validation run.
type Request struct {
	// Root is the generated output tree.
	Root string
	// Comprehensive enables the patterns marked comprehensive.
	Comprehensive bool
	// ConfigPath, when set, must exist.
	ConfigPath string
}

// Result gathers the findings of one run.
type Result struct {
	Root            string
	Comprehensive   bool
	Checked         int
	RequiredMissing int
	Issues          []Issue
}

// Total returns the number of issues.
func (r Result) Total() int {
	return len(r.Issues)
}

// Passed reports whether the run found no issues.
func (r Result) Passed() bool {
	return len(r.Issues) == 0
}

// ByCategory groups issues by category.
func (r Result) ByCategory() map[string][]Issue {
	out := make(map[string][]Issue)
	for _, issue := range r.Issues {
		out[issue.Category] = append(out[issue.Category], issue)
	}
	return out
}

// Option configures a Validator.
type Option func(*Validator)

// WithRules replaces the embedded default rules.
func WithRules(rules Rules) Option {
	return func(v *Validator) {
		v.rules = &rules
	}
}

// WithLogger injects the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock injects the time source used in reports.
func WithClock(clock func() time.Time) Option {
	return func(v *Validator) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithPlatform overrides the target platform printed in reports.
func WithPlatform(platform string) Option {
	return func(v *Validator) {
		v.platform = platform
	}
}

// Validator checks a generated output tree. It never modifies the tree.
type Validator struct {
	rules    *Rules
	logger   *zap.Logger
	clock    func() time.Time
	platform string
}

// New constructs a Validator, compiling the rule set.
func New(options ...Option) (*Validator, error) {
	v := &Validator{
		logger: zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(v)
		}
	}
	if v.rules == nil {
		rules, err := DefaultRules()
		if err != nil {
			return nil, err
		}
		v.rules = &rules
	}
	if err := v.rules.compile(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate runs structure, well-formedness, required-name and pattern checks
// against req.Root. A missing root is an error; everything else is an Issue.
func (v *Validator) Validate(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	info, err := os.Stat(req.Root)
	if err != nil || !info.IsDir() {
		return Result{}, fmt.Errorf("validator: output directory %s not found", req.Root)
	}

	result := Result{Root: req.Root, Comprehensive: req.Comprehensive}
	add := func(issue Issue) {
		v.logger.Debug("validation issue",
			zap.String("category", issue.Category),
			zap.String("rule", issue.Rule),
			zap.String("file", issue.File),
			zap.String("message", issue.Message),
		)
		result.Issues = append(result.Issues, issue)
	}

	for _, dir := range v.rules.Directories {
		if !isDir(filepath.Join(req.Root, dir)) {
			add(Issue{Category: CategoryStructure, Rule: "directory", Message: "missing required directory: " + dir})
		}
	}
	if req.ConfigPath != "" {
		if _, err := os.Stat(req.ConfigPath); err != nil {
			add(Issue{Category: CategoryStructure, Rule: "config", Message: "missing configuration file: " + req.ConfigPath})
		}
	}

	files, err := v.scan(ctx, req.Root)
	if err != nil {
		return result, err
	}
	for _, dir := range sortedKeys(files) {
		for _, file := range files[dir] {
			result.Checked++
			if file.parseErr != nil {
				add(Issue{Category: categoryFor(dir), Rule: "well-formed", File: file.rel, Message: "invalid XML: " + file.parseErr.Error()})
			}
		}
	}

	for _, group := range v.rules.Required {
		present := make(map[string]bool, len(files[group.Directory]))
		for _, file := range files[group.Directory] {
			present[strings.TrimSuffix(file.name, filepath.Ext(file.name))] = true
		}
		category := group.Category
		if category == "" {
			category = categoryFor(group.Directory)
		}
		for _, name := range group.Names {
			if present[name] {
				continue
			}
			result.RequiredMissing++
			add(Issue{
				Category: category,
				Rule:     "required",
				File:     group.Directory + "/" + name + ".xml",
				Message:  fmt.Sprintf("missing required %s: %s", labelOr(group.Label, "artifact"), name),
			})
		}
	}

	for _, pattern := range v.rules.Patterns {
		if pattern.Comprehensive && !req.Comprehensive {
			continue
		}
		for _, dir := range pattern.Directories {
			for _, file := range files[dir] {
				if !pattern.matches(file.content) {
					continue
				}
				category := pattern.Category
				if category == "" {
					category = categoryFor(dir)
				}
				add(Issue{Category: category, Rule: pattern.Name, File: file.rel, Message: pattern.Message})
			}
		}
	}

	v.logger.Info("validation finished",
		zap.String("root", req.Root),
		zap.Int("checked", result.Checked),
		zap.Int("issues", result.Total()),
		zap.Bool("comprehensive", req.Comprehensive),
	)
	return result, nil
}

type scanned struct {
	name     string
	rel      string
	content  string
	parseErr error
}

// scan reads every .xml file in the kind directories and any directory named
// by the rules, once.
func (v *Validator) scan(ctx context.Context, root string) (map[string][]scanned, error) {
	dirs := make(map[string]struct{})
	for _, spec := range artifact.Specs() {
		dirs[spec.Dir] = struct{}{}
	}
	for _, dir := range v.rules.Directories {
		dirs[dir] = struct{}{}
	}
	for _, group := range v.rules.Required {
		dirs[group.Directory] = struct{}{}
	}
	for _, pattern := range v.rules.Patterns {
		for _, dir := range pattern.Directories {
			dirs[dir] = struct{}{}
		}
	}

	out := make(map[string][]scanned, len(dirs))
	for dir := range dirs {
		entries, err := os.ReadDir(filepath.Join(root, dir))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("validator: read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.Type().IsRegular() || !strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			path := filepath.Join(root, dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("validator: read %s: %w", path, err)
			}
			out[dir] = append(out[dir], scanned{
				name:     entry.Name(),
				rel:      dir + "/" + entry.Name(),
				content:  string(data),
				parseErr: wellFormed(data),
			})
		}
		sort.Slice(out[dir], func(i, j int) bool { return out[dir][i].name < out[dir][j].name })
	}
	return out, nil
}

// wellFormed reports the first syntax error in data, including a missing or
// repeated root element.
func wellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	roots, depth := 0, 0
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	switch {
	case roots == 0:
		return errors.New("no root element")
	case roots > 1:
		return errors.New("multiple root elements")
	}
	return nil
}

func categoryFor(dir string) string {
	switch dir {
	case "domain-model", "enumerations":
		return CategoryDomainModel
	case "microflows":
		return CategoryMicroflows
	case "security":
		return CategorySecurity
	default:
		return CategoryCompatibility
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func labelOr(label, def string) string {
	if label == "" {
		return def
	}
	return label
}

func sortedKeys(m map[string][]scanned) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
