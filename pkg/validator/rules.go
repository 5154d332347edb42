package validator

import (
	"embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules/default.yaml
var defaultRules embed.FS

// Rules is the injectable rule set: which directories must exist, which
// artifacts must be present, and which substrings are disallowed.
type Rules struct {
	Directories []string   `yaml:"directories"`
	Required    []Required `yaml:"required"`
	Patterns    []Pattern  `yaml:"patterns"`
}

// Required lists artifact names that must exist as <Directory>/<name>.xml.
type Required struct {
	Category  string   `yaml:"category"`
	Directory string   `yaml:"directory"`
	Label     string   `yaml:"label"`
	Names     []string `yaml:"names"`
}

// Pattern flags file content. Match is a plain substring, Regex a regular
// expression; exactly one must be set. Requires and Unless gate the pattern on
// other substrings being present or absent in the same file.
type Pattern struct {
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Directories   []string `yaml:"directories"`
	Match         string   `yaml:"match"`
	Regex         string   `yaml:"regex"`
	IgnoreCase    bool     `yaml:"ignore_case"`
	Requires      string   `yaml:"requires"`
	Unless        string   `yaml:"unless"`
	Comprehensive bool     `yaml:"comprehensive"`
	Message       string   `yaml:"message"`

	re *regexp.Regexp
}

// DefaultRules returns the embedded rule set.
func DefaultRules() (Rules, error) {
	data, err := defaultRules.ReadFile("rules/default.yaml")
	if err != nil {
		return Rules{}, fmt.Errorf("validator: read default rules: %w", err)
	}
	return ParseRules(data)
}

// LoadRules reads a rule set from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("validator: read rules %s: %w", path, err)
	}
	rules, err := ParseRules(data)
	if err != nil {
		return Rules{}, fmt.Errorf("validator: rules %s: %w", path, err)
	}
	return rules, nil
}

// ParseRules decodes and compiles a YAML rule set.
func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("validator: decode rules: %w", err)
	}
	if err := rules.compile(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r *Rules) compile() error {
	for i := range r.Patterns {
		p := &r.Patterns[i]
		if p.Name == "" {
			return fmt.Errorf("validator: pattern %d has no name", i)
		}
		if (p.Match == "") == (p.Regex == "") {
			return fmt.Errorf("validator: pattern %q needs exactly one of match or regex", p.Name)
		}
		if len(p.Directories) == 0 {
			return fmt.Errorf("validator: pattern %q lists no directories", p.Name)
		}
		if p.Regex != "" {
			expr := p.Regex
			if p.IgnoreCase {
				expr = "(?i)" + expr
			}
			re, err := regexp.Compile(expr)
			if err != nil {
				return fmt.Errorf("validator: pattern %q: %w", p.Name, err)
			}
			p.re = re
		}
		if p.Category != "" && !knownCategory(p.Category) {
			return fmt.Errorf("validator: pattern %q has unknown category %q", p.Name, p.Category)
		}
		if p.Message == "" {
			p.Message = "matched " + p.Name
		}
	}
	for i, req := range r.Required {
		if req.Directory == "" {
			return fmt.Errorf("validator: required group %d has no directory", i)
		}
		if req.Category != "" && !knownCategory(req.Category) {
			return fmt.Errorf("validator: required group %d has unknown category %q", i, req.Category)
		}
	}
	return nil
}

func (p Pattern) matches(content string) bool {
	if p.Requires != "" && !strings.Contains(content, p.Requires) {
		return false
	}
	if p.Unless != "" && strings.Contains(content, p.Unless) {
		return false
	}
	if p.re != nil {
		return p.re.MatchString(content)
	}
	if p.IgnoreCase {
		return strings.Contains(strings.ToLower(content), strings.ToLower(p.Match))
	}
	return strings.Contains(content, p.Match)
}

func knownCategory(category string) bool {
	for _, known := range Categories() {
		if category == known {
			return true
		}
	}
	return false
}
