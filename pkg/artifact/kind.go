package artifact

import "fmt"

// Kind identifies one family of generated artifacts.
type Kind string

const (
	KindEntity       Kind = "entity"
	KindEnumeration  Kind = "enumeration"
	KindMicroflow    Kind = "microflow"
	KindPage         Kind = "page"
	KindSecurityRole Kind = "security_role"
	KindWorkflow     Kind = "workflow"
)

// Spec carries the static naming facts of a kind: where its records live in the
// configuration, where its files land, and what its summary is called.
type Spec struct {
	Kind        Kind
	ConfigKey   string
	Dir         string
	Root        string
	SummaryFile string
}

var specs = []Spec{
	{Kind: KindEntity, ConfigKey: "entities", Dir: "domain-model", Root: "entity", SummaryFile: "DOMAIN_MODEL_SUMMARY.md"},
	{Kind: KindEnumeration, ConfigKey: "enumerations", Dir: "enumerations", Root: "enumeration", SummaryFile: "ENUMERATIONS_SUMMARY.md"},
	{Kind: KindMicroflow, ConfigKey: "microflows", Dir: "microflows", Root: "microflow", SummaryFile: "MICROFLOWS_SUMMARY.txt"},
	{Kind: KindPage, ConfigKey: "pages", Dir: "pages", Root: "page", SummaryFile: "PAGES_SUMMARY.md"},
	{Kind: KindSecurityRole, ConfigKey: "security_roles", Dir: "security", Root: "moduleRole", SummaryFile: "SECURITY_SUMMARY.txt"},
	{Kind: KindWorkflow, ConfigKey: "workflows", Dir: "workflows", Root: "workflow", SummaryFile: "WORKFLOW_DIAGRAM.md"},
}

// Kinds returns every known kind in generation order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec.Kind)
	}
	return out
}

// Specs returns the naming facts for every kind in generation order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

// Lookup returns the Spec registered for kind.
func Lookup(kind Kind) (Spec, bool) {
	for _, spec := range specs {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return Spec{}, false
}

// MustLookup panics when kind is unknown. Intended for package-level wiring.
func MustLookup(kind Kind) Spec {
	spec, ok := Lookup(kind)
	if !ok {
		panic(fmt.Sprintf("artifact: unknown kind %q", kind))
	}
	return spec
}

// ParseKind resolves a kind from its own name, its configuration key, or its
// output directory, so "entity", "entities" and "domain-model" all match.
func ParseKind(raw string) (Kind, error) {
	for _, spec := range specs {
		switch raw {
		case string(spec.Kind), spec.ConfigKey, spec.Dir:
			return spec.Kind, nil
		}
	}
	return "", fmt.Errorf("artifact: unknown kind %q", raw)
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}
