package generator

import (
	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/config"
)

// DefaultPlatform is the platform version quoted in verbose documentation.
const DefaultPlatform = "Mendix 10.18.1"

// Builder turns one configuration record into an artifact tree. Builders are
// pure and total over missing fields: absent values map to placeholders.
// Input that cannot be coerced at all yields a *RecordError.
type Builder interface {
	Kind() artifact.Kind
	Build(record config.Record, opts Options) (*artifact.Node, error)
	Describe(record config.Record) artifact.Entry
}

// Options tunes builder output.
type Options struct {
	// Verbose adds explanatory comments and a platform note to the root
	// documentation.
	Verbose bool
	// Platform names the target platform version in verbose output.
	Platform string
}

func (o Options) platform() string {
	if o.Platform == "" {
		return DefaultPlatform
	}
	return o.Platform
}

// Namespaces used on root elements of domain, microflow and project artifacts.
const (
	NamespaceDomain     = "http://www.mendix.com/metamodel/Domain/7.0.0"
	NamespaceMicroflows = "http://www.mendix.com/metamodel/MicroFlows/7.0.0"
	NamespaceProjects   = "http://www.mendix.com/metamodel/Projects/7.0.0"
	NamespaceXSI        = "http://www.w3.org/2001/XMLSchema-instance"
)

// NameOf returns the artifact name of record, falling back to def. It fails
// when the name is not a scalar or could escape the output directory.
func NameOf(kind artifact.Kind, record config.Record, def string) (string, error) {
	if value, ok := record.Get("name"); ok && value != nil {
		if _, scalar := config.ScalarString(value); !scalar {
			return "", &RecordError{Kind: kind, Field: "name", Reason: "name must be a scalar"}
		}
	}
	name := record.String("name", def)
	if !safeName(name) {
		return "", &RecordError{Kind: kind, Name: name, Field: "name", Reason: "name is not a valid file name"}
	}
	return name, nil
}

// Label returns a best-effort name for diagnostics, never failing.
func Label(raw any) string {
	record, ok := raw.(config.Record)
	if !ok {
		return "<invalid>"
	}
	if name, ok := record.Scalar("name"); ok && name != "" {
		return name
	}
	return "<unnamed>"
}
