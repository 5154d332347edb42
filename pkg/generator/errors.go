package generator

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
)

// RecordError reports a configuration record that could not be turned into an
// artifact. The pipeline logs it, skips the record and carries on.
type RecordError struct {
	Kind   artifact.Kind
	Name   string
	Index  int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	var b strings.Builder
	b.WriteString("generator: ")
	b.WriteString(string(e.Kind))
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}
