package packager

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/generator"
	"github.com/goliatone/go-lowcodegen/pkg/summary"
)

// Manifest is serialized as manifest.json at the archive root.
type Manifest struct {
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	Description     string       `json:"description"`
	Author          string       `json:"author"`
	PlatformVersion string       `json:"mendixVersion"`
	PackageType     string       `json:"packageType"`
	Dependencies    []Dependency `json:"dependencies"`
	License         string       `json:"license"`
	Keywords        []string     `json:"keywords"`
	Created         string       `json:"created"`
	GUID            string       `json:"guid"`
}

// Dependency names a module the package expects to be installed.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// DefaultManifest describes the LAB validation workflow module.
func DefaultManifest() Manifest {
	return Manifest{
		Name:            "LABProductValidationWorkflow",
		Version:         "1.0.0",
		Description:     "Complete LAB Product Validation Workflow with TRUE/FALSE decision logic",
		Author:          "LAB Workflow Generator",
		PlatformVersion: strings.TrimPrefix(generator.DefaultPlatform, "Mendix "),
		PackageType:     "Module",
		Dependencies: []Dependency{
			{Name: "WorkflowCommons", Version: "3.12.1"},
			{Name: "Atlas_Core", Version: "3.0.0"},
		},
		License:  "MIT",
		Keywords: []string{"workflow", "validation", "lab", "quality"},
	}
}

func moduleNode(manifest Manifest, result Result) *artifact.Node {
	module := artifact.NewNode("module").
		Set("name", manifest.Name).
		Set("version", manifest.Version)

	var doc strings.Builder
	doc.WriteString(summary.DefaultProject + " module\n\n")
	doc.WriteString(manifest.Description + "\n\nContents:\n")
	for _, spec := range artifact.Specs() {
		if n := result.Counts[spec.Kind]; n > 0 {
			fmt.Fprintf(&doc, "- %s\n", summary.Count(n, summary.Noun(spec.Kind)))
		}
	}
	doc.WriteString("\nSee documentation/INSTALLATION_GUIDE.md for installation steps.")
	module.TextElement("documentation", doc.String())

	deps := module.Element("dependencies")
	for _, dep := range manifest.Dependencies {
		deps.Element("dependency").Set("name", dep.Name).Set("version", dep.Version)
	}
	return module
}
