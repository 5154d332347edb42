package packager_test

import (
	"archive/zip"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/packager"
	"github.com/goliatone/go-lowcodegen/pkg/testsupport"
)

var (
	fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fixedID   = uuid.MustParse("6f1c1a52-2a4b-4d8e-9c77-0e9d7f0b1a23")
)

func newPackager(t *testing.T, opts ...packager.Option) *packager.Packager {
	t.Helper()
	base := []packager.Option{
		packager.WithClock(func() time.Time { return fixedTime }),
		packager.WithIDGenerator(func() uuid.UUID { return fixedID }),
	}
	p, err := packager.New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func seedTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(root, "domain-model"), "Widget.xml", `<entity name="Widget"/>`)
	testsupport.WriteFile(t, filepath.Join(root, "domain-model"), "Gadget.xml", `<entity name="Gadget"/>`)
	testsupport.WriteFile(t, filepath.Join(root, "domain-model"), "DOMAIN_MODEL_SUMMARY.md", "# summary\n")
	testsupport.WriteFile(t, filepath.Join(root, "workflows"), "Flow.xml", `<workflow name="Flow"/>`)
	testsupport.WriteFile(t, filepath.Join(root, "workflows"), "notes.txt", "ignored")
	return root
}

func readArchive(t *testing.T, path string) map[string][]byte {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	out := make(map[string][]byte, len(reader.File))
	for _, file := range reader.File {
		assert.Equal(t, zip.Deflate, file.Method, file.Name)
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[file.Name] = data
	}
	return out
}

func TestBuild_ArchiveContents(t *testing.T) {
	root := seedTree(t)
	p := newPackager(t)

	result, err := p.Build(context.Background(), packager.Request{Root: root})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "LABProductValidationWorkflow_v1.0.0.mpk"), result.Path)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Counts[artifact.KindEntity])
	assert.Equal(t, 1, result.Counts[artifact.KindWorkflow])
	assert.Equal(t, fixedID.String(), result.GUID)
	assert.Positive(t, result.Size)

	files := readArchive(t, result.Path)
	assert.ElementsMatch(t, []string{
		"manifest.json",
		"module.xml",
		"domain-model/Gadget.xml",
		"domain-model/Widget.xml",
		"workflows/Flow.xml",
		"documentation/DOMAIN_MODEL_SUMMARY.md",
		"documentation/INSTALLATION_GUIDE.md",
	}, keys(files))
	assert.Equal(t, `<entity name="Widget"/>`, string(files["domain-model/Widget.xml"]))
	assert.Equal(t, "manifest.json", result.Entries[0])

	var manifest packager.Manifest
	require.NoError(t, json.Unmarshal(files["manifest.json"], &manifest))
	assert.Equal(t, "LABProductValidationWorkflow", manifest.Name)
	assert.Equal(t, "1.0.0", manifest.Version)
	assert.Equal(t, fixedID.String(), manifest.GUID)
	assert.Equal(t, fixedTime.Format(time.RFC3339), manifest.Created)
	assert.NotEmpty(t, manifest.Dependencies)

	var module struct {
		XMLName xml.Name `xml:"module"`
		Name    string   `xml:"name,attr"`
		Deps    []struct {
			Name string `xml:"name,attr"`
		} `xml:"dependencies>dependency"`
	}
	require.NoError(t, xml.Unmarshal(files["module.xml"], &module))
	assert.Equal(t, "LABProductValidationWorkflow", module.Name)
	assert.Len(t, module.Deps, len(manifest.Dependencies))

	guide := string(files["documentation/INSTALLATION_GUIDE.md"])
	assert.Contains(t, guide, "2 entities")
	assert.Contains(t, guide, "1 workflow")
	assert.Contains(t, guide, "Total: 3 XML files.")
	assert.Contains(t, guide, "LABProductValidationWorkflow_v1.0.0.mpk")

	leftovers, err := filepath.Glob(filepath.Join(root, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestBuild_ArchiveIsWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	root := seedTree(t)

	result, err := newPackager(t).Build(context.Background(), packager.Request{Root: root})
	require.NoError(t, err)

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestBuild_MissingRoot(t *testing.T) {
	_, err := newPackager(t).Build(context.Background(), packager.Request{Root: filepath.Join(t.TempDir(), "absent")})

	var precondition *packager.PreconditionError
	require.ErrorAs(t, err, &precondition)
}

func TestBuild_EmptyTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "domain-model"), 0o755))

	_, err := newPackager(t).Build(context.Background(), packager.Request{Root: root})

	var precondition *packager.PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Contains(t, precondition.Reason, "no XML files")
	matches, _ := filepath.Glob(filepath.Join(root, "*.mpk"))
	assert.Empty(t, matches)
}

func TestBuild_ConfirmBeforeOverwrite(t *testing.T) {
	root := seedTree(t)
	existing := testsupport.WriteFile(t, root, "custom.mpk", "old archive")

	var asked []string
	declining := newPackager(t, packager.WithConfirm(func(_ context.Context, path string) (bool, error) {
		asked = append(asked, path)
		return false, nil
	}))
	_, err := declining.Build(context.Background(), packager.Request{Root: root, Filename: "custom.mpk"})
	require.True(t, errors.Is(err, packager.ErrDeclined))
	assert.Equal(t, []string{existing}, asked)
	assert.Equal(t, "old archive", testsupport.ReadFile(t, existing))

	accepting := newPackager(t, packager.WithConfirm(func(context.Context, string) (bool, error) {
		return true, nil
	}))
	result, err := accepting.Build(context.Background(), packager.Request{Root: root, Filename: "custom.mpk"})
	require.NoError(t, err)
	assert.Contains(t, keys(readArchive(t, result.Path)), "manifest.json")
}

func TestBuild_RejectsNestedFilename(t *testing.T) {
	_, err := newPackager(t).Build(context.Background(), packager.Request{Root: seedTree(t), Filename: "../escape.mpk"})
	require.Error(t, err)
}

func TestDefaultFilenameFollowsManifest(t *testing.T) {
	manifest := packager.DefaultManifest()
	manifest.Name = "Demo"
	manifest.Version = "2.1.0"

	p := newPackager(t, packager.WithManifest(manifest))
	assert.Equal(t, "Demo_v2.1.0.mpk", p.DefaultFilename())
}

func keys(files map[string][]byte) []string {
	out := make([]string, 0, len(files))
	for name := range files {
		out = append(out, name)
	}
	return out
}
