package packager

import (
	"archive/zip"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	"github.com/goliatone/go-lowcodegen/pkg/render"
	"github.com/goliatone/go-lowcodegen/pkg/summary"
)

const (
	manifestEntry = "manifest.json"
	moduleEntry   = "module.xml"
	docsDir       = "documentation"
	guideEntry    = docsDir + "/INSTALLATION_GUIDE.md"
)

//go:embed templates/*.tpl
var embedded embed.FS

// archiveMode matches the permissions of every other generated file.
const archiveMode os.FileMode = 0o644

// ErrDeclined is returned when the confirmation hook refuses to replace an
// existing archive.
var ErrDeclined = errors.New("packager: overwrite declined")

// PreconditionError reports an output tree that cannot be packaged.
type PreconditionError struct {
	Root   string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("packager: %s: %s", e.Root, e.Reason)
}

// ConfirmFunc decides whether an existing archive at path may be replaced.
type ConfirmFunc func(ctx context.Context, path string) (bool, error)

// Request describes one packaging run.
type Request struct {
	// Root is the generated output tree, one subdirectory per kind.
	Root string
	// Filename names the archive written under Root. Empty derives it from the
	// manifest as <Name>_v<Version>.mpk.
	Filename string
}

// Result describes the archive that was written.
type Result struct {
	Path    string
	Size    int64
	Entries []string
	Counts  map[artifact.Kind]int
	Total   int
	GUID    string
}

// Option configures a Packager.
type Option func(*Packager)

// WithLogger injects the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Packager) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithManifest replaces the default manifest fields. Created and GUID are
// always filled per run.
func WithManifest(manifest Manifest) Option {
	return func(p *Packager) {
		p.manifest = manifest
	}
}

// WithClock injects the time source for the manifest and zip headers.
func WithClock(clock func() time.Time) Option {
	return func(p *Packager) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithIDGenerator injects the GUID source.
func WithIDGenerator(next func() uuid.UUID) Option {
	return func(p *Packager) {
		if next != nil {
			p.newID = next
		}
	}
}

// WithConfirm installs a hook consulted before an existing archive is
// replaced. Without one the archive is overwritten silently.
func WithConfirm(confirm ConfirmFunc) Option {
	return func(p *Packager) {
		p.confirm = confirm
	}
}

// WithPlatform overrides the platform line printed in the bundled guide.
func WithPlatform(platform string) Option {
	return func(p *Packager) {
		p.platform = platform
	}
}

// Packager bundles a generated output tree into a single archive.
type Packager struct {
	logger   *zap.Logger
	manifest Manifest
	clock    func() time.Time
	newID    func() uuid.UUID
	confirm  ConfirmFunc
	platform string
	docs     *summary.Engine
}

// New constructs a Packager.
func New(options ...Option) (*Packager, error) {
	p := &Packager{
		logger:   zap.NewNop(),
		manifest: DefaultManifest(),
		clock:    time.Now,
		newID:    uuid.New,
	}
	for _, opt := range options {
		if opt != nil {
			opt(p)
		}
	}

	templates, err := fs.Sub(embedded, "templates")
	if err != nil {
		return nil, fmt.Errorf("packager: sub templates: %w", err)
	}
	p.docs, err = summary.New(
		summary.WithFS(templates),
		summary.WithClock(p.clock),
		summary.WithPlatform(p.platform),
	)
	if err != nil {
		return nil, fmt.Errorf("packager: template engine: %w", err)
	}
	return p, nil
}

// DefaultFilename returns the archive name derived from the manifest.
func (p *Packager) DefaultFilename() string {
	return fmt.Sprintf("%s_v%s.mpk", p.manifest.Name, p.manifest.Version)
}

type source struct {
	name string
	path string
}

// Build writes the archive. The output tree is only read; the archive is
// assembled in a temporary file next to its destination and renamed into
// place once complete.
func (p *Packager) Build(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	info, err := os.Stat(req.Root)
	if err != nil || !info.IsDir() {
		return Result{}, &PreconditionError{Root: req.Root, Reason: "output directory not found"}
	}

	filename := req.Filename
	if filename == "" {
		filename = p.DefaultFilename()
	}
	if filepath.Base(filename) != filename {
		return Result{}, fmt.Errorf("packager: archive name %q must be a plain file name", filename)
	}

	result := Result{Counts: make(map[artifact.Kind]int)}
	var artifacts, documents []source
	for _, spec := range artifact.Specs() {
		dir := filepath.Join(req.Root, spec.Dir)
		files, err := xmlFiles(dir)
		if err != nil {
			return Result{}, fmt.Errorf("packager: scan %s: %w", dir, err)
		}
		result.Counts[spec.Kind] = len(files)
		result.Total += len(files)
		for _, name := range files {
			artifacts = append(artifacts, source{name: spec.Dir + "/" + name, path: filepath.Join(dir, name)})
		}
		p.logger.Debug("scanned kind directory", zap.String("dir", spec.Dir), zap.Int("files", len(files)))

		summaryPath := filepath.Join(dir, spec.SummaryFile)
		if isFile(summaryPath) {
			documents = append(documents, source{name: docsDir + "/" + spec.SummaryFile, path: summaryPath})
		}
	}
	if result.Total == 0 {
		return Result{}, &PreconditionError{Root: req.Root, Reason: "no XML files found to package"}
	}

	target := filepath.Join(req.Root, filename)
	if isFile(target) && p.confirm != nil {
		ok, err := p.confirm(ctx, target)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, ErrDeclined
		}
	}

	now := p.clock()
	manifest := p.manifest
	manifest.Created = now.Format(time.RFC3339)
	manifest.GUID = p.newID().String()
	result.GUID = manifest.GUID

	tmp, err := os.CreateTemp(req.Root, "."+filename+".*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("packager: create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := &archiveWriter{zip: zip.NewWriter(tmp), modified: now}

	if err := w.addJSON(manifestEntry, manifest); err != nil {
		tmp.Close()
		return Result{}, err
	}
	moduleXML, err := render.XML(moduleNode(manifest, result))
	if err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("packager: module descriptor: %w", err)
	}
	w.addBytes(moduleEntry, moduleXML)

	for _, src := range append(artifacts, documents...) {
		if err := ctx.Err(); err != nil {
			tmp.Close()
			return Result{}, err
		}
		w.addFile(src.name, src.path)
	}

	guide, err := p.guide(manifest, filename, result)
	if err != nil {
		tmp.Close()
		return Result{}, err
	}
	w.addBytes(guideEntry, guide)

	if err := w.close(); err != nil {
		tmp.Close()
		return Result{}, err
	}
	if err := tmp.Chmod(archiveMode); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("packager: chmod temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("packager: close temp archive: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return Result{}, fmt.Errorf("packager: move archive into place: %w", err)
	}

	stat, err := os.Stat(target)
	if err != nil {
		return Result{}, fmt.Errorf("packager: stat archive: %w", err)
	}
	result.Path = target
	result.Size = stat.Size()
	result.Entries = w.entries

	p.logger.Info("package written",
		zap.String("file", target),
		zap.Int64("bytes", result.Size),
		zap.Int("xml_files", result.Total),
		zap.Int("entries", len(result.Entries)),
	)
	return result, nil
}

func (p *Packager) guide(manifest Manifest, filename string, result Result) ([]byte, error) {
	components := make([]map[string]any, 0, len(result.Counts))
	for _, spec := range artifact.Specs() {
		n := result.Counts[spec.Kind]
		if n == 0 {
			continue
		}
		components = append(components, map[string]any{
			"label": summary.Count(n, summary.Noun(spec.Kind)),
			"dir":   spec.Dir,
		})
	}

	raw, err := json.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("packager: encode manifest: %w", err)
	}
	var manifestView map[string]any
	if err := json.Unmarshal(raw, &manifestView); err != nil {
		return nil, fmt.Errorf("packager: decode manifest: %w", err)
	}

	out, err := p.docs.Render("installation_guide", pongo2.Context{
		"manifest":   manifestView,
		"filename":   filename,
		"components": components,
		"total":      result.Total,
	})
	if err != nil {
		return nil, fmt.Errorf("packager: installation guide: %w", err)
	}
	return out, nil
}

// archiveWriter keeps the first error and turns every later call into a
// no-op, so Build can add entries without checking each one.
type archiveWriter struct {
	zip      *zip.Writer
	modified time.Time
	entries  []string
	err      error
}

func (w *archiveWriter) create(name string) io.Writer {
	if w.err != nil {
		return nil
	}
	entry, err := w.zip.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: w.modified,
	})
	if err != nil {
		w.err = fmt.Errorf("packager: add %s: %w", name, err)
		return nil
	}
	w.entries = append(w.entries, name)
	return entry
}

func (w *archiveWriter) addBytes(name string, data []byte) {
	entry := w.create(name)
	if entry == nil {
		return
	}
	if _, err := entry.Write(data); err != nil {
		w.err = fmt.Errorf("packager: write %s: %w", name, err)
	}
}

func (w *archiveWriter) addJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("packager: encode %s: %w", name, err)
	}
	w.addBytes(name, data)
	return w.err
}

func (w *archiveWriter) addFile(name, path string) {
	if w.err != nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		w.err = fmt.Errorf("packager: read %s: %w", path, err)
		return
	}
	w.addBytes(name, data)
}

func (w *archiveWriter) close() error {
	if err := w.zip.Close(); err != nil && w.err == nil {
		w.err = fmt.Errorf("packager: finish archive: %w", err)
	}
	return w.err
}

// xmlFiles lists the .xml files directly under dir in name order. A missing
// directory yields nothing.
func xmlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
