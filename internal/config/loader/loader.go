package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-lowcodegen/pkg/artifact"
	pkgconfig "github.com/goliatone/go-lowcodegen/pkg/config"
)

// Loader implements pkgconfig.Loader by walking the requested path, the
// per-kind alternatives and finally the embedded default. Construction helpers
// live in the top-level lowcodegen package.
type Loader struct {
	alternatives map[artifact.Kind][]string
	defaults     fs.FS
	logger       *zap.Logger
}

// Ensure the implementation satisfies the public interface.
var _ pkgconfig.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgconfig.LoaderOptions) *Loader {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := options.Defaults
	if defaults == nil {
		defaults = pkgconfig.Defaults()
	}
	alternatives := options.Alternatives
	if alternatives == nil {
		alternatives = pkgconfig.DefaultAlternatives()
	}
	return &Loader{
		alternatives: alternatives,
		defaults:     defaults,
		logger:       logger.Named("config"),
	}
}

// Load resolves the document for req.Kind.
func (l *Loader) Load(ctx context.Context, req pkgconfig.Request) (pkgconfig.Document, error) {
	if _, ok := artifact.Lookup(req.Kind); !ok {
		return pkgconfig.Document{}, fmt.Errorf("config loader: unknown kind %q", req.Kind)
	}
	if err := ctx.Err(); err != nil {
		return pkgconfig.Document{}, err
	}

	if req.Path != "" {
		doc, found, err := loadFile(req.Path)
		switch {
		case err != nil:
			return pkgconfig.Document{}, &pkgconfig.Error{Path: req.Path, Err: err}
		case found:
			l.logger.Debug("using requested configuration", zap.String("kind", req.Kind.String()), zap.String("path", req.Path))
			doc.Origin = pkgconfig.OriginRequested
			return doc, nil
		case req.Strict:
			return pkgconfig.Document{}, &pkgconfig.Error{Path: req.Path, Err: fs.ErrNotExist}
		}
		l.logger.Debug("requested configuration not found", zap.String("path", req.Path))
	} else if req.Strict {
		return pkgconfig.Document{}, &pkgconfig.Error{Err: errors.New("no configuration path given")}
	}

	for _, candidate := range l.alternatives[req.Kind] {
		if err := ctx.Err(); err != nil {
			return pkgconfig.Document{}, err
		}
		if candidate == req.Path {
			continue
		}
		doc, found, err := loadFile(candidate)
		if err != nil {
			l.logger.Warn("skipping unreadable configuration", zap.String("path", candidate), zap.Error(err))
			continue
		}
		if !found {
			continue
		}
		l.logger.Info("using alternative configuration", zap.String("kind", req.Kind.String()), zap.String("path", candidate))
		doc.Origin = pkgconfig.OriginAlternative
		return doc, nil
	}

	doc, err := pkgconfig.LoadDefault(l.defaults, req.Kind)
	if err != nil {
		return pkgconfig.Document{}, err
	}
	l.logger.Warn("no configuration file found, using embedded defaults", zap.String("kind", req.Kind.String()))
	return doc, nil
}

// loadFile reports found=false when path does not exist. Any other read or
// parse failure is returned as an error.
func loadFile(path string) (pkgconfig.Document, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return pkgconfig.Document{}, false, nil
		}
		return pkgconfig.Document{}, false, err
	}
	if info.IsDir() {
		return pkgconfig.Document{}, false, fmt.Errorf("%s is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pkgconfig.Document{}, false, err
	}
	root, err := pkgconfig.Parse(data)
	if err != nil {
		return pkgconfig.Document{}, false, err
	}
	return pkgconfig.Document{
		Source: pkgconfig.SourceFromFile(path),
		Root:   root,
	}, true, nil
}
