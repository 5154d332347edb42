package emitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Document is one serialized artifact waiting to be written as <Name>.xml.
type Document struct {
	Name    string
	Content []byte
}

// Failure records a document that could not be written. Failures never abort
// the rest of the batch.
type Failure struct {
	Name string
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("emitter: write %s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result summarises one Emit call. Written holds paths in input order.
type Result struct {
	Dir      string
	Written  []string
	Failures []Failure
}

// OK reports whether every document was written.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// Emitter writes documents into an output directory.
type Emitter struct {
	logger  *zap.Logger
	workers int
	mode    os.FileMode
}

// Option customises an Emitter.
type Option func(*Emitter)

// WithLogger injects the logger used for per-file diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Emitter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds concurrent writes. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(e *Emitter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFileMode sets the permission bits for written files.
func WithFileMode(mode os.FileMode) Option {
	return func(e *Emitter) {
		e.mode = mode
	}
}

// New constructs an Emitter.
func New(options ...Option) *Emitter {
	e := &Emitter{
		logger:  zap.NewNop(),
		workers: runtime.GOMAXPROCS(0),
		mode:    0o644,
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Emit creates dir and writes every document to <dir>/<name>.xml, replacing
// existing files. Failing to create dir is fatal; a failed write is logged,
// recorded in Result.Failures, and the batch continues. Only context
// cancellation stops the batch early.
func (e *Emitter) Emit(ctx context.Context, dir string, docs []Document) (Result, error) {
	result := Result{Dir: dir}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("emitter: create output directory %s: %w", dir, err)
	}

	written := make([]string, len(docs))
	var (
		mu       sync.Mutex
		failures = make(map[int]Failure)
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.workers)
	for i, doc := range docs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, doc.Name+".xml")
			if err := e.write(path, doc.Content); err != nil {
				e.logger.Error("write failed", zap.String("file", path), zap.Error(err))
				mu.Lock()
				failures[i] = Failure{Name: doc.Name, Path: path, Err: err}
				mu.Unlock()
				return nil
			}
			e.logger.Debug("wrote artifact", zap.String("file", path), zap.Int("bytes", len(doc.Content)))
			written[i] = path
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return result, err
	}

	for i := range docs {
		if failure, failed := failures[i]; failed {
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Written = append(result.Written, written[i])
	}
	return result, nil
}

// WriteSummary writes an aggregate document such as a kind summary next to
// the artifacts and returns its path.
func (e *Emitter) WriteSummary(dir, filename string, content []byte) (string, error) {
	if filename == "" || filepath.Base(filename) != filename {
		return "", errors.New("emitter: summary filename must be a plain file name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("emitter: create output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, filename)
	if err := e.write(path, content); err != nil {
		return "", Failure{Name: filename, Path: path, Err: err}
	}
	e.logger.Debug("wrote summary", zap.String("file", path))
	return path, nil
}

func (e *Emitter) write(path string, content []byte) error {
	return os.WriteFile(path, content, e.mode)
}
