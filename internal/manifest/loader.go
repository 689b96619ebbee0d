package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedSource is returned for template references with an unknown scheme.
var ErrUnsupportedSource = errors.New("unsupported manifest source")

// ObjectGetter fetches objects from S3-compatible storage.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// Loader reads manifest templates from embedded files, local files or S3.
type Loader struct {
	fsys     fs.FS
	objects  ObjectGetter
	readFile func(string) ([]byte, error)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithObjectGetter enables s3:// references.
func WithObjectGetter(g ObjectGetter) LoaderOption {
	return func(l *Loader) {
		l.objects = g
	}
}

// NewLoader creates a Loader resolving plain names against fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:     fsys,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Read returns the raw bytes behind ref.
//
// Supported references:
//
//	s3://bucket/path/to/template.ytpl
//	file:///abs/path/template.ytpl or /abs/path/template.ytpl
//	amp/collector-config-amp.ytpl (embedded)
func (l *Loader) Read(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return l.readObject(ctx, ref)
	case strings.HasPrefix(ref, "file://"):
		return l.readLocal(strings.TrimPrefix(ref, "file://"))
	case filepath.IsAbs(ref):
		return l.readLocal(ref)
	case strings.Contains(ref, "://"):
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, ref)
	}

	if l.fsys == nil {
		return nil, fmt.Errorf("failed to read template %s: no embedded templates configured", ref)
	}
	data, err := fs.ReadFile(l.fsys, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded template %s: %w", ref, err)
	}
	return data, nil
}

// Load reads and parses the template behind ref.
func (l *Loader) Load(ctx context.Context, ref string) ([]Document, error) {
	raw, err := l.Read(ctx, ref)
	if err != nil {
		return nil, err
	}
	docs, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %s: %w", ref, err)
	}
	return docs, nil
}

func (l *Loader) readLocal(path string) ([]byte, error) {
	data, err := l.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) readObject(ctx context.Context, ref string) ([]byte, error) {
	if l.objects == nil {
		return nil, fmt.Errorf("%w: %s (no S3 client configured)", ErrUnsupportedSource, ref)
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template reference %s: %w", ref, err)
	}
	bucket, key := u.Host, strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid S3 template reference %s: expected s3://bucket/key", ref)
	}

	data, err := l.objects.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %s: %w", ref, err)
	}
	return data, nil
}
