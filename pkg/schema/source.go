package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const urlReadTimeout = 30 * time.Second

// Source locates a form definition so callers can load from disk, an fs.FS,
// or a URL through one code path.
type Source interface {
	Location() string
	Read(ctx context.Context) ([]byte, error)
}

// ParseSource maps a raw location onto a source: http and https locations
// fetch over the network, everything else reads from disk.
func ParseSource(raw string) Source {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return URLSource(raw)
	}
	return FileSource(raw)
}

// LoadSource reads a definition from the source and parses it.
func LoadSource(ctx context.Context, src Source) (Form, error) {
	if src == nil {
		return Form{}, errors.New("schema: source is required")
	}
	data, err := src.Read(ctx)
	if err != nil {
		return Form{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	return parseDocument(data, src.Location())
}

type fileSource struct {
	path string
}

// FileSource returns a source pointing at an on-disk definition.
func FileSource(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Read(ctx context.Context) ([]byte, error) {
	if s.path == "" || s.path == "." {
		return nil, errors.New("file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return os.ReadFile(s.path)
}

type fsSource struct {
	fsys fs.FS
	name string
}

// FSSource returns a source identifying an entry inside an fs.FS, which
// covers embedded definitions alongside real directories.
func FSSource(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Read(ctx context.Context) ([]byte, error) {
	if s.fsys == nil {
		return nil, errors.New("fs is nil")
	}
	if s.name == "" {
		return nil, errors.New("fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return fs.ReadFile(s.fsys, s.name)
}

type urlSource struct {
	raw string
}

// URLSource returns a source that fetches the definition over HTTP. The URL
// is validated at read time, and reads inherit the caller's deadline capped
// at thirty seconds.
func URLSource(raw string) Source {
	return urlSource{raw: raw}
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Read(ctx context.Context) ([]byte, error) {
	if s.raw == "" {
		return nil, errors.New("url is required")
	}

	reqCtx, cancel := context.WithTimeout(ctx, urlReadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.raw, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}
	return io.ReadAll(resp.Body)
}
