package eir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// RequestPath is a request target confined to a document root.
// The absolute path is always root + relative, joined textually.
type RequestPath struct {
	root     string
	relative string
	absolute string
}

// NewRequestPath creates a path rooted at root. A relative root is resolved
// against the working directory.
func NewRequestPath(root string) (RequestPath, error) {
	if root == "" {
		return RequestPath{}, fmt.Errorf("new request path: empty root: %w", ErrInvalidInput)
	}

	if !filepath.IsAbs(root) {
		wd, err := os.Getwd()
		if err != nil {
			return RequestPath{}, fmt.Errorf("new request path: get working directory: %w", err)
		}
		root = filepath.Join(wd, root)
	}

	return RequestPath{root: strings.TrimRight(filepath.Clean(root), "/")}, nil
}

// SetRelative replaces the relative path and re-derives the absolute path.
func (p *RequestPath) SetRelative(rel string) {
	p.relative = rel
	p.absolute = p.root + rel
}

// Clear resets the relative and absolute paths, keeping the root.
func (p *RequestPath) Clear() {
	p.relative = ""
	p.absolute = ""
}

func (p RequestPath) Root() string     { return p.root }
func (p RequestPath) Relative() string { return p.relative }
func (p RequestPath) Absolute() string { return p.absolute }

// Join returns a copy of p whose relative path has name appended as a new segment.
func (p RequestPath) Join(name string) RequestPath {
	rel := p.relative
	if !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	q := RequestPath{root: p.root}
	q.SetRelative(rel + name)
	return q
}

// IsValid reports whether the relative path is non-empty, starts with "/" and
// contains no "/../" segment.
func (p RequestPath) IsValid() bool {
	return p.relative != "" &&
		p.relative[0] == '/' &&
		!strings.Contains(p.relative, "/../")
}

// Exists reports whether the absolute path can be stat'ed. Every failure,
// including permission errors, reads as absent.
func (p RequestPath) Exists() bool {
	_, err := os.Stat(p.absolute)
	return err == nil
}

func (p RequestPath) IsDirectory() (bool, error) {
	info, err := p.stat()
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (p RequestPath) IsRegular() (bool, error) {
	info, err := p.stat()
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (p RequestPath) stat() (fs.FileInfo, error) {
	info, err := os.Stat(p.absolute)
	if err == nil {
		return info, nil
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("stat %s: %w", p.relative, ErrNotFound)
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("stat %s: %w", p.relative, ErrPermissionDenied)
	default:
		return nil, fmt.Errorf("stat %s: %w: %w", p.relative, ErrInternal, err)
	}
}

// Filename returns the last "/"-delimited segment of the relative path.
func (p RequestPath) Filename() string {
	i := strings.LastIndexByte(p.relative, '/')
	if i < 0 {
		return ""
	}
	return p.relative[i+1:]
}

// Extension returns the filename suffix from the last dot, dot included.
// ".", ".." and hidden files without a further dot have no extension.
func (p RequestPath) Extension() string {
	name := p.Filename()
	if name == "." || name == ".." {
		return ""
	}

	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}
