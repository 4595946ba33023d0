// Package generator produces response bodies for resolved request paths.
//
// A Dispatcher tries its strategies in a fixed order and runs the first one
// that applies: script execution, directory index, directory listing, and
// plain file read.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/sagarc03/eir"
)

// Generator produces the body for one resource.
type Generator interface {
	Generate(ctx context.Context, path eir.RequestPath) (eir.Body, error)
}

type Config struct {
	// ScriptExtension marks executable resources. Defaults to ".sh".
	ScriptExtension string
	// Shell runs scripts. Defaults to "/bin/sh".
	Shell string
	// ScriptTimeout bounds script execution; zero means no limit.
	ScriptTimeout time.Duration
	// IndexName is served in place of a directory listing. Defaults to "index.html".
	IndexName string
}

// Dispatcher implements eir.Dispatcher.
type Dispatcher struct {
	cfg       Config
	script    Generator
	directory Generator
	regular   Generator
}

func New(cfg Config) *Dispatcher {
	if cfg.ScriptExtension == "" {
		cfg.ScriptExtension = ".sh"
	}
	if cfg.Shell == "" {
		cfg.Shell = "/bin/sh"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "index.html"
	}

	return &Dispatcher{
		cfg:       cfg,
		script:    &Script{Shell: cfg.Shell, Timeout: cfg.ScriptTimeout},
		directory: &Directory{},
		regular:   &Regular{},
	}
}

// Generate selects the first matching strategy for path and runs it.
// eir.ErrNoGenerator is returned when path is neither a script, a directory
// nor a regular file.
func (d *Dispatcher) Generate(ctx context.Context, path eir.RequestPath) (eir.Body, error) {
	g, mime, err := d.pick(path)
	if err != nil {
		return eir.Body{}, fmt.Errorf("select generator: %w", err)
	}

	body, err := g.Generate(ctx, path)
	if err != nil {
		return eir.Body{}, err
	}
	if mime != "" {
		body.MIME = mime
	}
	return body, nil
}

func (d *Dispatcher) pick(path eir.RequestPath) (Generator, string, error) {
	if path.Extension() == d.cfg.ScriptExtension {
		return d.script, "", nil
	}

	isDir, err := path.IsDirectory()
	if err != nil {
		return nil, "", err
	}
	if isDir {
		index := path.Join(d.cfg.IndexName)
		if index.Exists() {
			if ok, err := index.IsRegular(); err == nil && ok {
				return fixedPath{d.regular, index}, "text/html", nil
			}
		}
		return d.directory, "text/html", nil
	}

	isReg, err := path.IsRegular()
	if err != nil {
		return nil, "", err
	}
	if isReg {
		return d.regular, "", nil
	}

	return nil, "", eir.ErrNoGenerator
}

// fixedPath runs a generator against a substitute path.
type fixedPath struct {
	g    Generator
	path eir.RequestPath
}

func (f fixedPath) Generate(ctx context.Context, _ eir.RequestPath) (eir.Body, error) {
	return f.g.Generate(ctx, f.path)
}
