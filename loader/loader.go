package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/registry"
)

const defaultSourceName = "<input>"

// Load decodes the declarations of the configured source. Handlers are bound
// as configured; declarations left without one have a nil Handler.
//
// Example:
//
//	entries, err := loader.Load(loader.WithDir("contracts"))
func Load(opts ...Option) ([]Entry, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loader: invalid options: %w", err)
	}

	var entries []Entry
	switch {
	case cfg.filePath != nil:
		entries, err = cfg.loadFiles([]string{*cfg.filePath})
	case cfg.dir != nil:
		var paths []string
		paths, err = listDir(*cfg.dir)
		if err == nil {
			cfg.logger.Info("loading all contracts under folder", "dir", *cfg.dir, "files", len(paths))
			entries, err = cfg.loadFiles(paths)
		}
	case cfg.files != nil:
		paths := make([]string, len(cfg.files.files))
		for i, f := range cfg.files.files {
			paths[i] = filepath.Join(cfg.files.base, f)
		}
		entries, err = cfg.loadFiles(paths)
	case cfg.reader != nil:
		entries, err = cfg.loadReader(cfg.reader, cfg.source())
	default:
		entries, err = cfg.loadBytes(cfg.bytes, cfg.source())
	}
	if err != nil {
		return nil, err
	}

	entries, err = selectNames(entries, cfg.names)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		cfg.bind(&entries[i])
	}
	return entries, nil
}

// Contracts loads declarations and builds a contract from each. A
// construction failure is reported as *contracterrors.LoadError locating the
// declaration and wrapping the contract error.
func Contracts(opts ...Option) ([]*contract.Contract, error) {
	entries, err := Load(opts...)
	if err != nil {
		return nil, err
	}
	out := make([]*contract.Contract, 0, len(entries))
	for _, e := range entries {
		c, err := e.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Into loads declarations, builds contracts and adds them to reg, recording
// each source file as the contract's origin.
func Into(reg *registry.Registry, opts ...Option) error {
	if reg == nil {
		return fmt.Errorf("loader: registry cannot be nil")
	}
	entries, err := Load(opts...)
	if err != nil {
		return err
	}
	for _, e := range entries {
		c, err := e.Build()
		if err != nil {
			return err
		}
		if err := reg.AddFrom(e.Source, c); err != nil {
			return err
		}
	}
	return nil
}

// Build creates the contract for e.
func (e Entry) Build() (*contract.Contract, error) {
	c, err := contract.New(e.Declaration)
	if err != nil {
		return nil, &contracterrors.LoadError{Path: e.Source, Line: e.Line, Column: e.Column, Cause: err}
	}
	return c, nil
}

func (cfg *loadConfig) source() string {
	if cfg.sourceName != "" {
		return cfg.sourceName
	}
	return defaultSourceName
}

func (cfg *loadConfig) bind(e *Entry) {
	if h, ok := cfg.handlers[e.HandlerName]; ok && e.HandlerName != "" {
		e.Declaration.Handler = h
		return
	}
	if e.HandlerName != "" && cfg.defaultHandler == nil {
		cfg.logger.Warn("handler is not registered", "contract", e.Declaration.Name, "handler", e.HandlerName)
	}
	e.Declaration.Handler = cfg.defaultHandler
}

// loadFiles reads and decodes paths concurrently, keeping their order.
func (cfg *loadConfig) loadFiles(paths []string) ([]Entry, error) {
	results := make([][]Entry, len(paths))
	var g errgroup.Group
	g.SetLimit(cfg.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			cfg.logger.Debug("loading all contracts in file", "path", path)
			entries, err := cfg.loadFile(path)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Entry
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (cfg *loadConfig) loadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &contracterrors.LoadError{Path: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, &contracterrors.LoadError{Path: path, Message: "failed to stat file", Cause: err}
	}
	if info.Size() > cfg.maxFileSize {
		return nil, &contracterrors.LoadError{
			Path:    path,
			Message: fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), cfg.maxFileSize),
		}
	}
	return cfg.loadReader(f, path)
}

func (cfg *loadConfig) loadReader(r io.Reader, source string) ([]Entry, error) {
	data, err := io.ReadAll(io.LimitReader(r, cfg.maxFileSize+1))
	if err != nil {
		return nil, &contracterrors.LoadError{Path: source, Message: "failed to read input", Cause: err}
	}
	if int64(len(data)) > cfg.maxFileSize {
		return nil, &contracterrors.LoadError{
			Path:    source,
			Message: fmt.Sprintf("input exceeds maximum %d bytes", cfg.maxFileSize),
		}
	}
	return cfg.loadBytes(data, source)
}

func (cfg *loadConfig) loadBytes(data []byte, source string) ([]Entry, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	d := &decoder{source: source, logger: cfg.logger}
	return d.decode(data)
}

func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &contracterrors.LoadError{Path: dir, Message: "failed to read directory", Cause: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isDeclarationFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func isDeclarationFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func selectNames(entries []Entry, names []string) ([]Entry, error) {
	if len(names) == 0 {
		return entries, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	found := make(map[string]bool, len(names))
	var out []Entry
	for _, e := range entries {
		if want[e.Declaration.Name] {
			out = append(out, e)
			found[e.Declaration.Name] = true
		}
	}
	var missing []error
	for _, n := range names {
		if !found[n] {
			missing = append(missing, &contracterrors.NotFoundError{Name: n})
		}
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}
	return out, nil
}
