package loader

import (
	"fmt"
	"io"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/internal/options"
	"github.com/erraggy/apicontract/logging"
)

// DefaultMaxFileSize is the largest declaration file read when no limit is set.
const DefaultMaxFileSize int64 = 10 << 20

// Option is a functional option for a load operation.
type Option func(*loadConfig) error

type loadConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	dir      *string
	files    *fileSet
	reader   io.Reader
	bytes    []byte

	sourceName     string
	names          []string
	handlers       map[string]contract.HandlerFunc
	defaultHandler contract.HandlerFunc
	logger         logging.Logger
	maxFileSize    int64
	concurrency    int
}

type fileSet struct {
	base  string
	files []string
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{
		logger:      logging.NopLogger{},
		maxFileSize: DefaultMaxFileSize,
		concurrency: 4,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"loader: must specify an input source (use WithFilePath, WithDir, WithFiles, WithReader, or WithBytes)",
		"loader: must specify exactly one input source",
		cfg.filePath != nil, cfg.dir != nil, cfg.files != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath loads the declarations of one file.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDir loads every .yaml, .yml and .json file directly inside dir, in
// lexical file name order.
func WithDir(dir string) Option {
	return func(cfg *loadConfig) error {
		cfg.dir = &dir
		return nil
	}
}

// WithFiles loads the named files, relative to base, in the order given.
func WithFiles(base string, files ...string) Option {
	return func(cfg *loadConfig) error {
		if len(files) == 0 {
			return fmt.Errorf("loader: at least one file is required")
		}
		cfg.files = &fileSet{base: base, files: files}
		return nil
	}
}

// WithReader loads declarations from r.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return fmt.Errorf("loader: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes loads declarations from data.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			return fmt.Errorf("loader: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithSourceName sets the source name reported for reader and byte input.
// Default: "<input>".
func WithSourceName(name string) Option {
	return func(cfg *loadConfig) error {
		cfg.sourceName = name
		return nil
	}
}

// WithNames restricts loading to the named contracts. Naming a contract that
// no source declares is an error.
func WithNames(names ...string) Option {
	return func(cfg *loadConfig) error {
		cfg.names = append(cfg.names, names...)
		return nil
	}
}

// WithHandlers binds handler names used in declarations to implementations.
func WithHandlers(handlers map[string]contract.HandlerFunc) Option {
	return func(cfg *loadConfig) error {
		if cfg.handlers == nil {
			cfg.handlers = make(map[string]contract.HandlerFunc, len(handlers))
		}
		for name, h := range handlers {
			cfg.handlers[name] = h
		}
		return nil
	}
}

// WithDefaultHandler sets the handler bound to declarations whose handler
// is missing or not registered with WithHandlers.
func WithDefaultHandler(h contract.HandlerFunc) Option {
	return func(cfg *loadConfig) error {
		cfg.defaultHandler = h
		return nil
	}
}

// WithLogger sets the logger. Default: logging.NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(cfg *loadConfig) error {
		if l == nil {
			return fmt.Errorf("loader: logger cannot be nil")
		}
		cfg.logger = l
		return nil
	}
}

// WithMaxFileSize limits the size of each file read. Default: DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(cfg *loadConfig) error {
		if n <= 0 {
			return fmt.Errorf("loader: max file size must be positive, got %d", n)
		}
		cfg.maxFileSize = n
		return nil
	}
}

// WithConcurrency sets how many files of a directory are read at once. Default: 4.
func WithConcurrency(n int) Option {
	return func(cfg *loadConfig) error {
		if n <= 0 {
			return fmt.Errorf("loader: concurrency must be positive, got %d", n)
		}
		cfg.concurrency = n
		return nil
	}
}
