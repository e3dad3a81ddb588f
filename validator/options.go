package validator

import (
	"fmt"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/internal/options"
	"github.com/erraggy/apicontract/loader"
	"github.com/erraggy/apicontract/logging"
)

// Option is a function that configures a validation operation
type Option func(*validateConfig) error

// validateConfig holds configuration for a validation operation
type validateConfig struct {
	// Input source (exactly one must be set)
	filePath     *string
	dir          *string
	data         []byte
	entries      []loader.Entry
	declarations []contract.Declaration

	includeWarnings bool
	strictMode      bool
	logger          logging.Logger
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*validateConfig, error) {
	cfg := &validateConfig{
		includeWarnings: true,
		logger:          logging.NopLogger{},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithDir, WithBytes, WithEntries or WithDeclarations)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.dir != nil, cfg.data != nil, cfg.entries != nil, cfg.declarations != nil,
	); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath validates the declarations of one file.
func WithFilePath(path string) Option {
	return func(cfg *validateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDir validates every declaration file of a directory.
func WithDir(dir string) Option {
	return func(cfg *validateConfig) error {
		cfg.dir = &dir
		return nil
	}
}

// WithBytes validates declarations held in memory (YAML or JSON).
func WithBytes(data []byte) Option {
	return func(cfg *validateConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.data = data
		return nil
	}
}

// WithEntries validates already loaded declarations.
func WithEntries(entries []loader.Entry) Option {
	return func(cfg *validateConfig) error {
		if entries == nil {
			entries = []loader.Entry{}
		}
		cfg.entries = entries
		return nil
	}
}

// WithDeclarations validates declarations built in code.
func WithDeclarations(decls ...contract.Declaration) Option {
	return func(cfg *validateConfig) error {
		cfg.declarations = append([]contract.Declaration{}, decls...)
		return nil
	}
}

// WithIncludeWarnings enables or disables best practice warnings
// Default: true
func WithIncludeWarnings(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.includeWarnings = enabled
		return nil
	}
}

// WithStrictMode reports warnings as errors
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *validateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithLogger sets the logger used while loading files.
func WithLogger(l logging.Logger) Option {
	return func(cfg *validateConfig) error {
		if l == nil {
			return fmt.Errorf("validator: logger cannot be nil")
		}
		cfg.logger = l
		return nil
	}
}
