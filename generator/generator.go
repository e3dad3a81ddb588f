package generator

import (
	"context"
	"fmt"
	"go/token"
	"strings"
	"time"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/internal/issues"
	"github.com/erraggy/apicontract/internal/naming"
	"github.com/erraggy/apicontract/internal/options"
	"github.com/erraggy/apicontract/internal/severity"
	"github.com/erraggy/apicontract/loader"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates names that had to be changed
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates declarations that could not be generated
	SeverityError = severity.SeverityError
)

// File names of the generated files.
const (
	TypesFile    = "types.go"
	HandlersFile = "handlers.go"
	StubsFile    = "stubs.go"
)

// GenerateIssue represents a single generation issue
type GenerateIssue = issues.Issue

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "types.go", "handlers.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GenerateResult contains the results of generating code from contracts
type GenerateResult struct {
	// Files contains all generated files
	Files []GeneratedFile
	// PackageName is the Go package name used in generation
	PackageName string
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// ErrorCount is the total number of errors
	ErrorCount int
	// Success is true if generation completed without errors
	Success bool
	// LoadTime is the time taken to load the declarations
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// GeneratedTypes is the count of types generated
	GeneratedTypes int
	// GeneratedHandlers is the count of contracts with generated handlers
	GeneratedHandlers int
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator generates Go types and handler adapters from contracts
type Generator struct {
	// PackageName is the Go package name for generated code
	// If empty, defaults to "api"
	PackageName string

	// GenerateHandlers enables the Handlers interface and HandlerFuncs
	// Default: true
	GenerateHandlers bool

	// GenerateStubs enables UnimplementedHandlers (requires GenerateHandlers)
	// Default: false
	GenerateStubs bool
}

// New creates a Generator with default settings
func New() *Generator {
	return &Generator{
		PackageName:      "api",
		GenerateHandlers: true,
	}
}

// Option is a function that configures a generation operation
type Option func(*generateConfig) error

type generateConfig struct {
	// Input source (exactly one must be set)
	filePath  *string
	dir       *string
	contracts []*contract.Contract

	packageName string
	handlers    bool
	stubs       bool
}

// GenerateWithOptions generates code from the configured input source.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithDir("contracts"),
//		generator.WithPackageName("userapi"),
//		generator.WithStubs(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = result.WriteFiles("internal/userapi")
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		PackageName:      cfg.packageName,
		GenerateHandlers: cfg.handlers,
		GenerateStubs:    cfg.stubs,
	}

	if cfg.contracts != nil {
		return g.GenerateContracts(cfg.contracts...)
	}

	start := time.Now()
	var src loader.Option
	if cfg.filePath != nil {
		src = loader.WithFilePath(*cfg.filePath)
	} else {
		src = loader.WithDir(*cfg.dir)
	}
	contracts, err := loader.Contracts(src, loader.WithDefaultHandler(unbound))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	loadTime := time.Since(start)

	result, err := g.GenerateContracts(contracts...)
	if err != nil {
		return nil, err
	}
	result.LoadTime = loadTime
	return result, nil
}

// unbound stands in for handlers while declarations are loaded for
// generation only.
func unbound(context.Context, contract.Args) (any, error) {
	return nil, fmt.Errorf("generator: handler is not bound")
}

func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		packageName: "api",
		handlers:    true,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithDir or WithContracts)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.dir != nil, cfg.contracts != nil,
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithFilePath generates from the declarations of one file
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithDir generates from every declaration file of a directory
func WithDir(dir string) Option {
	return func(cfg *generateConfig) error {
		cfg.dir = &dir
		return nil
	}
}

// WithContracts generates from built contracts
func WithContracts(contracts ...*contract.Contract) Option {
	return func(cfg *generateConfig) error {
		cfg.contracts = append([]*contract.Contract{}, contracts...)
		return nil
	}
}

// WithPackageName sets the Go package name
// Default: "api"
func WithPackageName(name string) Option {
	return func(cfg *generateConfig) error {
		if !token.IsIdentifier(name) {
			return fmt.Errorf("invalid package name %q", name)
		}
		cfg.packageName = name
		return nil
	}
}

// WithHandlers enables or disables the Handlers interface and HandlerFuncs
// Default: true
func WithHandlers(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.handlers = enabled
		return nil
	}
}

// WithStubs enables or disables UnimplementedHandlers
// Default: false
func WithStubs(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.stubs = enabled
		return nil
	}
}

// GenerateContracts generates code for contracts.
func (g *Generator) GenerateContracts(contracts ...*contract.Contract) (*GenerateResult, error) {
	start := time.Now()

	pkg := g.PackageName
	if pkg == "" {
		pkg = "api"
	}
	result := &GenerateResult{PackageName: pkg}

	warn := func(path, msg string) {
		result.Issues = append(result.Issues, GenerateIssue{
			Path:     path,
			Message:  msg,
			Severity: SeverityWarning,
		})
	}
	types := newTypeBuilder(warn)

	usedMethods := make(map[string]bool, len(contracts))
	data := fileData{Package: pkg}
	for _, c := range contracts {
		if c == nil {
			continue
		}
		base := naming.ToPascalCase(c.Name)
		if base == "" {
			base = "Contract"
		}
		goName := naming.Unique(base, usedMethods)
		if goName != base {
			warn(c.Name, fmt.Sprintf("contract name maps to %s, which is already used; generated %s", base, goName))
		}

		cd := contractData{
			Name:        c.Name,
			GoName:      goName,
			Method:      c.Method,
			URL:         c.URL,
			Description: cleanDescription(c.Description),
			ParamsType:  types.paramsType(c, goName),
			ResultType:  types.resultType(c, goName),
		}
		if c.SkipResultValidation {
			result.Issues = append(result.Issues, GenerateIssue{
				Path:     c.Name + ".result",
				Message:  "result validation is skipped; the generated result type is not enforced at runtime",
				Severity: SeverityInfo,
				Contract: c.Name,
			})
		}
		data.Contracts = append(data.Contracts, cd)
	}
	data.Types = types.decls

	files := []string{"types.go.tmpl"}
	if g.GenerateHandlers {
		files = append(files, "handlers.go.tmpl")
		if g.GenerateStubs {
			files = append(files, "stubs.go.tmpl")
		}
	}
	for _, tmpl := range files {
		name := strings.TrimSuffix(tmpl, ".tmpl")
		content, err := executeTemplate(tmpl, data)
		if err != nil {
			result.Issues = append(result.Issues, GenerateIssue{
				Path:     name,
				Message:  "generated source could not be formatted: " + err.Error(),
				Severity: SeverityError,
				File:     name,
			})
			if content == nil {
				return nil, fmt.Errorf("generator: %s: %w", name, err)
			}
		}
		result.Files = append(result.Files, GeneratedFile{Name: name, Content: content})
	}

	result.GeneratedTypes = len(data.Types)
	if g.GenerateHandlers {
		result.GeneratedHandlers = len(data.Contracts)
	}
	result.InfoCount = issues.Count(result.Issues, SeverityInfo)
	result.WarningCount = issues.Count(result.Issues, SeverityWarning)
	result.ErrorCount = issues.Count(result.Issues, SeverityError)
	result.Success = result.ErrorCount == 0
	result.GenerateTime = time.Since(start)
	return result, nil
}
