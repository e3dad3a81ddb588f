package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/erraggy/apicontract"
	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/generator"
	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/internal/severity"
	"github.com/erraggy/apicontract/loader"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output      string
	PackageName string
	Handlers    bool
	Stubs       bool
	Strict      bool
	NoWarnings  bool
	SourceMap   bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Output, "o", "", "output directory for generated files (required)")
	fs.StringVar(&flags.Output, "output", "", "output directory for generated files (required)")
	fs.StringVar(&flags.PackageName, "p", "api", "Go package name for generated code")
	fs.StringVar(&flags.PackageName, "package", "api", "Go package name for generated code")
	fs.BoolVar(&flags.Handlers, "handlers", true, "generate the Handlers interface and contract adapters")
	fs.BoolVar(&flags.Stubs, "stubs", false, "generate UnimplementedHandlers (requires --handlers)")
	fs.BoolVar(&flags.Strict, "strict", false, "fail when generation reports warnings")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress info and warning messages")
	fs.BoolVar(&flags.SourceMap, "source-map", false, "prefix issues with file:line:column (IDE-friendly format)")
	fs.BoolVar(&flags.SourceMap, "s", false, "prefix issues with file:line:column (IDE-friendly format)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl generate [flags] <file|dir|->\n\n")
		cliutil.Writef(fs.Output(), "Generate Go parameter and result types and typed handler adapters from contract declarations.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  contractctl generate -o ./api contracts.yaml\n")
		cliutil.Writef(fs.Output(), "  contractctl generate -p userapi -o internal/userapi --stubs contracts/\n")
		cliutil.Writef(fs.Output(), "  cat contracts.yaml | contractctl generate -o ./api -\n")
		cliutil.Writef(fs.Output(), "\nGenerated Files:\n")
		cliutil.Writef(fs.Output(), "  %-12s parameter and result types\n", generator.TypesFile)
		cliutil.Writef(fs.Output(), "  %-12s Handlers interface and contract adapters (with --handlers)\n", generator.HandlersFile)
		cliutil.Writef(fs.Output(), "  %-12s UnimplementedHandlers (with --stubs)\n", generator.StubsFile)
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path, directory, or '-' for stdin")
	}

	sourcePath := fs.Arg(0)

	if flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("output directory is required (use -o or --output)")
	}
	if flags.Stubs && !flags.Handlers {
		return fmt.Errorf("--stubs requires --handlers")
	}

	outputDir := filepath.Clean(flags.Output)
	if err := ValidateOutputPath(outputDir, []string{sourcePath}); err != nil {
		return err
	}
	if err := RejectSymlinkOutput(outputDir); err != nil {
		return err
	}

	startTime := time.Now()
	opts := []generator.Option{
		generator.WithPackageName(flags.PackageName),
		generator.WithHandlers(flags.Handlers),
		generator.WithStubs(flags.Stubs),
	}
	switch {
	case sourcePath == StdinFilePath:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		contracts, err := loader.Contracts(
			loader.WithBytes(data),
			loader.WithDefaultHandler(notServed),
		)
		if err != nil {
			return fmt.Errorf("loading stdin: %w", err)
		}
		opts = append(opts, generator.WithContracts(contracts...))
	case isDir(sourcePath):
		opts = append(opts, generator.WithDir(sourcePath))
	default:
		opts = append(opts, generator.WithFilePath(sourcePath))
	}

	result, err := generator.GenerateWithOptions(opts...)
	totalTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	cliutil.Writef(stdout, "Contract Code Generator\n")
	cliutil.Writef(stdout, "=======================\n\n")
	cliutil.Writef(stdout, "contractctl version: %s\n", apicontract.Version())
	cliutil.Writef(stdout, "Source: %s\n", FormatSourcePath(sourcePath))
	cliutil.Writef(stdout, "Package: %s\n", result.PackageName)
	cliutil.Writef(stdout, "Types: %d\n", result.GeneratedTypes)
	cliutil.Writef(stdout, "Handlers: %d\n", result.GeneratedHandlers)
	cliutil.Writef(stdout, "Total Time: %v\n\n", totalTime)

	shown := result.Issues
	if flags.NoWarnings {
		shown = shown[:0:0]
		for _, issue := range result.Issues {
			if issue.Severity == severity.SeverityError {
				shown = append(shown, issue)
			}
		}
	}
	if len(shown) > 0 {
		cliutil.Writef(stdout, "Generation Issues (%d):\n", len(shown))
		for _, issue := range shown {
			if flags.SourceMap && issue.HasLocation() {
				cliutil.Writef(stdout, "  %s: %s: %s\n", issue.Location(), issue.Path, issue.Message)
			} else {
				cliutil.Writef(stdout, "  %s\n", issue.String())
			}
		}
		cliutil.Writef(stdout, "\n")
	}

	if !result.Success {
		cliutil.Writef(stdout, "✗ Generation failed with %d error(s)\n", result.ErrorCount)
		return fmt.Errorf("generation failed with %d error(s)", result.ErrorCount)
	}
	if flags.Strict && result.WarningCount > 0 {
		cliutil.Writef(stdout, "✗ Generation reported %d warning(s) in strict mode\n", result.WarningCount)
		return fmt.Errorf("generation reported %d warning(s) in strict mode", result.WarningCount)
	}

	if err := result.WriteFiles(outputDir); err != nil {
		return fmt.Errorf("writing files: %w", err)
	}

	cliutil.Writef(stdout, "Generated Files (%d):\n", len(result.Files))
	for _, file := range result.Files {
		cliutil.Writef(stdout, "  - %s (%d bytes)\n", filepath.Join(outputDir, file.Name), len(file.Content))
	}
	cliutil.Writef(stdout, "\n")

	cliutil.Writef(stdout, "✓ Generation successful")
	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Writef(stdout, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
	}
	cliutil.Writef(stdout, "\n")
	return nil
}

// notServed stands in for handlers of declarations loaded only to generate code.
func notServed(context.Context, contract.Args) (any, error) {
	return nil, fmt.Errorf("handler is not bound")
}
