package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/erraggy/apicontract"
	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/validator"
)

// ErrValidationFailed is returned when the declarations have errors.
var ErrValidationFailed = errors.New("validation failed")

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Strict     bool
	NoWarnings bool
	Quiet      bool
	Format     string
	SourceMap  bool
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Strict, "strict", false, "report warnings as errors")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.SourceMap, "source-map", false, "prefix issues with file:line:column (IDE-friendly format)")
	fs.BoolVar(&flags.SourceMap, "s", false, "prefix issues with file:line:column (IDE-friendly format)")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl validate [flags] <file|dir|->\n\n")
		cliutil.Writef(fs.Output(), "Validate contract declarations: every declaration must build, and lint rules report likely mistakes.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nOutput Formats:\n")
		cliutil.Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		cliutil.Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  contractctl validate contracts.yaml\n")
		cliutil.Writef(fs.Output(), "  contractctl validate --strict contracts/\n")
		cliutil.Writef(fs.Output(), "  cat contracts.yaml | contractctl validate -q -\n")
		cliutil.Writef(fs.Output(), "  contractctl validate --format json contracts/ | jq '.valid'\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Validation successful\n")
		cliutil.Writef(fs.Output(), "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path, directory, or '-' for stdin")
	}

	sourcePath := fs.Arg(0)

	// Validate format flag early to fail fast before loading
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	startTime := time.Now()
	opts := []validator.Option{
		validator.WithStrictMode(flags.Strict),
		validator.WithIncludeWarnings(!flags.NoWarnings),
	}
	switch {
	case sourcePath == StdinFilePath:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		opts = append(opts, validator.WithBytes(data))
	case isDir(sourcePath):
		opts = append(opts, validator.WithDir(sourcePath))
	default:
		opts = append(opts, validator.WithFilePath(sourcePath))
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}
	totalTime := time.Since(startTime)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
		if !result.Valid {
			return ErrValidationFailed
		}
		return nil
	}

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "Contract Validator\n")
		cliutil.Writef(os.Stderr, "==================\n\n")
		cliutil.Writef(os.Stderr, "contractctl version: %s\n", apicontract.Version())
		cliutil.Writef(os.Stderr, "Source: %s\n", FormatSourcePath(sourcePath))
		cliutil.Writef(os.Stderr, "Contracts: %d\n", result.ContractCount)
		cliutil.Writef(os.Stderr, "Load Time: %v\n", result.LoadTime)
		cliutil.Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

		printIssues("Errors", result.ErrorCount, result.Errors, flags.SourceMap)
		printIssues("Warnings", result.WarningCount, result.Warnings, flags.SourceMap)

		if result.Valid {
			cliutil.Writef(os.Stderr, "✓ Validation passed")
			if result.WarningCount > 0 {
				cliutil.Writef(os.Stderr, " with %d warning(s)", result.WarningCount)
			}
			cliutil.Writef(os.Stderr, "\n")
		} else {
			cliutil.Writef(os.Stderr, "✗ Validation failed: %d error(s)", result.ErrorCount)
			if result.WarningCount > 0 {
				cliutil.Writef(os.Stderr, ", %d warning(s)", result.WarningCount)
			}
			cliutil.Writef(os.Stderr, "\n")
		}
	}

	if !result.Valid {
		return ErrValidationFailed
	}
	return nil
}

func printIssues(title string, count int, list []validator.ValidationError, sourceMap bool) {
	if len(list) == 0 {
		return
	}
	cliutil.Writef(os.Stderr, "%s (%d):\n", title, count)
	for _, e := range list {
		if sourceMap && e.HasLocation() {
			// IDE-friendly format: file:line:column: path: message
			cliutil.Writef(os.Stderr, "  %s: %s: %s\n", e.Location(), e.Path, e.Message)
		} else {
			cliutil.Writef(os.Stderr, "  %s\n", e.String())
		}
	}
	cliutil.Writef(os.Stderr, "\n")
}
