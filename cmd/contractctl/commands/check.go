package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/typedef"
)

// ErrValueRejected is returned when a value does not conform to its descriptor.
var ErrValueRejected = errors.New("value rejected")

// CheckFlags contains flags for the check command
type CheckFlags struct {
	Missing bool
	Format  string
}

// CheckOutput is the structured result of the check command.
type CheckOutput struct {
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Form       string `json:"form" yaml:"form"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

// SetupCheckFlags creates and configures a FlagSet for the check command.
func SetupCheckFlags() (*flag.FlagSet, *CheckFlags) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	flags := &CheckFlags{}

	fs.BoolVar(&flags.Missing, "missing", false, "check an absent value instead of a given one")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl check [flags] <descriptor> [value]\n\n")
		cliutil.Writef(fs.Output(), "Check a JSON value against a type descriptor without coercion.\n")
		cliutil.Writef(fs.Output(), "The descriptor is YAML or JSON; the value is JSON.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  contractctl check Number 3\n")
		cliutil.Writef(fs.Output(), "  contractctl check '[String]' '[\"a\", \"b\"]'\n")
		cliutil.Writef(fs.Output(), "  contractctl check '{id: Number, name: String}' '{\"id\": 1, \"name\": \"x\"}'\n")
		cliutil.Writef(fs.Output(), "  contractctl check --missing '{kind: Number, required: false}'\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    The value conforms\n")
		cliutil.Writef(fs.Output(), "  1    The value does not conform, or the descriptor is invalid\n")
	}

	return fs, flags
}

// HandleCheck executes the check command
func HandleCheck(args []string) error {
	fs, flags := SetupCheckFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	want := 2
	if flags.Missing {
		want = 1
	}
	if fs.NArg() != want {
		fs.Usage()
		if flags.Missing {
			return fmt.Errorf("check --missing requires exactly one descriptor")
		}
		return fmt.Errorf("check command requires a descriptor and a value")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	d, err := descriptorArg(fs.Arg(0))
	if err != nil {
		return err
	}

	if flags.Missing {
		err = typedef.CheckMissing(d)
	} else {
		var v any
		v, err = parseValueArg(fs.Arg(1))
		if err != nil {
			return err
		}
		err = typedef.Check(d, v)
	}

	out := CheckOutput{Descriptor: d.String(), Form: d.Form.String(), Valid: err == nil}
	if err != nil {
		out.Message = err.Error()
	}

	if flags.Format == FormatText {
		if out.Valid {
			cliutil.Writef(stdout, "✓ conforms to %s\n", out.Descriptor)
		} else {
			cliutil.Writef(stdout, "✗ %s\n", out.Message)
		}
	} else if err := OutputStructured(out, flags.Format); err != nil {
		return err
	}

	if !out.Valid {
		return ErrValueRejected
	}
	return nil
}

// descriptorArg decodes and parses a descriptor argument.
func descriptorArg(s string) (*typedef.Descriptor, error) {
	raw, err := parseDescriptorArg(s)
	if err != nil {
		return nil, err
	}
	d, err := typedef.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid descriptor %q: %w", s, err)
	}
	return d, nil
}
