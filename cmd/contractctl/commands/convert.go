package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"math"
	"strconv"

	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/typedef"
)

// ConvertFlags contains flags for the convert command
type ConvertFlags struct {
	Format string
}

// ConvertOutput is the structured result of the convert command.
type ConvertOutput struct {
	Descriptor string `json:"descriptor" yaml:"descriptor"`
	Raw        string `json:"raw" yaml:"raw"`
	Value      any    `json:"value,omitempty" yaml:"value,omitempty"`
	Valid      bool   `json:"valid" yaml:"valid"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
}

// SetupConvertFlags creates and configures a FlagSet for the convert command.
func SetupConvertFlags() (*flag.FlagSet, *ConvertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags := &ConvertFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl convert [flags] <descriptor> <raw>\n\n")
		cliutil.Writef(fs.Output(), "Convert a raw string, as read from a path segment, query string or header,\n")
		cliutil.Writef(fs.Output(), "to a descriptor and check the result.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  contractctl convert Number 0x1F\n")
		cliutil.Writef(fs.Output(), "  contractctl convert Boolean true\n")
		cliutil.Writef(fs.Output(), "  contractctl convert '[Number]' '[1, 2, 3]'\n")
	}

	return fs, flags
}

// HandleConvert executes the convert command
func HandleConvert(args []string) error {
	fs, flags := SetupConvertFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("convert command requires a descriptor and a raw value")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	d, err := descriptorArg(fs.Arg(0))
	if err != nil {
		return err
	}

	raw := fs.Arg(1)
	out := ConvertOutput{Descriptor: d.String(), Raw: raw}
	v, err := typedef.Convert(d, raw)
	if err == nil {
		out.Value = displayValue(v)
		err = typedef.Check(d, v)
	}
	if err != nil {
		out.Message = err.Error()
	} else {
		out.Valid = true
	}

	if flags.Format == FormatText {
		if out.Valid {
			cliutil.Writef(stdout, "%v\n", formatValue(out.Value))
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

// displayValue replaces non-finite numbers, which JSON cannot carry, with
// their text form.
func displayValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return strconv.FormatFloat(x, 'g', -1, 64)
		}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = displayValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = displayValue(e)
		}
		return out
	}
	return v
}

// formatValue renders v for text output. Numbers use the shortest form.
func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return strconv.Quote(x)
	case nil:
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
