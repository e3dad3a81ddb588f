package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/apicontract"
	"github.com/erraggy/apicontract/cmd/contractctl/commands"
)

// validCommands lists the commands suggestCommand matches against.
var validCommands = []string{
	"validate", "check", "convert", "generate", "serve", "mcp", "version", "help",
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Printf("contractctl v%s\n", apicontract.Version())
		fmt.Printf("commit: %s\n", apicontract.Commit())
		fmt.Printf("built: %s\n", apicontract.BuildTime())
		fmt.Printf("go: %s\n", apicontract.GoVersion())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "validate":
		err = commands.HandleValidate(args)
	case "check":
		err = commands.HandleCheck(args)
	case "convert":
		err = commands.HandleConvert(args)
	case "generate":
		err = commands.HandleGenerate(args)
	case "serve":
		err = commands.HandleServe(args)
	case "mcp":
		err = commands.HandleMCP(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		// These already reported their outcome.
		if !errors.Is(err, commands.ErrValidationFailed) && !errors.Is(err, commands.ErrValueRejected) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the closest valid command within edit distance 2,
// or "" when nothing is close enough.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, cmd := range validCommands {
		if d := levenshtein(input, cmd); d < bestDist {
			best, bestDist = cmd, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Printf(`contractctl - declarative HTTP endpoint contracts

Usage:
  contractctl <command> [flags] [args]

Commands:
  validate    Validate contract declarations and report lint findings
  check       Check a JSON value against a type descriptor
  convert     Convert a raw string to a type descriptor
  generate    Generate Go types and handler adapters from declarations
  serve       Serve declarations with a mock handler echoing resolved params
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Run 'contractctl <command> --help' for more information on a command.

Examples:
  contractctl validate contracts/
  contractctl check '{id: Number}' '{"id": 1}'
  contractctl convert Number 0x1F
  contractctl generate -o ./api contracts.yaml
  contractctl serve -c serve.toml contracts/
`)
}
