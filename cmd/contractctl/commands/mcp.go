package commands

import (
	"context"
	"errors"
	"flag"
	"os/signal"
	"syscall"

	"github.com/erraggy/apicontract/internal/cliutil"
	"github.com/erraggy/apicontract/internal/mcpserver"
)

// SetupMCPFlags creates a FlagSet for the mcp command. It takes no flags;
// configuration comes from APICONTRACT_* environment variables.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: contractctl mcp\n\n")
		cliutil.Writef(fs.Output(), "Run the MCP (Model Context Protocol) server over stdio.\n\n")
		cliutil.Writef(fs.Output(), "Tools: validate, list_contracts, check_value, convert_value, extract_params, process_result\n\n")
		cliutil.Writef(fs.Output(), "Environment:\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_CACHE_ENABLED        cache loaded declarations (default: true)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_CACHE_MAX_SIZE       cached declaration sets (default: 10)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_CACHE_TTL            cache entry lifetime (default: 15m)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_LIST_LIMIT           default list limit (default: 100)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_LIST_DETAIL_LIMIT    default limit in detail mode (default: 25)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_VALIDATE_STRICT      promote warnings to errors (default: false)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_VALIDATE_NO_WARNINGS suppress warnings (default: false)\n")
		cliutil.Writef(fs.Output(), "  APICONTRACT_MAX_INLINE_SIZE      inline content limit in bytes (default: 1048576)\n")
	}
	return fs
}

// HandleMCP executes the mcp command
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
