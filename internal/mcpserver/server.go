// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes apicontract capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apicontract"
	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/loader"
)

const serverInstructions = `apicontract MCP server. Validates contract declarations, lists contracts, checks and converts values against type descriptors, and dry-runs parameter extraction and result processing.

Contract input: every contract tool takes a "contracts" object with exactly one of file, dir, or content (YAML or JSON). Use names to restrict loading.

Type descriptors: "String", "Number", "Boolean"; {"kind": "Number", "required": false, "default": 1}; ["String"] for arrays; {"field": "String"} for objects.

Configuration: defaults come from APICONTRACT_* environment variables set in your MCP client config.
- APICONTRACT_CACHE_ENABLED (default: true) cache loaded declarations per session
- APICONTRACT_CACHE_TTL (default: 15m) cache entry lifetime
- APICONTRACT_LIST_LIMIT (default: 100) default result limit for list tools
- APICONTRACT_LIST_DETAIL_LIMIT (default: 25) default limit in detail mode
- APICONTRACT_VALIDATE_STRICT (default: false) promote warnings to errors
- APICONTRACT_VALIDATE_NO_WARNINGS (default: false) suppress warnings`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "apicontract", Version: apicontract.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate contract declarations. Reports construction errors (bad type descriptors, missing fields, unknown sources, non-conforming defaults) and warnings (unbound path params, undeclared URL placeholders, ignored defaults, body params on bodyless methods). Use offset/limit to paginate. Strict mode and warning suppression defaults are configurable via APICONTRACT_VALIDATE_STRICT and APICONTRACT_VALIDATE_NO_WARNINGS env vars.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_contracts",
		Description: "List the contracts in a set of declarations. Returns summaries (name, method, URL, parameter count) by default or full parameter and result definitions with detail=true. Filter by method, name glob, or source. Use group_by (method or source) to get distribution counts instead of individual items.",
	}, handleListContracts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_value",
		Description: "Check a JSON value against a type descriptor without coercion. Returns the normalized descriptor and, when the value does not conform, the mismatch message. Set missing=true to test an absent value instead.",
	}, handleCheckValue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_value",
		Description: "Convert a raw string (as read from a path, query, or header) to the type a descriptor declares, then check it. Numbers accept decimal, exponent, 0x/0o/0b and Infinity spellings; booleans accept only true/false; arrays and objects parse the string as JSON.",
	}, handleConvertValue)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_params",
		Description: "Resolve the parameters of one contract from sample request parts (path, query, header, body) exactly as a request would. Returns the arguments in declaration order, or the parameter error.",
	}, handleExtractParams)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_result",
		Description: "Apply a contract's result filter to a sample handler value and check the filtered value against the declared result type. Returns the processed value or the result error.",
	}, handleProcessResult)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// detailLimit returns a lower default limit for detail mode output.
func detailLimit(limit int) int {
	if limit <= 0 {
		return cfg.ListDetailLimit
	}
	return limit
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return sanitizePaths(err.Error())
}

func sanitizePaths(s string) string {
	return pathPattern.ReplaceAllString(s, "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// groupCount represents a single group in group_by results.
type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort groups items by key, sorts by count descending (ties
// broken alphabetically by key), and returns the sorted groups.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, count := range counts {
		groups = append(groups, groupCount{Key: key, Count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}

// validateGroupBy checks that group_by is a valid value and is not combined with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	if groupBy == "" {
		return nil
	}
	if detail {
		return fmt.Errorf("cannot use both group_by and detail")
	}
	for _, a := range allowed {
		if strings.EqualFold(groupBy, a) {
			return nil
		}
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern checks whether a glob pattern is syntactically valid.
func validateGlobPattern(pattern string) error {
	if pattern == "" || !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchGlobName reports whether name matches pattern. Patterns without glob
// metacharacters compare case-insensitively.
func matchGlobName(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?[") {
		return strings.EqualFold(pattern, name)
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}

func unbound(context.Context, contract.Args) (any, error) {
	return nil, nil
}

// buildContract loads the declarations in in and builds the named contract.
func buildContract(in contractsInput, name string) (*contract.Contract, error) {
	if name == "" {
		return nil, fmt.Errorf("contract name is required")
	}
	entries, err := in.resolve()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Declaration.Name != name {
			continue
		}
		return buildEntry(e)
	}
	return nil, fmt.Errorf("contract %q is not declared", name)
}

// buildEntry builds e with a placeholder handler; tools never invoke it.
func buildEntry(e loader.Entry) (*contract.Contract, error) {
	if e.Declaration.Handler == nil {
		e.Declaration.Handler = unbound
	}
	return e.Build()
}
