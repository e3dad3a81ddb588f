// Package apicontract provides a declarative contract layer for HTTP endpoints.
//
// A contract names an endpoint (URL template and method), declares its
// parameters (where each one is read from, its type, whether it is required
// and its default) and declares the shape of its result, optionally with a
// field filter. At request time the contract resolves and type-checks the
// parameters before the handler runs, and filters and checks the handler's
// result before it is sent.
//
// # Overview
//
// The library consists of these packages:
//
//   - typedef: the type descriptor grammar, its parser and the value checker
//   - contract: contract construction, parameter extraction and result processing
//   - contracterrors: typed errors with sentinels for errors.Is
//   - registry: a goroutine-safe set of contracts keyed by name
//   - loader: decoding of YAML and JSON contract declaration files
//   - bridge: an http.Handler serving mounted contracts
//   - validator: lint rules for declarations, reported as issues
//   - generator: Go types and typed handler interfaces for declarations
//   - logging: the Logger interface used by the packages that log
//
// The typedef and contract packages never log and hold no global state.
//
// # Installation
//
//	go get github.com/erraggy/apicontract
//
// # Type Descriptors
//
// A descriptor is plain data:
//
//	"Number"                                  // a primitive: String, Text, Number or Boolean
//	{"kind": "Number", "required": false}     // a primitive with a required flag and default
//	["String"]                                // an array of exactly one inner descriptor
//	{"id": "Number", "tags": ["String"]}      // an object whose members are descriptors
//
// Parse classifies and validates one; Check tests a value against it without
// coercion; Convert coerces raw strings read from a path, query or header:
//
//	d, err := typedef.Parse(map[string]any{"id": "Number"})
//	err = typedef.Check(d, map[string]any{"id": 3.0})
//
// # Quick Start
//
// Declare a contract in code:
//
//	c, err := contract.New(contract.Declaration{
//		Name:   "getUser",
//		URL:    "/users/:id",
//		Method: "GET",
//		Params: []contract.Param{
//			{Name: "id", Kind: "Number", Source: contract.SourcePath},
//		},
//		Result: contract.Result{
//			Kind:   map[string]any{"id": "Number", "name": "String"},
//			Filter: contract.Filter{Fields: []string{"id", "name"}},
//		},
//		Handler: func(ctx context.Context, args contract.Args) (any, error) {
//			return lookupUser(args.Number("id"))
//		},
//	})
//
// Or load declarations from files and serve them:
//
//	reg, _ := registry.New()
//	err := loader.Into(reg,
//		loader.WithDir("contracts"),
//		loader.WithHandlers(handlers),
//	)
//	b, _ := bridge.New(reg, bridge.WithLogger(logging.NewSlogAdapter(slog.Default())))
//	router, err := b.Mount()
//	log.Fatal(http.ListenAndServe(":8080", router))
//
// # Error Handling
//
// All packages follow the same pattern:
//
//   - Construction errors: *contracterrors.ContractError naming the contract and
//     the parameter or result at fault
//   - Request errors: *contracterrors.ParamError wrapping a missing, conversion
//     or mismatch error; the bridge answers 400
//   - Result errors: *contracterrors.ResultError; the bridge answers 500
//   - Validation findings: collected in ValidationResult.Errors and Warnings,
//     not returned as error
//
// Use errors.Is with the contracterrors sentinels to classify errors.
//
// # Command-Line Interface
//
// The contractctl command wraps the packages:
//
//	# Lint declarations
//	contractctl validate contracts/
//
//	# Check or convert a value against a descriptor
//	contractctl check '["Number"]' '[1, 2]'
//	contractctl convert Number 0x1F
//
//	# Generate Go types and handler interfaces
//	contractctl generate -p api -o internal/api contracts/
//
//	# Serve declarations with an echoing mock handler
//	contractctl serve -c serve.toml contracts/
//
//	# Run the MCP server over stdio
//	contractctl mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/apicontract/cmd/contractctl@latest
package apicontract
