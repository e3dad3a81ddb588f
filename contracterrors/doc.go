// Package contracterrors provides structured error types for apicontract.
//
// Import path: github.com/erraggy/apicontract/contracterrors
//
// Every failure raised by the descriptor grammar, the contract runtime and the
// surrounding tooling is one of the types below. Each type renders the same
// message text regardless of how deeply it is wrapped, so messages can be
// compared verbatim across implementations, while [errors.Is] and [errors.As]
// give callers a typed way to branch on the category.
//
// # Error Types
//
// Declaration time (fatal for the contract being built):
//
//   - [DescriptorError]: a type descriptor is malformed
//   - [ParamDefinitionError]: a parameter definition has a bad shape or source
//   - [MissingFieldError]: a contract declaration lacks name, url, method, result or handler
//   - [ContractError]: prefixes any of the above with the contract and parameter name
//
// Request time:
//
//   - [ConversionError]: a string value cannot be coerced to its declared type
//   - [MissingParamError]: a required parameter has no value
//   - [MismatchError]: a value does not conform to its descriptor
//   - [ResultError]: a handler result failed validation
//   - [ParamError]: names the parameter a request-time error belongs to
//
// Tooling:
//
//   - [DuplicateError], [NotFoundError]: registry lookups
//   - [LoadError]: contract declaration files that cannot be decoded
//   - [ConfigError]: invalid options
//
// # Sentinel Errors
//
// Each type matches a sentinel through its Is method:
//
//	if errors.Is(err, contracterrors.ErrMismatch) {
//	    // reply 400
//	}
//
// Extract details with errors.As:
//
//	var mm *contracterrors.MismatchError
//	if errors.As(err, &mm) {
//	    fmt.Println(mm.Fields) // object fields leading to the failure
//	}
package contracterrors
