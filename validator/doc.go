// Package validator lints contract declarations.
//
// Every declaration is built with contract.New; construction failures are
// reported as errors. Declarations that build are then checked against
// conventions that contract.New does not enforce:
//
//   - missing-description: the contract has no description
//   - url-template-invalid: the URL template is malformed (error)
//   - path-param-unbound: a path param does not appear in the URL template
//   - url-placeholder-undeclared: a URL placeholder has no path param
//   - required-default: a required param declares a default, which is never used
//   - body-on-bodyless-method: body or @body params on GET, HEAD or DELETE
//   - multiple-whole-body: more than one @body param
//   - duplicate-contract: two declarations share a name (error)
//   - duplicate-route: two contracts share a method and URL
//
// Warnings can be suppressed with WithIncludeWarnings(false). Strict mode
// reports them as errors.
//
// # Example
//
//	result, err := validator.ValidateWithOptions(
//		validator.WithDir("contracts"),
//		validator.WithStrictMode(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//		fmt.Println(e)
//	}
//
// Handlers are not needed: declarations without one are validated with a
// placeholder.
package validator
