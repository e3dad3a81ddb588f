// Package generator generates Go code from contracts.
//
// For every contract it declares a params struct (one field per param, JSON
// tags carrying the param names) and a result type, plus structs for nested
// object descriptors. Optional values without a default become pointers.
//
// The handlers file declares a Handlers interface with one typed method per
// contract and HandlerFuncs, which adapts an implementation to the
// map[string]contract.HandlerFunc accepted by loader.WithHandlers. The
// optional stubs file declares UnimplementedHandlers.
//
// Generated sources are formatted, and their imports fixed, with
// golang.org/x/tools/imports.
package generator
