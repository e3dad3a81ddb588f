// Package contract binds an HTTP endpoint declaration to a handler and
// enforces it at runtime.
//
// A [Declaration] names the endpoint, its URL and method, its parameters and
// the shape of its result. [New] validates the declaration once and returns
// an immutable [Contract]:
//
//	c, err := contract.New(contract.Declaration{
//	    Name:   "getUser",
//	    URL:    "/users/:id",
//	    Method: "GET",
//	    Params: []contract.Param{
//	        {Name: "id", Kind: "Number", Source: contract.SourcePath},
//	        {Name: "verbose", Kind: "Boolean", Source: contract.SourceQuery,
//	            Required: contract.Bool(false), Default: false},
//	    },
//	    Result: contract.Result{
//	        Kind:   typedef.Mapping{{Name: "id", Value: "Number"}, {Name: "name", Value: "String"}},
//	        Filter: contract.Filter{Fields: []string{"id", "name"}},
//	    },
//	    Handler: getUser,
//	})
//
// Per request, [Contract.ExtractParameters] resolves each parameter from its
// source (path, query, body, whole body or header), coerces string input to
// the declared type, substitutes defaults and validates the value. The
// resulting [Args] are handed to the handler, and [Contract.ProcessResult]
// filters and validates what it returns. [Contract.Call] runs all three steps.
//
// A Contract holds no per-request state and may be used concurrently.
package contract
