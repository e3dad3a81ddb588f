// Package bridge serves contracts over net/http.
//
// A [Bridge] wraps a registry; [Bridge.Mount] selects the contracts to serve
// and returns a [Router], which is an http.Handler. For every request the
// router:
//
//  1. matches the method and path against the mounted URL templates
//     (":name" and "{name}" segments both bind path parameters)
//  2. decodes a JSON body when the contract declares body parameters
//  3. extracts and checks the declared parameters
//  4. invokes the handler with the resolved arguments
//  5. filters and checks the result and writes it as JSON
//
// Failures become JSON error bodies:
//
//	{"error": "...", "code": "missing_param", "param": "id", "requestId": "..."}
//
// Parameter failures answer 400, result check failures 500. Handlers choose
// their own status by returning an [*HTTPError]; any other handler error
// answers 500 without exposing its text.
//
// # Example
//
//	reg, _ := registry.New()
//	_, _ = reg.Register(contract.Declaration{...})
//	b, err := bridge.New(reg, bridge.WithLogger(logging.NewSlogAdapter(slog.Default())))
//	if err != nil {
//		log.Fatal(err)
//	}
//	router, err := b.Mount()
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(http.ListenAndServe(":8080", router))
//
// Handlers reach the request metadata through [RequestFromContext].
package bridge
