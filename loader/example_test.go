package loader_test

import (
	"context"
	"fmt"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/loader"
)

func ExampleContracts() {
	declarations := []byte(`
- name: hello
  url: /hello/:who
  method: GET
  params:
    who: {kind: String, source: path}
  result: {greeting: String}
  handler: hello
`)
	hello := func(_ context.Context, args contract.Args) (any, error) {
		return map[string]any{"greeting": "hello " + args.String("who")}, nil
	}

	contracts, err := loader.Contracts(
		loader.WithBytes(declarations),
		loader.WithHandlers(map[string]contract.HandlerFunc{"hello": hello}),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	out, err := contracts[0].Call(context.Background(), nil, map[string]string{"who": "gopher"}, nil, nil)
	fmt.Println(contracts[0], out, err)
	// Output: GET /hello/:who (hello) map[greeting:hello gopher] <nil>
}
