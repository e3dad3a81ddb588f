package validator_test

import (
	"fmt"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/validator"
)

func ExampleValidator_ValidateDeclarations() {
	v := validator.New()
	result := v.ValidateDeclarations(contract.Declaration{
		Name:        "getUser",
		URL:         "/users/{userId}",
		Method:      "GET",
		Description: "Fetch one user",
		Params: []contract.Param{
			{Name: "id", Kind: "Number", Source: contract.SourcePath},
		},
		Result: "String",
	})
	fmt.Println("valid:", result.Valid)
	for _, w := range result.Warnings {
		fmt.Println(w.Rule, w.Path)
	}
	// Output:
	// valid: true
	// path-param-unbound getUser.params.id
	// url-placeholder-undeclared getUser.url
}
