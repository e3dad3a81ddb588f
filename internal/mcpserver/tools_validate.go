package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apicontract/validator"
)

type validateInput struct {
	Contracts  contractsInput `json:"contracts"               jsonschema:"The contract declarations to validate"`
	Strict     *bool          `json:"strict,omitempty"        jsonschema:"Promote warnings to errors"`
	NoWarnings *bool          `json:"no_warnings,omitempty"   jsonschema:"Suppress warnings from output"`
	Offset     int            `json:"offset,omitempty"        jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int            `json:"limit,omitempty"         jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Rule     string `json:"rule,omitempty"`
	Contract string `json:"contract,omitempty"`
	Field    string `json:"field,omitempty"`
	Location string `json:"location,omitempty"`
}

type validateOutput struct {
	Valid         bool            `json:"valid"`
	ContractCount int             `json:"contract_count"`
	ErrorCount    int             `json:"error_count"`
	WarningCount  int             `json:"warning_count"`
	Returned      int             `json:"returned"`
	Errors        []validateIssue `json:"errors,omitempty"`
	Warnings      []validateIssue `json:"warnings,omitempty"`
}

func toValidateIssue(e validator.ValidationError) validateIssue {
	issue := validateIssue{
		Path:     e.Path,
		Message:  e.Message,
		Rule:     e.Rule,
		Contract: e.Contract,
		Field:    e.Field,
	}
	if e.HasLocation() {
		issue.Location = sanitizePaths(e.Location())
	}
	return issue
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := cfg.ValidateStrict
	if input.Strict != nil {
		strict = *input.Strict
	}
	noWarnings := cfg.ValidateNoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	entries, err := input.Contracts.resolve()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	result, err := validator.ValidateWithOptions(
		validator.WithEntries(entries),
		validator.WithStrictMode(strict),
		validator.WithIncludeWarnings(!noWarnings),
	)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:         result.Valid,
		ContractCount: result.ContractCount,
		ErrorCount:    result.ErrorCount,
	}

	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, toValidateIssue(e))
	}
	if !noWarnings {
		output.WarningCount = result.WarningCount
		output.Warnings = makeSlice[validateIssue](len(result.Warnings))
		for _, w := range result.Warnings {
			output.Warnings = append(output.Warnings, toValidateIssue(w))
		}
	}

	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	if !noWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}
