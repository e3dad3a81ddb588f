package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apicontract/contracterrors"
)

type extractParamsInput struct {
	Contracts contractsInput      `json:"contracts"        jsonschema:"The contract declarations"`
	Name      string              `json:"name"             jsonschema:"Name of the contract to resolve parameters for"`
	Path      map[string]string   `json:"path,omitempty"   jsonschema:"Matched path template parameters"`
	Query     map[string][]string `json:"query,omitempty"  jsonschema:"Query string values; every key may repeat"`
	Header    map[string]string   `json:"header,omitempty" jsonschema:"Request headers (names are case-insensitive)"`
	Body      any                 `json:"body,omitempty"   jsonschema:"Decoded JSON request body"`
}

type argValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type extractParamsOutput struct {
	Contract string     `json:"contract"`
	OK       bool       `json:"ok"`
	Args     []argValue `json:"args,omitempty"`
	Param    string     `json:"param,omitempty"`
	Source   string     `json:"source,omitempty"`
	Message  string     `json:"message,omitempty"`
}

func handleExtractParams(_ context.Context, _ *mcp.CallToolRequest, input extractParamsInput) (*mcp.CallToolResult, extractParamsOutput, error) {
	c, err := buildContract(input.Contracts, input.Name)
	if err != nil {
		return errResult(err), extractParamsOutput{}, nil
	}

	header := make(http.Header, len(input.Header))
	for k, v := range input.Header {
		header.Set(k, v)
	}

	output := extractParamsOutput{Contract: c.Name}
	args, err := c.ExtractParameters(url.Values(input.Query), input.Path, input.Body, header)
	if err != nil {
		output.Message = err.Error()
		var pe *contracterrors.ParamError
		if errors.As(err, &pe) {
			output.Param = pe.Name
			output.Source = pe.Source
		}
		return nil, output, nil
	}

	output.OK = true
	output.Args = makeSlice[argValue](args.Len())
	names := args.Names()
	for i, v := range args.Values() {
		output.Args = append(output.Args, argValue{Name: names[i], Value: jsonSafe(v)})
	}
	return nil, output, nil
}

type processResultInput struct {
	Contracts contractsInput `json:"contracts" jsonschema:"The contract declarations"`
	Name      string         `json:"name"      jsonschema:"Name of the contract whose result definition applies"`
	Value     any            `json:"value"     jsonschema:"Sample handler return value"`
}

type processResultOutput struct {
	Contract string `json:"contract"`
	OK       bool   `json:"ok"`
	Value    any    `json:"value,omitempty"`
	Message  string `json:"message,omitempty"`
}

func handleProcessResult(_ context.Context, _ *mcp.CallToolRequest, input processResultInput) (*mcp.CallToolResult, processResultOutput, error) {
	c, err := buildContract(input.Contracts, input.Name)
	if err != nil {
		return errResult(err), processResultOutput{}, nil
	}

	output := processResultOutput{Contract: c.Name}
	v, err := c.ProcessResult(input.Value)
	if err != nil {
		output.Message = err.Error()
		return nil, output, nil
	}
	output.OK = true
	output.Value = v
	return nil, output, nil
}
