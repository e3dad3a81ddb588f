package mcpserver

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apicontract/typedef"
)

type checkValueInput struct {
	Descriptor any  `json:"descriptor"        jsonschema:"Type descriptor, e.g. \"Number\", [\"String\"], {\"id\": \"Number\"} or {\"kind\": \"String\", \"required\": false}"`
	Value      any  `json:"value,omitempty"   jsonschema:"The JSON value to check"`
	Missing    bool `json:"missing,omitempty" jsonschema:"Check an absent value instead of value"`
}

type checkValueOutput struct {
	Descriptor string `json:"descriptor"`
	Form       string `json:"form"`
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
}

func handleCheckValue(_ context.Context, _ *mcp.CallToolRequest, input checkValueInput) (*mcp.CallToolResult, checkValueOutput, error) {
	d, err := parseDescriptor(input.Descriptor)
	if err != nil {
		return errResult(err), checkValueOutput{}, nil
	}

	output := checkValueOutput{Descriptor: d.String(), Form: d.Form.String(), Valid: true}
	if input.Missing {
		err = typedef.CheckMissing(d)
	} else {
		err = typedef.Check(d, input.Value)
	}
	if err != nil {
		output.Valid = false
		output.Message = err.Error()
	}
	return nil, output, nil
}

type convertValueInput struct {
	Descriptor any    `json:"descriptor" jsonschema:"Type descriptor the raw value is converted to"`
	Raw        string `json:"raw"        jsonschema:"The raw string as read from a path segment, query string, or header"`
}

type convertValueOutput struct {
	Descriptor string `json:"descriptor"`
	Value      any    `json:"value,omitempty"`
	Valid      bool   `json:"valid"`
	Message    string `json:"message,omitempty"`
}

func handleConvertValue(_ context.Context, _ *mcp.CallToolRequest, input convertValueInput) (*mcp.CallToolResult, convertValueOutput, error) {
	d, err := parseDescriptor(input.Descriptor)
	if err != nil {
		return errResult(err), convertValueOutput{}, nil
	}

	output := convertValueOutput{Descriptor: d.String()}
	v, err := typedef.Convert(d, input.Raw)
	if err != nil {
		output.Message = err.Error()
		return nil, output, nil
	}
	output.Value = jsonSafe(v)
	if err := typedef.Check(d, v); err != nil {
		output.Message = err.Error()
		return nil, output, nil
	}
	output.Valid = true
	return nil, output, nil
}

func parseDescriptor(raw any) (*typedef.Descriptor, error) {
	if raw == nil {
		return nil, fmt.Errorf("descriptor is required")
	}
	return typedef.Parse(raw)
}

// jsonSafe spells infinite numbers as strings, which JSON cannot encode.
func jsonSafe(v any) any {
	if f, ok := v.(float64); ok && math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return v
}
