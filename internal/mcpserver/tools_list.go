package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/apicontract/contract"
)

type listContractsInput struct {
	Contracts contractsInput `json:"contracts"          jsonschema:"The contract declarations to list"`
	Method    string         `json:"method,omitempty"   jsonschema:"Filter by HTTP method (case-insensitive)"`
	Name      string         `json:"name,omitempty"     jsonschema:"Filter by contract name. Supports * and ? globs; plain values match case-insensitively."`
	Source    string         `json:"source,omitempty"   jsonschema:"Only contracts with at least one parameter from this source (path, query, body, @body, header)"`
	Detail    bool           `json:"detail,omitempty"   jsonschema:"Return full parameter and result definitions"`
	GroupBy   string         `json:"group_by,omitempty" jsonschema:"Group results and return counts instead of individual items. Values: method, source"`
	Offset    int            `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
	Limit     int            `json:"limit,omitempty"    jsonschema:"Maximum number of results to return (default 100, 25 in detail mode)"`
}

type contractSummary struct {
	Name       string `json:"name"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	ParamCount int    `json:"param_count"`
	Location   string `json:"location,omitempty"`
}

type paramDetail struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Source      string `json:"source"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

type resultDetail struct {
	Type                 string              `json:"type"`
	Fields               []string            `json:"fields,omitempty"`
	Nested               map[string][]string `json:"nested,omitempty"`
	Description          string              `json:"description,omitempty"`
	SkipResultValidation bool                `json:"skip_result_validation,omitempty"`
}

type contractDetail struct {
	Name        string        `json:"name"`
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	Description string        `json:"description,omitempty"`
	Params      []paramDetail `json:"params,omitempty"`
	Result      resultDetail  `json:"result"`
}

type listContractsOutput struct {
	Total     int               `json:"total"`
	Matched   int               `json:"matched"`
	Returned  int               `json:"returned"`
	Contracts []contractSummary `json:"contracts,omitempty"`
	Details   []contractDetail  `json:"details,omitempty"`
	Groups    []groupCount      `json:"groups,omitempty"`
	Skipped   []string          `json:"skipped,omitempty"`
}

type listedContract struct {
	c        *contract.Contract
	location string
}

func handleListContracts(_ context.Context, _ *mcp.CallToolRequest, input listContractsInput) (*mcp.CallToolResult, listContractsOutput, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"method", "source"}); err != nil {
		return errResult(err), listContractsOutput{}, nil
	}
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), listContractsOutput{}, nil
	}
	if input.Source != "" && !contract.Source(input.Source).Valid() {
		return errResult(fmt.Errorf("invalid source %q", input.Source)), listContractsOutput{}, nil
	}

	entries, err := input.Contracts.resolve()
	if err != nil {
		return errResult(err), listContractsOutput{}, nil
	}

	output := listContractsOutput{Total: len(entries)}
	var matched []listedContract
	for _, e := range entries {
		c, err := buildEntry(e)
		if err != nil {
			output.Skipped = append(output.Skipped, sanitizeError(err))
			continue
		}
		if input.Method != "" && !strings.EqualFold(input.Method, c.Method) {
			continue
		}
		if !matchGlobName(input.Name, c.Name) {
			continue
		}
		if input.Source != "" && len(c.ParamsFrom(contract.Source(input.Source))) == 0 {
			continue
		}
		matched = append(matched, listedContract{c: c, location: sanitizePaths(fmt.Sprintf("%s:%d", e.Source, e.Line))})
	}
	output.Matched = len(matched)

	if input.GroupBy != "" {
		output.Groups = groupAndSort(matched, func(l listedContract) []string {
			if strings.EqualFold(input.GroupBy, "method") {
				return []string{l.c.Method}
			}
			return contractSources(l.c)
		})
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	if input.Detail {
		page := paginate(matched, input.Offset, detailLimit(input.Limit))
		output.Details = makeSlice[contractDetail](len(page))
		for _, l := range page {
			output.Details = append(output.Details, toContractDetail(l.c))
		}
		output.Returned = len(output.Details)
		return nil, output, nil
	}

	page := paginate(matched, input.Offset, input.Limit)
	output.Contracts = makeSlice[contractSummary](len(page))
	for _, l := range page {
		output.Contracts = append(output.Contracts, contractSummary{
			Name:       l.c.Name,
			Method:     l.c.Method,
			URL:        l.c.URL,
			ParamCount: len(l.c.Params),
			Location:   l.location,
		})
	}
	output.Returned = len(output.Contracts)
	return nil, output, nil
}

// contractSources returns the distinct parameter sources of c in
// declaration order.
func contractSources(c *contract.Contract) []string {
	var out []string
	seen := make(map[contract.Source]bool)
	for _, p := range c.Params {
		if seen[p.Source] {
			continue
		}
		seen[p.Source] = true
		out = append(out, string(p.Source))
	}
	return out
}

func toContractDetail(c *contract.Contract) contractDetail {
	d := contractDetail{
		Name:        c.Name,
		Method:      c.Method,
		URL:         c.URL,
		Description: c.Description,
		Result: resultDetail{
			Type:                 c.Result.Type.String(),
			Fields:               c.Result.Filter.Fields,
			Nested:               c.Result.Filter.Nested,
			Description:          c.Result.Description,
			SkipResultValidation: c.SkipResultValidation,
		},
	}
	d.Params = makeSlice[paramDetail](len(c.Params))
	for _, p := range c.Params {
		d.Params = append(d.Params, paramDetail{
			Name:        p.Name,
			Type:        p.Type.String(),
			Source:      string(p.Source),
			Required:    p.Required,
			Default:     p.Default,
			Description: p.Description,
		})
	}
	return d
}
