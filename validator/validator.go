package validator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/apicontract/bridge"
	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/internal/issues"
	"github.com/erraggy/apicontract/internal/severity"
	"github.com/erraggy/apicontract/loader"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a declaration that cannot be built
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a best practice violation or recommendation
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// Rule identifiers.
const (
	RuleContractInvalid          = "contract-invalid"
	RuleMissingDescription       = "missing-description"
	RuleURLTemplateInvalid       = "url-template-invalid"
	RulePathParamUnbound         = "path-param-unbound"
	RuleURLPlaceholderUndeclared = "url-placeholder-undeclared"
	RuleRequiredDefault          = "required-default"
	RuleBodyOnBodylessMethod     = "body-on-bodyless-method"
	RuleMultipleWholeBody        = "multiple-whole-body"
	RuleDuplicateContract        = "duplicate-contract"
	RuleDuplicateRoute           = "duplicate-route"
)

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of validating a set of declarations
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool `json:"valid"`
	// Errors contains all validation errors
	Errors []ValidationError `json:"errors"`
	// Warnings contains all validation warnings
	Warnings []ValidationError `json:"warnings"`
	// ErrorCount is the total number of errors
	ErrorCount int `json:"errorCount"`
	// WarningCount is the total number of warnings
	WarningCount int `json:"warningCount"`
	// ContractCount is the number of declarations validated
	ContractCount int `json:"contractCount"`
	// Contracts holds the contracts that were built successfully
	Contracts []*contract.Contract `json:"-"`
	// LoadTime is the time taken to load the declarations
	LoadTime time.Duration `json:"loadTime"`
	// SourcePath is the file or directory that was validated
	SourcePath string `json:"sourcePath,omitempty"`
}

// Validator lints contract declarations.
type Validator struct {
	// IncludeWarnings determines whether to report best practice warnings
	IncludeWarnings bool
	// StrictMode reports warnings as errors
	StrictMode bool
}

// New creates a Validator with warnings enabled.
func New() *Validator {
	return &Validator{IncludeWarnings: true}
}

// ValidateWithOptions validates the configured input source.
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
	}

	switch {
	case cfg.declarations != nil:
		return v.ValidateDeclarations(cfg.declarations...), nil
	case cfg.entries != nil:
		return v.ValidateEntries(cfg.entries), nil
	}

	var (
		loadOpt loader.Option
		source  string
	)
	switch {
	case cfg.filePath != nil:
		loadOpt, source = loader.WithFilePath(*cfg.filePath), *cfg.filePath
	case cfg.dir != nil:
		loadOpt, source = loader.WithDir(*cfg.dir), *cfg.dir
	default:
		loadOpt = loader.WithBytes(cfg.data)
	}

	start := time.Now()
	entries, err := loader.Load(loadOpt, loader.WithLogger(cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	loadTime := time.Since(start)

	result := v.ValidateEntries(entries)
	result.LoadTime = loadTime
	result.SourcePath = source
	return result, nil
}

// Validate loads and validates the declarations of a file.
func (v *Validator) Validate(path string) (*ValidationResult, error) {
	return ValidateWithOptions(
		WithFilePath(path),
		WithIncludeWarnings(v.IncludeWarnings),
		WithStrictMode(v.StrictMode),
	)
}

// ValidateDeclarations validates declarations built in code.
func (v *Validator) ValidateDeclarations(decls ...contract.Declaration) *ValidationResult {
	entries := make([]loader.Entry, len(decls))
	for i, d := range decls {
		entries[i] = loader.Entry{Declaration: d}
	}
	return v.ValidateEntries(entries)
}

// ValidateEntries validates loaded declarations.
func (v *Validator) ValidateEntries(entries []loader.Entry) *ValidationResult {
	result := &ValidationResult{
		Errors:        make([]ValidationError, 0),
		Warnings:      make([]ValidationError, 0),
		ContractCount: len(entries),
	}

	names := make(map[string]loader.Entry, len(entries))
	routes := make(map[string]string, len(entries))
	for i, e := range entries {
		id := entryID(i, e)

		if prev, dup := names[e.Declaration.Name]; dup && e.Declaration.Name != "" {
			v.addError(result, e, issueAt(e, ValidationError{
				Path:    id,
				Message: fmt.Sprintf("contract %s is already declared", e.Declaration.Name),
				Rule:    RuleDuplicateContract,
				Hint:    "first declared in " + location(prev),
			}))
			continue
		}
		names[e.Declaration.Name] = e

		c, err := build(e.Declaration)
		if err != nil {
			v.addError(result, e, constructionIssue(id, e, err))
			continue
		}
		result.Contracts = append(result.Contracts, c)

		for _, w := range lint(id, c) {
			if w.Severity == SeverityError {
				v.addError(result, e, w)
				continue
			}
			v.addWarning(result, e, w)
		}

		key := c.Method + " " + c.URL
		if prev, dup := routes[key]; dup {
			v.addWarning(result, e, ValidationError{
				Path:    id + ".url",
				Message: fmt.Sprintf("route %s is also served by %s", key, prev),
				Rule:    RuleDuplicateRoute,
				Field:   "url",
				Value:   c.URL,
			})
		} else {
			routes[key] = c.Name
		}
	}

	issues.Sort(result.Errors)
	issues.Sort(result.Warnings)
	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0
	return result
}

func placeholder(context.Context, contract.Args) (any, error) {
	return nil, nil
}

// build runs contract.New, supplying a placeholder handler when the
// declaration has none.
func build(decl contract.Declaration) (*contract.Contract, error) {
	if decl.Handler == nil {
		decl.Handler = placeholder
	}
	return contract.New(decl)
}

func constructionIssue(id string, e loader.Entry, err error) ValidationError {
	issue := ValidationError{
		Path:     id,
		Message:  err.Error(),
		Severity: SeverityError,
		Rule:     RuleContractInvalid,
	}

	var missing *contracterrors.MissingFieldError
	var cerr *contracterrors.ContractError
	switch {
	case errors.As(err, &missing):
		if missing.Field != "" {
			issue.Path = id + "." + missing.Field
			issue.Field = missing.Field
		}
	case errors.As(err, &cerr):
		issue.Message = cerr.Cause.Error()
		switch {
		case cerr.Param != "":
			issue.Path = id + ".params." + cerr.Param
			issue.Field = cerr.Param
		case cerr.Result:
			issue.Path = id + ".result"
			issue.Field = "result"
		}
	}
	return issueAt(e, issue)
}

// lint reports convention violations of a built contract.
func lint(id string, c *contract.Contract) []ValidationError {
	var out []ValidationError
	warn := func(path, field, rule, msg string) {
		out = append(out, ValidationError{Path: path, Field: field, Rule: rule, Message: msg, Severity: SeverityWarning})
	}

	if strings.TrimSpace(c.Description) == "" {
		warn(id, "description", RuleMissingDescription, "contract has no description")
	}

	placeholders, err := bridge.PathParams(c.URL)
	if err != nil {
		out = append(out, ValidationError{
			Path: id + ".url", Field: "url", Rule: RuleURLTemplateInvalid,
			Message: err.Error(), Severity: SeverityError, Value: c.URL,
		})
	}
	inURL := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		inURL[name] = true
	}

	declared := make(map[string]bool)
	wholeBody := 0
	for _, p := range c.Params {
		path := id + ".params." + p.Name
		switch p.Source {
		case contract.SourcePath:
			declared[p.Name] = true
			if err == nil && !inURL[p.Name] {
				warn(path, p.Name, RulePathParamUnbound,
					fmt.Sprintf("path param is not part of url %s", c.URL))
			}
		case contract.SourceWholeBody:
			wholeBody++
		}
		if p.Required && p.Default != nil {
			warn(path, p.Name, RuleRequiredDefault, "default is ignored because the param is required")
		}
		if p.Source.FromBody() && bodyless(c.Method) {
			warn(path, p.Name, RuleBodyOnBodylessMethod,
				fmt.Sprintf("%s requests usually carry no body", c.Method))
		}
	}
	if wholeBody > 1 {
		warn(id+".params", "params", RuleMultipleWholeBody,
			"more than one param reads the whole body ("+strconv.Itoa(wholeBody)+")")
	}
	for _, name := range placeholders {
		if !declared[name] {
			warn(id+".url", name, RuleURLPlaceholderUndeclared,
				fmt.Sprintf("url placeholder %s has no path param", name))
		}
	}
	return out
}

func bodyless(method string) bool {
	switch method {
	case "GET", "HEAD", "DELETE":
		return true
	}
	return false
}

func entryID(i int, e loader.Entry) string {
	if e.Declaration.Name != "" {
		return e.Declaration.Name
	}
	return "#" + strconv.Itoa(i)
}

func issueAt(e loader.Entry, issue ValidationError) ValidationError {
	issue.File = e.Source
	issue.Line = e.Line
	issue.Column = e.Column
	if issue.Contract == "" {
		issue.Contract = e.Declaration.Name
	}
	return issue
}

func location(e loader.Entry) string {
	if e.Line == 0 {
		if e.Source == "" {
			return "code"
		}
		return e.Source
	}
	return fmt.Sprintf("%s:%d:%d", e.Source, e.Line, e.Column)
}

func (v *Validator) addError(result *ValidationResult, e loader.Entry, issue ValidationError) {
	issue = issueAt(e, issue)
	issue.Severity = SeverityError
	result.Errors = append(result.Errors, issue)
}

func (v *Validator) addWarning(result *ValidationResult, e loader.Entry, issue ValidationError) {
	if v.StrictMode {
		v.addError(result, e, issue)
		return
	}
	if !v.IncludeWarnings {
		return
	}
	issue = issueAt(e, issue)
	issue.Severity = SeverityWarning
	result.Warnings = append(result.Warnings, issue)
}
