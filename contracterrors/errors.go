package contracterrors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erraggy/apicontract/internal/jsontext"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrDescriptor indicates a malformed type descriptor.
	ErrDescriptor = errors.New("invalid descriptor")

	// ErrParamDefinition indicates a malformed parameter definition.
	ErrParamDefinition = errors.New("invalid param definition")

	// ErrMissingField indicates a contract declaration lacks a mandatory field.
	ErrMissingField = errors.New("missing contract field")

	// ErrConversion indicates a string value could not be coerced.
	ErrConversion = errors.New("conversion error")

	// ErrMissingParam indicates a required parameter had no value.
	ErrMissingParam = errors.New("missing required param")

	// ErrMismatch indicates a value did not conform to its descriptor.
	ErrMismatch = errors.New("value mismatch")

	// ErrResult indicates a handler result failed validation.
	ErrResult = errors.New("result validation error")

	// ErrDuplicate indicates a contract name was registered twice.
	ErrDuplicate = errors.New("duplicate contract")

	// ErrNotFound indicates a contract name is unknown.
	ErrNotFound = errors.New("contract not found")

	// ErrLoad indicates a contract declaration file could not be decoded.
	ErrLoad = errors.New("load error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

const descriptorInvalid = "type define is invalid"

// DescriptorError reports a malformed type descriptor.
type DescriptorError struct {
	// Members are the object member names leading from the root descriptor
	// to the offending one, outermost first.
	Members []string
	// Message overrides the default "type define is invalid" text
	Message string
}

// Error returns "member=a member=c type define is invalid" style text.
func (e *DescriptorError) Error() string {
	var sb strings.Builder
	for _, m := range e.Members {
		sb.WriteString("member=")
		sb.WriteString(m)
		sb.WriteByte(' ')
	}
	if e.Message != "" {
		sb.WriteString(e.Message)
	} else {
		sb.WriteString(descriptorInvalid)
	}
	return sb.String()
}

// InMember returns a copy of e located one member deeper from the caller's view,
// i.e. with name prepended to Members.
func (e *DescriptorError) InMember(name string) *DescriptorError {
	members := make([]string, 0, len(e.Members)+1)
	members = append(members, name)
	members = append(members, e.Members...)
	return &DescriptorError{Members: members, Message: e.Message}
}

// Is reports whether target matches this error type.
func (e *DescriptorError) Is(target error) bool {
	return target == ErrDescriptor
}

// ParamDefinitionError reports a parameter definition whose shape is illegal:
// no kind, no source, or an unrecognized source.
type ParamDefinitionError struct {
	// Source is the declared source, if any
	Source string
	// Message overrides the default text
	Message string
}

// Error returns a human-readable error message.
func (e *ParamDefinitionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "param define is invalid"
}

// Is reports whether target matches this error type.
func (e *ParamDefinitionError) Is(target error) bool {
	return target == ErrParamDefinition
}

// MissingFieldError reports a contract declaration without a mandatory field.
type MissingFieldError struct {
	// Field is the missing field name; empty when the declaration itself is missing
	Field string
}

// Error returns a human-readable error message.
func (e *MissingFieldError) Error() string {
	if e.Field == "" {
		return "contract definition is not defined"
	}
	return "contract." + e.Field + " is not defined"
}

// Is reports whether target matches this error type.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ContractError attaches the contract name (and parameter name, or the result
// marker) to a declaration-time failure.
type ContractError struct {
	// Contract is the contract name
	Contract string
	// Param is the parameter name, empty for result errors
	Param string
	// Result is true when the failure concerns the result definition
	Result bool
	// Cause is the underlying error
	Cause error
}

// Error returns "<contract> param=<param> <cause>" or "<contract> result <cause>".
func (e *ContractError) Error() string {
	cause := ""
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	switch {
	case e.Result:
		return fmt.Sprintf("%s result %s", e.Contract, cause)
	case e.Param != "":
		return fmt.Sprintf("%s param=%s %s", e.Contract, e.Param, cause)
	default:
		return fmt.Sprintf("%s %s", e.Contract, cause)
	}
}

// Unwrap returns the underlying cause for error chaining.
func (e *ContractError) Unwrap() error {
	return e.Cause
}

// ConversionError reports a string value that could not be coerced into the
// declared type.
type ConversionError struct {
	// Value is the raw string value
	Value string
	// Kind is the display name of the target type (e.g. "Number")
	Kind string
	// Cause is set when structured (JSON) parsing failed; its message is
	// reported unchanged
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return fmt.Sprintf("value %s can't be converted to type define %s", jsontext.Stringify(e.Value, true), e.Kind)
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// MissingParamError reports a required parameter without a resolvable value.
type MissingParamError struct {
	// Name is the parameter name
	Name string
	// Source is the declared source (path, query, body, @body, header)
	Source string
}

// Error returns a human-readable error message.
func (e *MissingParamError) Error() string {
	return fmt.Sprintf("param %s from %s is required but undefined", e.Name, e.Source)
}

// Is reports whether target matches this error type.
func (e *MissingParamError) Is(target error) bool {
	return target == ErrMissingParam
}

// ParamError attributes a request-time failure to the parameter it was
// raised for. The message is the cause's message, unchanged.
type ParamError struct {
	// Name is the parameter name
	Name string
	// Source is the declared source of the parameter
	Source string
	// Cause is the conversion, missing or mismatch error
	Cause error
}

// Error returns the cause's message.
func (e *ParamError) Error() string {
	if e.Cause == nil {
		return "param " + e.Name + " is invalid"
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParamError) Unwrap() error {
	return e.Cause
}

// MismatchError reports a value whose runtime shape disagrees with its descriptor.
type MismatchError struct {
	// Fields are the object fields leading to the failing value, outermost first.
	// Array elements do not contribute a frame.
	Fields []string
	// Detail is the innermost failure text
	Detail string
}

// Error returns "object field a: object field b: <detail>" style text.
func (e *MismatchError) Error() string {
	var sb strings.Builder
	for _, f := range e.Fields {
		sb.WriteString("object field ")
		sb.WriteString(f)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Detail)
	return sb.String()
}

// InField returns a copy of e with field prepended to Fields.
func (e *MismatchError) InField(field string) *MismatchError {
	fields := make([]string, 0, len(e.Fields)+1)
	fields = append(fields, field)
	fields = append(fields, e.Fields...)
	return &MismatchError{Fields: fields, Detail: e.Detail}
}

// Is reports whether target matches this error type.
func (e *MismatchError) Is(target error) bool {
	return target == ErrMismatch
}

// ResultError wraps the mismatch found while validating a handler result.
type ResultError struct {
	// Cause is the underlying mismatch
	Cause error
}

// Error returns a human-readable error message.
func (e *ResultError) Error() string {
	cause := ""
	if e.Cause != nil {
		cause = e.Cause.Error()
	}
	return "check result failed: " + cause
}

// Unwrap returns the underlying cause for error chaining.
func (e *ResultError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ResultError) Is(target error) bool {
	return target == ErrResult
}

// DuplicateError reports a contract name registered more than once.
type DuplicateError struct {
	// Name is the contract name
	Name string
	// Sources lists where the colliding declarations came from, when known
	Sources []string
}

// Error returns a human-readable error message.
func (e *DuplicateError) Error() string {
	msg := fmt.Sprintf("contract %s is already registered", e.Name)
	if len(e.Sources) > 0 {
		msg += " (" + strings.Join(e.Sources, ", ") + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// NotFoundError reports a lookup of an unknown contract name.
type NotFoundError struct {
	// Name is the contract name
	Name string
}

// Error returns a human-readable error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contract %s is not found", e.Name)
}

// Is reports whether target matches this error type.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LoadError represents a failure to decode a contract declaration file.
type LoadError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
