package contracterrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorError(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		assert.Equal(t, "type define is invalid", (&DescriptorError{}).Error())
	})

	t.Run("member chain is prefixed outermost first", func(t *testing.T) {
		err := (&DescriptorError{}).InMember("c").InMember("a")
		assert.Equal(t, "member=a member=c type define is invalid", err.Error())
	})

	t.Run("InMember does not mutate the receiver", func(t *testing.T) {
		inner := &DescriptorError{Members: []string{"b"}}
		_ = inner.InMember("a")
		assert.Equal(t, []string{"b"}, inner.Members)
	})

	t.Run("Is matches ErrDescriptor", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &DescriptorError{})
		assert.ErrorIs(t, err, ErrDescriptor)
		assert.NotErrorIs(t, err, ErrMismatch)
	})
}

func TestContractError(t *testing.T) {
	tests := []struct {
		name string
		err  *ContractError
		want string
	}{
		{
			name: "param failure",
			err:  &ContractError{Contract: "getUser", Param: "id", Cause: &DescriptorError{}},
			want: "getUser param=id type define is invalid",
		},
		{
			name: "param definition failure",
			err:  &ContractError{Contract: "getUser", Param: "id", Cause: &ParamDefinitionError{}},
			want: "getUser param=id param define is invalid",
		},
		{
			name: "result failure",
			err:  &ContractError{Contract: "getUser", Result: true, Cause: &DescriptorError{}},
			want: "getUser result type define is invalid",
		},
		{
			name: "contract level failure",
			err:  &ContractError{Contract: "getUser", Cause: errors.New("boom")},
			want: "getUser boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}

	t.Run("unwraps to cause sentinel", func(t *testing.T) {
		err := &ContractError{Contract: "c", Param: "p", Cause: &DescriptorError{}}
		assert.ErrorIs(t, err, ErrDescriptor)

		var de *DescriptorError
		require.ErrorAs(t, err, &de)
	})
}

func TestConversionError(t *testing.T) {
	t.Run("default message", func(t *testing.T) {
		err := &ConversionError{Value: "abc", Kind: "Number"}
		assert.Equal(t, `value "abc" can't be converted to type define Number`, err.Error())
		assert.ErrorIs(t, err, ErrConversion)
	})

	t.Run("cause message is passed through", func(t *testing.T) {
		cause := errors.New("Unexpected token")
		err := &ConversionError{Value: "{", Kind: "Object", Cause: cause}
		assert.Equal(t, "Unexpected token", err.Error())
		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, ErrConversion)
	})
}

func TestMissingParamError(t *testing.T) {
	err := &MissingParamError{Name: "page", Source: "query"}
	assert.Equal(t, "param page from query is required but undefined", err.Error())
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestMismatchError(t *testing.T) {
	err := (&MismatchError{Detail: "value 1 is not conform to type define String"}).InField("b").InField("a")
	assert.Equal(t, "object field a: object field b: value 1 is not conform to type define String", err.Error())
	assert.Equal(t, []string{"a", "b"}, err.Fields)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestResultError(t *testing.T) {
	mm := &MismatchError{Detail: "x"}
	err := &ResultError{Cause: mm}
	assert.Equal(t, "check result failed: x", err.Error())
	assert.ErrorIs(t, err, ErrResult)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestMissingFieldError(t *testing.T) {
	assert.Equal(t, "contract.url is not defined", (&MissingFieldError{Field: "url"}).Error())
	assert.Equal(t, "contract definition is not defined", (&MissingFieldError{}).Error())
	assert.ErrorIs(t, &MissingFieldError{Field: "name"}, ErrMissingField)
}

func TestRegistryErrors(t *testing.T) {
	assert.Equal(t, "contract a is already registered", (&DuplicateError{Name: "a"}).Error())
	assert.Equal(t, "contract a is already registered (x.yaml, y.yaml)",
		(&DuplicateError{Name: "a", Sources: []string{"x.yaml", "y.yaml"}}).Error())
	assert.ErrorIs(t, &DuplicateError{}, ErrDuplicate)

	assert.Equal(t, "contract a is not found", (&NotFoundError{Name: "a"}).Error())
	assert.ErrorIs(t, &NotFoundError{}, ErrNotFound)
}

func TestLoadError(t *testing.T) {
	tests := []struct {
		name string
		err  *LoadError
		want string
	}{
		{"minimal", &LoadError{}, "load error"},
		{"path only", &LoadError{Path: "a.yaml"}, "load error in a.yaml"},
		{"line only", &LoadError{Line: 3}, "load error at line 3"},
		{
			"all fields",
			&LoadError{Path: "a.yaml", Line: 3, Column: 7, Message: "bad", Cause: errors.New("eof")},
			"load error in a.yaml at line 3, column 7: bad: eof",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrLoad)
		})
	}
}

func TestConfigError(t *testing.T) {
	cause := errors.New("negative")
	err := &ConfigError{Option: "max-body", Value: -1, Message: "must be positive", Cause: cause}
	assert.Equal(t, "configuration error for max-body (value: -1): must be positive: negative", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "configuration error", (&ConfigError{}).Error())
}

func TestParamError(t *testing.T) {
	cause := &ConversionError{Value: "adfc", Kind: "Number"}
	err := &ParamError{Name: "id", Source: "path", Cause: cause}
	assert.Equal(t, cause.Error(), err.Error())
	assert.ErrorIs(t, err, ErrConversion)

	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "adfc", ce.Value)

	assert.Equal(t, "param id is invalid", (&ParamError{Name: "id"}).Error())
}
