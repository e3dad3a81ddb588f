package contract

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/typedef"
)

func newWithParams(t *testing.T, params ...Param) *Contract {
	t.Helper()
	decl := baseDeclaration()
	decl.Params = params
	c, err := New(decl)
	require.NoError(t, err)
	return c
}

func TestExtractPathConversion(t *testing.T) {
	c := newWithParams(t, Param{Name: "id", Kind: "Number", Source: SourcePath})

	args, err := c.ExtractParameters(nil, map[string]string{"id": "42"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{42.0}, args.Values())

	_, err = c.ExtractParameters(nil, map[string]string{"id": "adfc"}, nil, nil)
	require.Error(t, err)
	assert.Equal(t, `value "adfc" can't be converted to type define Number`, err.Error())
	assert.ErrorIs(t, err, contracterrors.ErrConversion)

	var pe *contracterrors.ParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "id", pe.Name)
	assert.Equal(t, "path", pe.Source)
}

func TestExtractDefaults(t *testing.T) {
	c := newWithParams(t, Param{
		Name:     "flag",
		Kind:     "Boolean",
		Source:   SourceQuery,
		Required: Bool(false),
		Default:  true,
	})

	args, err := c.ExtractParameters(url.Values{}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{true}, args.Values())
	assert.True(t, args.Bool("flag"))

	args, err = c.ExtractParameters(url.Values{"flag": {"false"}}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{false}, args.Values())
}

func TestExtractOptionalWithoutDefault(t *testing.T) {
	c := newWithParams(t, Param{Name: "q", Kind: "String", Source: SourceQuery, Required: Bool(false)})
	args, err := c.ExtractParameters(nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{nil}, args.Values())
}

func TestExtractMissingRequired(t *testing.T) {
	tests := []struct {
		source Source
		want   string
	}{
		{SourcePath, "param p from path is required but undefined"},
		{SourceQuery, "param p from query is required but undefined"},
		{SourceBody, "param p from body is required but undefined"},
		{SourceWholeBody, "param p from @body is required but undefined"},
		{SourceHeader, "param p from header is required but undefined"},
	}
	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			c := newWithParams(t, Param{Name: "p", Kind: typedef.Mapping{}, Source: tt.source})
			_, err := c.ExtractParameters(url.Values{"p": {}}, map[string]string{}, nil, http.Header{})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.ErrorIs(t, err, contracterrors.ErrMissingParam)
		})
	}
}

func TestExtractQuery(t *testing.T) {
	t.Run("scalar takes the first value", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "page", Kind: "Number", Source: SourceQuery})
		args, err := c.ExtractParameters(url.Values{"page": {"2", "3"}}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 2.0, args.Number("page"))
	})

	t.Run("array keeps every value", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "tag", Kind: []any{"String"}, Source: SourceQuery})
		args, err := c.ExtractParameters(url.Values{"tag": {"a", "b"}}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, args.At(0))
	})

	t.Run("array elements are not coerced", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "id", Kind: []any{"Number"}, Source: SourceQuery})
		_, err := c.ExtractParameters(url.Values{"id": {"1"}}, nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, `value "1" is not conform to type define Number`, err.Error())
	})

	t.Run("object parsed from json", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "range", Kind: map[string]any{"from": "Number", "to": "Number"}, Source: SourceQuery})
		args, err := c.ExtractParameters(url.Values{"range": {`{"from":1,"to":5}`}}, nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"from": 1.0, "to": 5.0}, args.At(0))

		_, err = c.ExtractParameters(url.Values{"range": {`{"from":1}`}}, nil, nil, nil)
		require.Error(t, err)
		assert.Equal(t, "object field to: value undefined is not conform to type define Number", err.Error())
	})
}

func TestExtractBody(t *testing.T) {
	t.Run("body member is not coerced", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "count", Kind: "Number", Source: SourceBody})
		args, err := c.ExtractParameters(nil, nil, map[string]any{"count": 3.0}, nil)
		require.NoError(t, err)
		assert.Equal(t, 3.0, args.At(0))

		_, err = c.ExtractParameters(nil, nil, map[string]any{"count": "3"}, nil)
		require.Error(t, err)
		assert.Equal(t, `value "3" is not conform to type define Number`, err.Error())
	})

	t.Run("null member is present", func(t *testing.T) {
		c := newWithParams(t, Param{Name: "note", Kind: "String", Source: SourceBody, Required: Bool(false), Default: "x"})
		_, err := c.ExtractParameters(nil, nil, map[string]any{"note": nil}, nil)
		require.Error(t, err)
		assert.Equal(t, "value null is not conform to type define String", err.Error())
	})

	t.Run("whole body", func(t *testing.T) {
		c := newWithParams(t, Param{
			Name:   "user",
			Kind:   typedef.Mapping{{Name: "name", Value: "String"}, {Name: "age", Value: "Number"}},
			Source: SourceWholeBody,
		})
		body := map[string]any{"name": "ann", "age": 30.0}
		args, err := c.ExtractParameters(nil, nil, body, nil)
		require.NoError(t, err)
		assert.Equal(t, body, args.At(0))

		_, err = c.ExtractParameters(nil, nil, map[string]any{"name": "ann"}, nil)
		require.Error(t, err)
		assert.Equal(t, "object field age: value undefined is not conform to type define Number", err.Error())
	})
}

func TestExtractHeader(t *testing.T) {
	c := newWithParams(t, Param{Name: "x-retry", Kind: "Number", Source: SourceHeader})

	h := http.Header{}
	h.Set("X-Retry", "3")
	args, err := c.ExtractParameters(nil, nil, nil, h)
	require.NoError(t, err)
	assert.Equal(t, 3.0, args.At(0))

	raw := http.Header{"x-retry": {"4"}}
	args, err = c.ExtractParameters(nil, nil, nil, raw)
	require.NoError(t, err)
	assert.Equal(t, 4.0, args.At(0))
}

func TestExtractOrder(t *testing.T) {
	c := newWithParams(t,
		Param{Name: "b", Kind: "String", Source: SourceQuery},
		Param{Name: "a", Kind: "Number", Source: SourcePath},
		Param{Name: "c", Kind: "Boolean", Source: SourceHeader},
	)
	h := http.Header{}
	h.Set("c", "true")
	args, err := c.ExtractParameters(url.Values{"b": {"x"}}, map[string]string{"a": "1"}, nil, h)
	require.NoError(t, err)
	assert.Equal(t, []any{"x", 1.0, true}, args.Values())
	assert.Equal(t, []string{"b", "a", "c"}, args.Names())
	assert.Equal(t, map[string]any{"a": 1.0, "b": "x", "c": true}, args.Map())

	b, err := args.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":"x","a":1,"c":true}`, string(b))
}
