package contract

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/typedef"
)

func newWithResult(t *testing.T, result any) *Contract {
	t.Helper()
	decl := baseDeclaration()
	decl.Result = result
	c, err := New(decl)
	require.NoError(t, err)
	return c
}

func TestProcessResultMismatch(t *testing.T) {
	c := newWithResult(t, typedef.Mapping{{Name: "a", Value: "String"}, {Name: "b", Value: "Number"}})

	_, err := c.ProcessResult(map[string]any{"a": "x"})
	require.Error(t, err)
	assert.Equal(t, "check result failed: object field b: value undefined is not conform to type define Number", err.Error())
	assert.ErrorIs(t, err, contracterrors.ErrResult)
	assert.ErrorIs(t, err, contracterrors.ErrMismatch)

	out, err := c.ProcessResult(map[string]any{"a": "x", "b": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "x", "b": 1}, out)
}

func TestProcessResultListFilter(t *testing.T) {
	c := newWithResult(t, Result{
		Kind:   []any{typedef.Mapping{{Name: "a", Value: "String"}}},
		Filter: Filter{Fields: []string{"a"}},
	})

	in := []any{
		map[string]any{"a": "x", "secret": 1.0},
		map[string]any{"a": "y", "secret": 2.0},
	}
	out, err := c.ProcessResult(in)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"a": "x"}, map[string]any{"a": "y"}}, out)

	assert.Equal(t, map[string]any{"a": "x", "secret": 1.0}, in[0], "input must not be modified")

	again, err := c.ProcessResult(out)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestProcessResultFilterBeforeValidation(t *testing.T) {
	c := newWithResult(t, Result{
		Kind:   typedef.Mapping{{Name: "a", Value: "String"}, {Name: "b", Value: "Number"}},
		Filter: Filter{Fields: []string{"a"}},
	})
	_, err := c.ProcessResult(map[string]any{"a": "x", "b": 1.0})
	require.Error(t, err)
	assert.Equal(t, "check result failed: object field b: value undefined is not conform to type define Number", err.Error())
}

func TestProcessResultNestedFilter(t *testing.T) {
	c := newWithResult(t, Result{
		Kind: typedef.Mapping{
			{Name: "total", Value: "Number"},
			{Name: "items", Value: []any{typedef.Mapping{{Name: "id", Value: "Number"}}}},
			{Name: "owner", Value: typedef.Mapping{{Name: "name", Value: "String"}}},
		},
		Filter: Filter{Nested: map[string][]string{
			"items":   {"id"},
			"owner":   {"name"},
			"missing": {"x"},
		}},
	})

	in := map[string]any{
		"total": 2.0,
		"items": []any{
			map[string]any{"id": 1.0, "internal": true},
			map[string]any{"id": 2.0, "internal": false},
		},
		"owner": map[string]any{"name": "ann", "email": "a@example.com"},
	}
	out, err := c.ProcessResult(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"total": 2.0,
		"items": []any{map[string]any{"id": 1.0}, map[string]any{"id": 2.0}},
		"owner": map[string]any{"name": "ann"},
	}, out)
	assert.Contains(t, in["owner"], "email", "input must not be modified")
}

func TestProcessResultSkipValidation(t *testing.T) {
	decl := baseDeclaration()
	decl.Result = Result{Kind: "Number", Filter: Filter{Fields: []string{"a"}}}
	decl.SkipResultValidation = true
	c := MustNew(decl)

	out, err := c.ProcessResult(map[string]any{"a": 1.0, "b": 2.0})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, out)
}

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func TestProcessResultStructs(t *testing.T) {
	c := newWithResult(t, Result{
		Kind:   []any{typedef.Mapping{{Name: "id", Value: "Number"}, {Name: "name", Value: "String"}}},
		Filter: Filter{Fields: []string{"id", "name"}},
	})
	out, err := c.ProcessResult([]user{{ID: 1, Name: "ann", Email: "a@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": 1.0, "name": "ann"}}, out)
}

func TestProcessResultNotArray(t *testing.T) {
	c := newWithResult(t, []any{"String"})
	_, err := c.ProcessResult("a")
	require.Error(t, err)
	assert.Equal(t, "check result failed: type is array, but value=a is not array", err.Error())
}

func TestCall(t *testing.T) {
	decl := Declaration{
		Name:   "sum",
		URL:    "/sum",
		Method: "GET",
		Params: []Param{
			{Name: "a", Kind: "Number", Source: SourceQuery},
			{Name: "b", Kind: "Number", Source: SourceQuery, Required: Bool(false), Default: 0},
		},
		Result: typedef.Mapping{{Name: "sum", Value: "Number"}},
		Handler: func(_ context.Context, args Args) (any, error) {
			return map[string]any{"sum": args.Number("a") + args.Number("b")}, nil
		},
	}
	c := MustNew(decl)

	out, err := c.Call(context.Background(), url.Values{"a": {"2"}, "b": {"3"}}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sum": 5.0}, out)

	out, err = c.Call(context.Background(), url.Values{"a": {"2"}}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"sum": 2.0}, out)

	_, err = c.Call(context.Background(), url.Values{}, nil, nil, nil)
	assert.ErrorIs(t, err, contracterrors.ErrMissingParam)
}

func TestCallHandlerError(t *testing.T) {
	boom := errors.New("boom")
	decl := baseDeclaration()
	decl.Handler = func(context.Context, Args) (any, error) { return nil, boom }
	c := MustNew(decl)

	_, err := c.Call(context.Background(), nil, nil, nil, nil)
	assert.ErrorIs(t, err, boom)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, Filter{Fields: []string{"a", "b"}}, f)

	f, err = ParseFilter(typedef.Mapping{{Name: "items", Value: []string{"id"}}})
	require.NoError(t, err)
	assert.Equal(t, Filter{Nested: map[string][]string{"items": {"id"}}}, f)

	f, err = ParseFilter(nil)
	require.NoError(t, err)
	assert.True(t, f.IsZero())

	_, err = ParseFilter([]any{"a", 1})
	require.Error(t, err)
	assert.Equal(t, "filter: field name 1 is not a string", err.Error())
}
