package registry

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/apicontract/contract"
	"github.com/erraggy/apicontract/contracterrors"
	"github.com/erraggy/apicontract/logging"
)

func declaration(name, url string) contract.Declaration {
	return contract.Declaration{
		Name:   name,
		URL:    url,
		Method: "GET",
		Result: "String",
		Handler: func(context.Context, contract.Args) (any, error) {
			return name, nil
		},
	}
}

func TestRegistryAdd(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	_, err = r.Register(declaration("b", "/b"))
	require.NoError(t, err)
	_, err = r.Register(declaration("a", "/a"))
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"b", "a"}, r.Names())

	c, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "/a", c.URL)

	contracts := r.Contracts()
	require.Len(t, contracts, 2)
	assert.Equal(t, "b", contracts[0].Name)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	require.NoError(t, r.AddFrom("one.yaml", contract.MustNew(declaration("a", "/a"))))
	err = r.AddFrom("two.yaml", contract.MustNew(declaration("a", "/other")))
	require.Error(t, err)
	assert.Equal(t, "contract a is already registered (one.yaml, two.yaml)", err.Error())
	assert.ErrorIs(t, err, contracterrors.ErrDuplicate)

	c, _ := r.Get("a")
	assert.Equal(t, "/a", c.URL)
}

func TestRegistryReplace(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	r, err := New(WithReplace(true), WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, r.AddFrom("one.yaml", contract.MustNew(declaration("a", "/a"))))
	require.NoError(t, r.Add(contract.MustNew(declaration("z", "/z"))))
	require.NoError(t, r.AddFrom("two.yaml", contract.MustNew(declaration("a", "/other"))))

	c, _ := r.Get("a")
	assert.Equal(t, "/other", c.URL)
	assert.Equal(t, "two.yaml", r.Origin("a"))
	assert.Equal(t, []string{"a", "z"}, r.Names())
	assert.Contains(t, buf.String(), "replacing contract")
	assert.Contains(t, buf.String(), "previous=one.yaml")
}

func TestRegistryLookup(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	_, err = r.Register(declaration("a", "/a"))
	require.NoError(t, err)

	_, err = r.Lookup("missing")
	require.Error(t, err)
	assert.Equal(t, "contract missing is not found", err.Error())
	assert.ErrorIs(t, err, contracterrors.ErrNotFound)

	selected, err := r.Select("a")
	require.NoError(t, err)
	require.Len(t, selected, 1)

	_, err = r.Select("a", "b")
	assert.ErrorIs(t, err, contracterrors.ErrNotFound)
}

func TestRegistryRemove(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, n := range []string{"a", "b", "c"} {
		_, err := r.Register(declaration(n, "/"+n))
		require.NoError(t, err)
	}
	assert.True(t, r.Remove("b"))
	assert.False(t, r.Remove("b"))
	assert.Equal(t, []string{"a", "c"}, r.Names())
}

func TestRegistryErrors(t *testing.T) {
	_, err := New(WithLogger(nil))
	require.Error(t, err)

	r, err := New()
	require.NoError(t, err)
	require.Error(t, r.Add(nil))

	_, err = r.Register(contract.Declaration{Name: "x"})
	assert.ErrorIs(t, err, contracterrors.ErrMissingField)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r, err := New(WithReplace(true))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_ = r.Add(contract.MustNew(declaration("a", "/a")))
				_, _ = r.Get("a")
				_ = r.Names()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, r.Len())
}
