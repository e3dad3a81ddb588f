package mcpserver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shopContracts is a small, lint-clean set of declarations shared by the tool tests.
const shopContracts = `contracts:
  - name: getUser
    url: /users/:id
    method: GET
    description: Fetch one user
    params:
      id: {kind: Number, source: path}
      verbose: {kind: Boolean, source: query, required: false, default: false}
    result:
      kind: {id: Number, name: String}
      filter: [id, name]

  - name: createUser
    url: /users
    method: POST
    description: Create a user
    params:
      user: {kind: {name: String}, source: "@body"}
      trace: {kind: String, source: header, required: false, default: none}
    result: {id: Number}

  - name: search
    url: /search
    method: GET
    description: Search users by name
    params:
      q: {kind: String, source: query}
      tags: {kind: [String], source: query, required: false}
    result: [String]
`

// lintContracts has one broken declaration and one producing warnings.
const lintContracts = `contracts:
  - name: deleteOrder
    url: /orders/{orderId}
    method: DELETE
    params:
      id: {kind: Number, source: path}
    result: Boolean

  - name: broken
    url: /broken
    method: GET
    description: Never builds
    params:
      when: {kind: Date, source: query}
    result: String
`

func writeContracts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contracts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestContractsInput_ResolveFile(t *testing.T) {
	entryCache.reset()
	path := writeContracts(t, shopContracts)

	entries, err := contractsInput{File: path}.resolve()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "getUser", entries[0].Declaration.Name)
	assert.Equal(t, path, entries[0].Source)
}

func TestContractsInput_ResolveDir(t *testing.T) {
	entryCache.reset()
	path := writeContracts(t, shopContracts)

	entries, err := contractsInput{Dir: filepath.Dir(path)}.resolve()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Zero(t, entryCache.size(), "directory input is never cached")
}

func TestContractsInput_ResolveContent(t *testing.T) {
	entryCache.reset()

	entries, err := contractsInput{Content: shopContracts, Names: []string{"search"}}.resolve()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "search", entries[0].Declaration.Name)
	assert.Equal(t, "content", entries[0].Source)
}

func TestContractsInput_ResolveErrors(t *testing.T) {
	tests := []struct {
		name  string
		input contractsInput
		want  string
	}{
		{name: "none provided", input: contractsInput{}, want: "got none"},
		{name: "multiple provided", input: contractsInput{File: "a.yaml", Content: "x"}, want: "got several"},
		{name: "file not found", input: contractsInput{File: filepath.Join("testdata", "missing.yaml")}, want: "missing.yaml"},
		{name: "unknown name", input: contractsInput{Content: shopContracts, Names: []string{"nope"}}, want: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestContractsInput_InlineSizeLimit(t *testing.T) {
	old := cfg.MaxInlineSize
	cfg.MaxInlineSize = 16
	t.Cleanup(func() { cfg.MaxInlineSize = old })

	_, err := contractsInput{Content: strings.Repeat("x", 17)}.resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APICONTRACT_MAX_INLINE_SIZE")
}

func TestEntryCache_HitOnSameFile(t *testing.T) {
	entryCache.reset()
	path := writeContracts(t, shopContracts)

	first, err := contractsInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, entryCache.size())

	second, err := contractsInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, entryCache.size())
	assert.Same(t, &first[0], &second[0], "second resolve should return the cached slice")
}

func TestEntryCache_MissOnModifiedFile(t *testing.T) {
	entryCache.reset()
	path := writeContracts(t, shopContracts)

	first, err := contractsInput{File: path}.resolve()
	require.NoError(t, err)
	require.Len(t, first, 3)

	trimmed := shopContracts[:strings.Index(shopContracts, "\n  - name: createUser")] + "\n"
	require.NoError(t, os.WriteFile(path, []byte(trimmed), 0o600))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	second, err := contractsInput{File: path}.resolve()
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 2, entryCache.size())
}

func TestEntryCache_LRUEviction(t *testing.T) {
	entryCache.reset()
	old := entryCache.maxSize
	entryCache.maxSize = 2
	t.Cleanup(func() { entryCache.maxSize = old })

	entryCache.put("a", nil, time.Minute)
	time.Sleep(time.Millisecond)
	entryCache.put("b", nil, time.Minute)
	time.Sleep(time.Millisecond)
	entryCache.get("a")
	entryCache.put("c", nil, time.Minute)

	assert.Equal(t, 2, entryCache.size())
	_, hasA := entryCache.entries["a"]
	_, hasB := entryCache.entries["b"]
	assert.True(t, hasA, "recently used entry should survive")
	assert.False(t, hasB, "least recently used entry should be evicted")
}

func TestEntryCache_Expiry(t *testing.T) {
	entryCache.reset()
	entryCache.put("k", nil, -time.Second)
	assert.Nil(t, entryCache.get("k"))
	assert.Zero(t, entryCache.size())
}
