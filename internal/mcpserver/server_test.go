package mcpserver

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	tests := []struct {
		name   string
		items  []int
		offset int
		limit  int
		want   []int
	}{
		{name: "default limit returns all when under 100", items: items, want: []int{0, 1, 2, 3, 4}},
		{name: "explicit limit", items: items, limit: 2, want: []int{0, 1}},
		{name: "offset only", items: items, offset: 2, want: []int{2, 3, 4}},
		{name: "offset and limit", items: items, offset: 1, limit: 2, want: []int{1, 2}},
		{name: "offset beyond end", items: items, offset: 5, limit: 2, want: nil},
		{name: "negative offset", items: items, offset: -1, limit: 2, want: nil},
		{name: "limit exceeds remaining", items: items, offset: 3, limit: 10, want: []int{3, 4}},
		{name: "nil slice", items: nil, limit: 2, want: nil},
		{name: "negative limit treated as default", items: items, limit: -1, want: []int{0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paginate(tt.items, tt.offset, tt.limit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate_OverflowLimit(t *testing.T) {
	items := []int{0, 1, 2}
	got := paginate(items, 1, math.MaxInt)
	assert.Equal(t, []int{1, 2}, got)
}

func TestPaginate_MaxLimitCap(t *testing.T) {
	items := make([]int, 1500)
	for i := range items {
		items[i] = i
	}
	got := paginate(items, 0, 1500)
	assert.Len(t, got, cfg.MaxLimit, "limit should be capped at MaxLimit")
}

func TestDetailLimit(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{"zero returns default", 0, 25},
		{"negative returns default", -1, 25},
		{"explicit 50", 50, 50},
		{"boundary 1", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detailLimit(tt.input))
		})
	}
}

func TestMakeSlice(t *testing.T) {
	assert.Nil(t, makeSlice[string](0))
	s := makeSlice[string](3)
	assert.NotNil(t, s)
	assert.Empty(t, s)
	assert.Equal(t, 3, cap(s))
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error returns empty string", err: nil, want: ""},
		{
			name: "strips absolute path",
			err:  fmt.Errorf("loader: open /home/user/contracts/users.yaml: no such file"),
			want: "loader: open <path>: no such file",
		},
		{
			name: "preserves non-path content",
			err:  fmt.Errorf("param id from path is required but undefined"),
			want: "param id from path is required but undefined",
		},
		{
			name: "strips multiple paths",
			err:  fmt.Errorf("contract a in /tmp/a.yaml and /tmp/b.yaml"),
			want: "contract a in <path> and <path>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeError(tt.err))
		})
	}
}

func TestGroupAndSort(t *testing.T) {
	items := []string{"GET", "POST", "GET", "DELETE", "POST", "GET"}
	groups := groupAndSort(items, func(s string) []string { return []string{s} })
	assert.Equal(t, []groupCount{
		{Key: "GET", Count: 3},
		{Key: "POST", Count: 2},
		{Key: "DELETE", Count: 1},
	}, groups)
}

func TestValidateGroupBy(t *testing.T) {
	allowed := []string{"method", "source"}
	assert.NoError(t, validateGroupBy("", false, allowed))
	assert.NoError(t, validateGroupBy("METHOD", false, allowed))
	assert.EqualError(t, validateGroupBy("method", true, allowed), "cannot use both group_by and detail")
	assert.EqualError(t, validateGroupBy("tag", false, allowed), `invalid group_by value "tag"; valid values: method, source`)
}

func TestMatchGlobName(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "getUser", true},
		{"getuser", "getUser", true},
		{"get*", "getUser", true},
		{"get*", "createUser", false},
		{"?etUser", "getUser", true},
		{"list", "listUsers", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchGlobName(tt.pattern, tt.name))
		})
	}
	assert.Error(t, validateGlobPattern("[unclosed"))
	assert.NoError(t, validateGlobPattern("users*"))
}
