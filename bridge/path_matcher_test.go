package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathMatcher(t *testing.T) {
	t.Run("static path", func(t *testing.T) {
		pm, err := NewPathMatcher("/users")
		require.NoError(t, err)
		assert.Equal(t, "/users", pm.Template())
		assert.Empty(t, pm.ParamNames())
	})

	t.Run("colon parameters", func(t *testing.T) {
		pm, err := NewPathMatcher("/users/:userId/posts/:post_id")
		require.NoError(t, err)
		assert.Equal(t, []string{"userId", "post_id"}, pm.ParamNames())
	})

	t.Run("brace parameters", func(t *testing.T) {
		pm, err := NewPathMatcher("/users/{userId}/posts/{postId}")
		require.NoError(t, err)
		assert.Equal(t, []string{"userId", "postId"}, pm.ParamNames())
	})

	t.Run("mixed parameters", func(t *testing.T) {
		pm, err := NewPathMatcher("/users/:id/posts/{postId}")
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "postId"}, pm.ParamNames())
	})

	t.Run("colon inside a segment is literal", func(t *testing.T) {
		pm, err := NewPathMatcher("/files/a:b")
		require.NoError(t, err)
		assert.Empty(t, pm.ParamNames())
		ok, _ := pm.Match("/files/a:b")
		assert.True(t, ok)
	})

	errCases := []struct {
		name     string
		template string
		contains string
	}{
		{"empty template", "", "cannot be empty"},
		{"unclosed brace", "/users/{id", "unclosed"},
		{"empty brace name", "/users/{}", "empty path parameter"},
		{"empty colon name", "/users/:/posts", "empty path parameter"},
		{"duplicate names", "/users/:id/posts/{id}", "duplicate"},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPathMatcher(tc.template)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestPathMatcherMatch(t *testing.T) {
	pm, err := NewPathMatcher("/users/:id/files/{name}.json")
	require.NoError(t, err)

	tests := []struct {
		path   string
		ok     bool
		params map[string]string
	}{
		{"/users/7/files/report.json", true, map[string]string{"id": "7", "name": "report"}},
		{"/users/a%20b/files/x.json", true, map[string]string{"id": "a b", "name": "x"}},
		{"/users/a%2Fb/files/x.json", true, map[string]string{"id": "a/b", "name": "x"}},
		{"/users/7/files/report.txt", false, nil},
		{"/users/7/extra/files/x.json", false, nil},
		{"/users//files/x.json", false, nil},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			ok, params := pm.Match(tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.params, params)
		})
	}
}

func TestPathParams(t *testing.T) {
	names, err := PathParams("/a/:b/{c}")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names)

	_, err = PathParams("/a/{b")
	assert.Error(t, err)
}

func TestSortMatchers(t *testing.T) {
	templates := []string{"/users/:id", "/users/me", "/users/:id/posts", "/:any/me"}
	matchers := make([]*PathMatcher, len(templates))
	for i, tmpl := range templates {
		pm, err := NewPathMatcher(tmpl)
		require.NoError(t, err)
		matchers[i] = pm
	}
	sortMatchers(matchers, func(pm *PathMatcher) *PathMatcher { return pm })

	got := make([]string, len(matchers))
	for i, pm := range matchers {
		got[i] = pm.Template()
	}
	assert.Equal(t, []string{"/users/:id/posts", "/users/me", "/users/:id", "/:any/me"}, got)
}
