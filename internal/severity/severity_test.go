package severity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected string
	}{
		{"error level", SeverityError, "error"},
		{"warning level", SeverityWarning, "warning"},
		{"info level", SeverityInfo, "info"},
		{"unknown negative", Severity(-1), "unknown"},
		{"unknown large value", Severity(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestSeverityRank(t *testing.T) {
	assert.Less(t, SeverityInfo.Rank(), SeverityWarning.Rank())
	assert.Less(t, SeverityWarning.Rank(), SeverityError.Rank())
}

func TestSeverityText(t *testing.T) {
	data, err := json.Marshal(map[string]Severity{"s": SeverityWarning})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"warning"}`, string(data))

	var got map[string]Severity
	require.NoError(t, json.Unmarshal([]byte(`{"a":"error","b":"info"}`), &got))
	assert.Equal(t, SeverityError, got["a"])
	assert.Equal(t, SeverityInfo, got["b"])

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("critical")))
}
