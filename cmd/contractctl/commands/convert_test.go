package commands

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupConvertFlags(t *testing.T) {
	fs, flags := SetupConvertFlags()
	assert.Equal(t, FormatText, flags.Format)

	require.NoError(t, fs.Parse([]string{"--format", "json", "Number", "1"}))
	assert.Equal(t, FormatJSON, flags.Format)
	assert.Equal(t, []string{"Number", "1"}, fs.Args())
}

func TestHandleConvert_Args(t *testing.T) {
	captureStdout(t)
	assert.Error(t, HandleConvert(nil))
	assert.Error(t, HandleConvert([]string{"Number"}))
	assert.Error(t, HandleConvert([]string{"--format", "xml", "Number", "1"}))
	assert.Error(t, HandleConvert([]string{"[Number, String]", "[]"}))
	assert.NoError(t, HandleConvert([]string{"--help"}))
}

func TestHandleConvert_Text(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		rejected bool
		want     string
	}{
		{"hex number", []string{"Number", "0x1F"}, false, "31\n"},
		{"padded number", []string{"Number", "  2.5e1 "}, false, "25\n"},
		{"empty number", []string{"Number", ""}, false, "0\n"},
		{"boolean", []string{"Boolean", "true"}, false, "true\n"},
		{"text", []string{"Text", "hello"}, false, "\"hello\"\n"},
		{"array", []string{"[Number]", "[1, 2, 3]"}, false, "[1,2,3]\n"},
		{"bad number", []string{"Number", "abc"}, true, `value "abc" can't be converted to type define Number`},
		{"bad boolean", []string{"Boolean", "yes"}, true, "can't be converted to type define Boolean"},
		{"array element mismatch", []string{"[Number]", `[1, "x"]`}, true, "is not conform to type define"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			err := HandleConvert(tt.args)
			if tt.rejected {
				assert.ErrorIs(t, err, ErrValueRejected)
				assert.Contains(t, buf.String(), tt.want)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, buf.String())
			}
		})
	}
}

func TestHandleConvert_JSON(t *testing.T) {
	buf := captureStdout(t)

	require.NoError(t, HandleConvert([]string{"--format", "json", "Number", "Infinity"}))

	var out ConvertOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Number", out.Descriptor)
	assert.Equal(t, "Infinity", out.Raw)
	assert.Equal(t, "+Inf", out.Value)
	assert.True(t, out.Valid)
}

func TestDisplayValue(t *testing.T) {
	in := map[string]any{
		"n":    1.5,
		"neg":  math.Inf(-1),
		"list": []any{math.NaN(), "a"},
	}
	assert.Equal(t, map[string]any{
		"n":    1.5,
		"neg":  "-Inf",
		"list": []any{"NaN", "a"},
	}, displayValue(in))
}
