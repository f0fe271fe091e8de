package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type settings struct {
	Name  string `json:"name" yaml:"name"`
	Ranks int    `json:"ranks" yaml:"ranks"`
}

func (s settings) Headers() []string { return []string{"Setting", "Value"} }

func (s settings) Rows() [][]string {
	return [][]string{
		{"name", s.Name},
		{"ranks", "4"},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{name: "table", input: "table", want: FormatTable},
		{name: "empty defaults to table", input: "", want: FormatTable},
		{name: "json", input: "json", want: FormatJSON},
		{name: "JSON uppercase", input: "JSON", want: FormatJSON},
		{name: "yaml", input: "yaml", want: FormatYAML},
		{name: "yml alias", input: "yml", want: FormatYAML},
		{name: "whitespace trimmed", input: "  table  ", want: FormatTable},
		{name: "invalid format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrinter_Print(t *testing.T) {
	data := settings{Name: "dice", Ranks: 4}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(data))

		out := buf.String()
		assert.Contains(t, out, "SETTING")
		assert.Contains(t, out, "name")
		assert.Contains(t, out, "dice")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))

		var got settings
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
		assert.Contains(t, buf.String(), "\n  \"name\"")
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))

		var got settings
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("table falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(map[string]int{"ranks": 2}))
		assert.Equal(t, "ranks: 2\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, NewPrinter(&buf, Format("xml"), false).Print(data))
	})
}

func TestPrinter_StatusMessages(t *testing.T) {
	var plain bytes.Buffer
	p := NewPrinter(&plain, FormatTable, false)
	p.Success("done")
	p.Warning("careful")
	p.Error("failed")
	assert.Equal(t, "done\ncareful\nfailed\n", plain.String())

	var colored bytes.Buffer
	NewPrinter(&colored, FormatTable, true).Success("done")
	assert.Contains(t, colored.String(), "\x1b[32m")
	assert.Contains(t, colored.String(), "done")
}

func TestSimpleTable(t *testing.T) {
	pairs := [][2]string{
		{"Version", "dev"},
		{"Revision", "abc123"},
	}

	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, pairs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Version")
	assert.Contains(t, lines[0], "dev")
	assert.Contains(t, lines[1], "abc123")
}
