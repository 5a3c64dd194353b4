// pkg/output/renderer_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test format parsing and rendering in each format

package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type row struct {
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`
}

var (
	rows  = []row{{Name: "a.hook", State: "ok"}, {Name: "b.hook", State: "missing"}}
	table = output.Table{
		Header:      []string{"NAME", "STATE"},
		Rows:        [][]string{{"a.hook", "ok"}, {"b.hook", "missing"}},
		StateColumn: 1,
		Empty:       "Nothing here.",
	}
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    output.Format
		wantErr bool
	}{
		{input: "", want: output.FormatText},
		{input: "text", want: output.FormatText},
		{input: "JSON", want: output.FormatJSON},
		{input: "yml", want: output.FormatYAML},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := output.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "unknown", got.String())
		})
	}
}

func TestRender_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewRenderer(&buf, output.FormatText, true).Render(rows, table))

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "a.hook")
	assert.Contains(t, out, "missing")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_TextEmpty(t *testing.T) {
	var buf bytes.Buffer
	empty := table
	empty.Rows = nil
	require.NoError(t, output.NewRenderer(&buf, output.FormatText, true).Render(nil, empty))
	assert.Equal(t, "Nothing here.\n", buf.String())
}

func TestRender_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewRenderer(&buf, output.FormatJSON, true).Render(rows, table))

	var decoded []row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestRender_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, output.NewRenderer(&buf, output.FormatYAML, true).Render(rows, table))

	var decoded []row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rows, decoded)
}

func TestMessage_OnlyInText(t *testing.T) {
	var buf bytes.Buffer
	output.NewRenderer(&buf, output.FormatJSON, true).Message("hello %s", "there")
	assert.Empty(t, buf.String())

	output.NewRenderer(&buf, output.FormatText, true).Message("hello %s", "there")
	assert.Equal(t, "hello there\n", buf.String())
}
