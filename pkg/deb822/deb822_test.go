// pkg/deb822/deb822_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: pault.ag/go/debian/control (through deb822.Parse)
// PURPOSE: Test paragraph parsing of hook and framework files

package deb822_test

import (
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/deb822"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []deb822.Field
		validate func(t *testing.T, p *deb822.Paragraph)
	}{
		{
			name:  "hook_file",
			input: "Pattern: /usr/share/${id}.test\nExec: /bin/true\nUser-Level: yes\n",
			want: []deb822.Field{
				{Name: "Pattern", Value: "/usr/share/${id}.test"},
				{Name: "Exec", Value: "/bin/true"},
				{Name: "User-Level", Value: "yes"},
			},
		},
		{
			name:  "comments_and_leading_blank_lines",
			input: "\n# a comment\nPattern: x\n# another\nUser: root\n",
			want: []deb822.Field{
				{Name: "Pattern", Value: "x"},
				{Name: "User", Value: "root"},
			},
		},
		{
			name:  "stops_at_blank_line",
			input: "Base-Name: ubuntu-sdk\nBase-Version: 13.10\n\nIgnored: yes\n",
			want: []deb822.Field{
				{Name: "Base-Name", Value: "ubuntu-sdk"},
				{Name: "Base-Version", Value: "13.10"},
			},
		},
		{
			name:  "continuation_lines",
			input: "Exec: first\n second\n\tthird\n",
			want: []deb822.Field{
				{Name: "Exec", Value: "first\nsecond\nthird"},
			},
		},
		{
			name:  "crlf_continuation_lines",
			input: "Exec: a\r\n b\r\nUser: root\r\n",
			want: []deb822.Field{
				{Name: "Exec", Value: "a\nb"},
				{Name: "User", Value: "root"},
			},
		},
		{
			name:  "value_may_contain_colon",
			input: "Exec: echo a:b\r\n",
			want: []deb822.Field{
				{Name: "Exec", Value: "echo a:b"},
			},
		},
		{
			name:  "case_insensitive_lookup",
			input: "single-version: Yes\n",
			validate: func(t *testing.T, p *deb822.Paragraph) {
				v, ok := p.Get("Single-Version")
				assert.True(t, ok)
				assert.Equal(t, "Yes", v)
				_, ok = p.Get("Missing")
				assert.False(t, ok)
				assert.Equal(t, 1, p.Len())
			},
		},
		{
			name:  "empty_input",
			input: "",
			validate: func(t *testing.T, p *deb822.Paragraph) {
				assert.Equal(t, 0, p.Len())
				assert.Empty(t, p.Fields())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := deb822.Parse([]byte(tt.input))
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, p.Fields())
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing_colon", input: "Pattern\n"},
		{name: "empty_name", input: ": value\n"},
		{name: "space_in_name", input: "Bad Name: value\n"},
		{name: "leading_continuation", input: " orphan\n"},
		{name: "duplicate_field", input: "Pattern: a\npattern: b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deb822.Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		})
	}
}
