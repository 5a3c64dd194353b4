// Package deb822 parses the single-paragraph "Field: value" files used for
// hook definitions and framework descriptors.
//
// Parsing is done by pault.ag/go/debian/control. On top of it, field
// names are case-insensitive and must be unique regardless of case,
// continuation lines are joined with "\n" after trimming, and only the
// first paragraph of a file is read.
package deb822

import (
	"bytes"
	"io"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/errors"
	"pault.ag/go/debian/control"
)

// Field is one parsed field, with its name as written.
type Field struct {
	Name  string
	Value string
}

// Paragraph is an ordered set of fields.
type Paragraph struct {
	fields []Field
	index  map[string]int
}

// Parse reads the first paragraph of data.
func Parse(data []byte) (*Paragraph, error) {
	p := &Paragraph{index: make(map[string]int)}

	// Leading blank lines must not end the paragraph.
	data = bytes.TrimLeft(data, "\r\n")
	reader, err := control.NewParagraphReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot parse paragraph")
	}
	para, err := reader.Next()
	if err == io.EOF || (err == nil && para == nil) {
		return p, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "cannot parse paragraph")
	}
	if _, orphan := para.Values[""]; orphan {
		return nil, errors.New(errors.ErrInvalidInput, "continuation line without a field")
	}

	for _, raw := range para.Order {
		name := strings.TrimSpace(raw)
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, errors.Newf(errors.ErrInvalidInput, "invalid field name %q", raw).
				WithDetail("field", raw)
		}
		key := strings.ToLower(name)
		if _, dup := p.index[key]; dup {
			return nil, errors.Newf(errors.ErrInvalidInput, "duplicate field %q", name).
				WithDetail("field", name)
		}
		p.index[key] = len(p.fields)
		p.fields = append(p.fields, Field{Name: name, Value: normalize(para.Values[raw])})
	}
	return p, nil
}

// normalize trims every line of a possibly folded value.
func normalize(value string) string {
	lines := strings.Split(strings.TrimSpace(value), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

// Get returns the value of the named field.
func (p *Paragraph) Get(name string) (string, bool) {
	i, ok := p.index[strings.ToLower(name)]
	if !ok {
		return "", false
	}
	return p.fields[i].Value, true
}

// Fields returns the fields in file order.
func (p *Paragraph) Fields() []Field {
	out := make([]Field, len(p.fields))
	copy(out, p.fields)
	return out
}

// Len returns the number of fields.
func (p *Paragraph) Len() int {
	return len(p.fields)
}
