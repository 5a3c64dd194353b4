package pattern

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

type token struct {
	literal string
	key     string
	isKey   bool
}

// Template is a parsed pattern.
type Template struct {
	source string
	tokens []token
}

// Parse splits template into literal and placeholder tokens. Parsing
// never fails: malformed placeholders are treated as text.
func Parse(template string) Template {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' || i+1 >= len(template) {
			lit.WriteByte(c)
			i++
			continue
		}
		switch template[i+1] {
		case '$':
			lit.WriteByte('$')
			i += 2
		case '{':
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				lit.WriteString(template[i:])
				i = len(template)
				continue
			}
			flush()
			tokens = append(tokens, token{key: template[i+2 : i+2+end], isKey: true})
			i += end + 3
		default:
			lit.WriteByte('$')
			i++
		}
	}
	flush()

	return Template{source: template, tokens: tokens}
}

// String returns the source text of the template.
func (t Template) String() string {
	return t.source
}

// Keys returns the placeholder names in order of first appearance.
func (t Template) Keys() []string {
	var keys []string
	seen := make(map[string]bool)
	for _, tok := range t.tokens {
		if tok.isKey && !seen[tok.key] {
			seen[tok.key] = true
			keys = append(keys, tok.key)
		}
	}
	return keys
}

// Expand renders the template. Keys missing from values expand to the
// empty string.
func (t Template) Expand(values map[string]string) string {
	var b strings.Builder
	for _, tok := range t.tokens {
		if tok.isKey {
			b.WriteString(values[tok.key])
		} else {
			b.WriteString(tok.literal)
		}
	}
	return b.String()
}

// Match reports whether actual could be produced by expanding the
// template with known plus some binding of the remaining keys, and
// returns that binding. Unknown placeholders are matched greedily, the
// leftmost one taking the longest text that still lets the rest match.
// A key used more than once must bind the same text each time.
func (t Template) Match(actual string, known map[string]string) (map[string]string, bool) {
	expr, groups := t.regexp(known)
	re, err := regexp2.Compile(expr, regexp2.Singleline)
	if err != nil {
		return nil, false
	}
	m, err := re.FindStringMatch(actual)
	if err != nil || m == nil {
		return nil, false
	}

	bindings := make(map[string]string, len(groups))
	for key, name := range groups {
		bindings[key] = m.GroupByName(name).String()
	}
	return bindings, true
}

// regexp translates the template into an anchored expression. Known keys
// become literals, the first use of any other key a greedy named group
// and later uses a backreference to it. groups maps keys to group names,
// since keys like short-id are not valid group names.
func (t Template) regexp(known map[string]string) (expr string, groups map[string]string) {
	groups = make(map[string]string)
	var b strings.Builder
	b.WriteString(`\A`)
	for _, tok := range t.tokens {
		if !tok.isKey {
			b.WriteString(regexp2.Escape(tok.literal))
			continue
		}
		if value, ok := known[tok.key]; ok {
			b.WriteString(regexp2.Escape(value))
			continue
		}
		if name, ok := groups[tok.key]; ok {
			fmt.Fprintf(&b, `\k<%s>`, name)
			continue
		}
		name := fmt.Sprintf("g%d", len(groups))
		groups[tok.key] = name
		fmt.Fprintf(&b, `(?<%s>.*)`, name)
	}
	b.WriteString(`\z`)
	return b.String(), groups
}

// Expand renders template with values.
func Expand(template string, values map[string]string) string {
	return Parse(template).Expand(values)
}

// PossibleExpansion reverse-matches actual against template, given the
// already known bindings. It returns the bindings inferred for the other
// placeholders.
func PossibleExpansion(actual, template string, known map[string]string) (map[string]string, bool) {
	return Parse(template).Match(actual, known)
}
