// pkg/pattern/pattern_property_test.go
// TEST TYPE: Property Test
// DEPENDENCIES: pgregory.net/rapid
// PURPOSE: Check that reverse matching inverts expansion

package pattern_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/clickhooks/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var keys = []string{"id", "short-id", "home", "user"}

func segmentGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.StringMatching(`[a-z0-9._/-]{1,6}`),
		rapid.Just("$$"),
		rapid.Map(rapid.SampledFrom(keys), func(k string) string { return "${" + k + "}" }),
	)
}

func valuesGen() *rapid.Generator[map[string]string] {
	return rapid.Custom(func(t *rapid.T) map[string]string {
		values := make(map[string]string)
		for _, k := range keys {
			values[k] = rapid.StringMatching(`[a-z0-9._-]{0,8}`).Draw(t, k)
		}
		return values
	})
}

func TestMatchInvertsExpandWithAllKnown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		template := strings.Join(rapid.SliceOfN(segmentGen(), 0, 8).Draw(t, "segments"), "")
		values := valuesGen().Draw(t, "values")

		got, ok := pattern.PossibleExpansion(pattern.Expand(template, values), template, values)
		if !ok {
			t.Fatalf("expansion of %q did not match itself", template)
		}
		if len(got) != 0 {
			t.Fatalf("no bindings expected when every key is known, got %v", got)
		}
	})
}

func TestMatchRecoversSingleUnknown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		prefix := rapid.StringMatching(`[a-z/.]{0,6}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-z/.]{0,6}`).Draw(t, "suffix")
		values := valuesGen().Draw(t, "values")
		template := prefix + "${home}/" + "${id}" + suffix

		known := map[string]string{"home": values["home"]}
		got, ok := pattern.PossibleExpansion(pattern.Expand(template, values), template, known)
		if !ok {
			t.Fatalf("no match for %q", template)
		}
		if got["id"] != values["id"] {
			t.Fatalf("recovered id %q, want %q", got["id"], values["id"])
		}
	})
}

func TestExpandWithoutPlaceholdersIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[a-z0-9./{}-]{0,20}`).Draw(t, "s")
		assert.Equal(t, s, pattern.Expand(s, map[string]string{"id": "x"}))
	})
}
