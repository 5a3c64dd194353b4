// Package framework reads the installed framework descriptors and checks
// package framework requirements against them.
package framework

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/deb822"
	"github.com/arthur-debert/clickhooks/pkg/errors"
	"github.com/arthur-debert/clickhooks/pkg/types"
)

// Extension is the file extension of framework descriptors.
const Extension = ".framework"

// Descriptor is a parsed framework descriptor.
type Descriptor struct {
	Name        string `json:"name" yaml:"name"`
	BaseName    string `json:"base_name" yaml:"base_name"`
	BaseVersion string `json:"base_version" yaml:"base_version"`
}

// Catalog is a directory of framework descriptors.
type Catalog struct {
	fs  types.FS
	dir string
}

// NewCatalog creates a catalog over dir.
func NewCatalog(fs types.FS, dir string) *Catalog {
	return &Catalog{fs: fs, dir: dir}
}

// Dir returns the descriptor directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Path returns the descriptor path for name.
func (c *Catalog) Path(name string) string {
	return filepath.Join(c.dir, name+Extension)
}

// Has reports whether a descriptor named exactly name is installed.
func (c *Catalog) Has(name string) bool {
	if name == "" || strings.ContainsRune(name, '/') {
		return false
	}
	_, err := c.fs.Stat(c.Path(name))
	return err == nil
}

// List returns the installed framework names, sorted.
func (c *Catalog) List() ([]string, error) {
	matches, err := c.fs.Glob(c.dir, "*"+Extension)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot list frameworks in %s", c.dir)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(m, Extension))
	}
	sort.Strings(names)
	return names, nil
}

// Descriptor reads the descriptor of name.
func (c *Catalog) Descriptor(name string) (*Descriptor, error) {
	path := c.Path(name)
	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFrameworkMissing, "framework %q is not installed", name).
			WithDetail("framework", name)
	}
	para, err := deb822.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFrameworkInvalid, "cannot parse %s", path)
	}
	d := &Descriptor{Name: name}
	d.BaseName, _ = para.Get("Base-Name")
	d.BaseVersion, _ = para.Get("Base-Version")
	return d, nil
}

// Missing returns the requirements with no installed descriptor.
func (c *Catalog) Missing(requirements []string) []string {
	var missing []string
	for _, name := range requirements {
		if !c.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Satisfied reports whether every framework named in field is installed.
func (c *Catalog) Satisfied(field string) bool {
	return len(c.Missing(ParseRequirements(field))) == 0
}

// ParseRequirements splits a manifest framework field into framework
// names. Each comma-separated entry contributes its first word, so
// suffixes such as version relations are dropped.
func ParseRequirements(field string) []string {
	var names []string
	for _, entry := range strings.Split(field, ",") {
		words := strings.Fields(entry)
		if len(words) == 0 {
			continue
		}
		names = append(names, words[0])
	}
	return names
}

// Validate checks a framework field strictly: no alternatives, no
// version relations, one base version per base name and, unless
// ignoreMissing is set, every framework installed.
func (c *Catalog) Validate(field string, ignoreMissing bool) error {
	baseVersions := make(map[string]string)
	var missing []string

	for _, entry := range strings.Split(field, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "|") {
			return errors.Newf(errors.ErrFrameworkInvalid, "alternative dependencies in framework %q not yet allowed", field)
		}
		words := strings.Fields(entry)
		if len(words) > 1 || strings.ContainsAny(entry, "()") {
			return errors.Newf(errors.ErrFrameworkInvalid, "version relationship in framework %q not yet allowed", field)
		}

		name := words[0]
		if !c.Has(name) {
			missing = append(missing, name)
			continue
		}
		desc, err := c.Descriptor(name)
		if err != nil {
			return err
		}
		if prev, ok := baseVersions[desc.BaseName]; ok && prev != desc.BaseVersion {
			return errors.Newf(errors.ErrFrameworkInvalid,
				"multiple frameworks with different base versions are not allowed. Found: %s (%s != %s)",
				desc.BaseName, desc.BaseVersion, prev)
		}
		baseVersions[desc.BaseName] = desc.BaseVersion
	}

	if len(missing) > 0 && !ignoreMissing {
		quoted := make([]string, len(missing))
		for i, m := range missing {
			quoted[i] = `"` + m + `"`
		}
		return errors.Newf(errors.ErrFrameworkMissing, "frameworks not present on system: %s", strings.Join(quoted, ", ")).
			WithDetail("missing", missing)
	}
	return nil
}
