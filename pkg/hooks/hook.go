package hooks

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/clickhooks/pkg/deb822"
	"github.com/arthur-debert/clickhooks/pkg/errors"
)

// Field names understood in hook files, lowercased.
const (
	FieldPattern       = "pattern"
	FieldExec          = "exec"
	FieldUser          = "user"
	FieldUserLevel     = "user-level"
	FieldSingleVersion = "single-version"
	FieldHookName      = "hook-name"
)

var knownFields = map[string]bool{
	FieldPattern:       true,
	FieldExec:          true,
	FieldUser:          true,
	FieldUserLevel:     true,
	FieldSingleVersion: true,
	FieldHookName:      true,
}

// Hook is one parsed hook file. Hooks are immutable once loaded.
type Hook struct {
	// Name is the file name without the .hook extension.
	Name string
	// Path is the hook file location, empty for hooks parsed from memory.
	Path string

	Pattern       string
	Exec          string
	User          string
	UserLevel     bool
	SingleVersion bool
	// HookName is the logical name manifests refer to. Several files may
	// share one.
	HookName string

	fields []string
	values map[string]string

	eng *Engine
}

// Parse reads a hook definition named name from data.
func Parse(name string, data []byte) (*Hook, error) {
	para, err := deb822.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidHook, "cannot parse hook %q", name).
			WithDetail("hook", name)
	}

	h := &Hook{
		Name:     name,
		HookName: name,
		values:   make(map[string]string),
	}
	for _, f := range para.Fields() {
		key := strings.ToLower(f.Name)
		if !knownFields[key] {
			return nil, errors.Newf(errors.ErrInvalidHook, "hook %q: unknown field %q", name, f.Name).
				WithDetail("hook", name).
				WithDetail("field", f.Name)
		}
		h.fields = append(h.fields, key)
		h.values[key] = f.Value

		switch key {
		case FieldPattern:
			h.Pattern = f.Value
		case FieldExec:
			h.Exec = f.Value
		case FieldUser:
			h.User = f.Value
		case FieldUserLevel:
			h.UserLevel = parseBool(f.Value)
		case FieldSingleVersion:
			h.SingleVersion = parseBool(f.Value)
		case FieldHookName:
			if f.Value != "" {
				h.HookName = f.Value
			}
		}
	}
	return h, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1":
		return true
	}
	return false
}

// Fields returns the declared field names, lowercased, in file order.
func (h *Hook) Fields() []string {
	out := make([]string, len(h.fields))
	copy(out, h.fields)
	return out
}

// Field returns the raw value of a declared field.
func (h *Hook) Field(name string) (string, error) {
	v, ok := h.values[strings.ToLower(name)]
	if !ok {
		return "", errors.Newf(errors.ErrMissingField, "hook %q has no field %q", h.Name, name).
			WithDetail("hook", h.Name).
			WithDetail("field", name)
	}
	return v, nil
}

// HasPattern reports whether the hook manages links.
func (h *Hook) HasPattern() bool {
	_, ok := h.values[FieldPattern]
	return ok
}

func (h *Hook) fileName() string {
	if h.Path != "" {
		return filepath.Base(h.Path)
	}
	return h.Name + HookExtension
}
