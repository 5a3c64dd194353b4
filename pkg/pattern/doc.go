// Package pattern implements the placeholder language used by hook
// Pattern fields.
//
// A template is plain text with three special forms:
//
//	$$      a literal dollar sign
//	${key}  replaced by the value bound to key, or nothing when unbound
//	${key   an unterminated placeholder, kept verbatim
//
// Any other dollar sign is literal. Expand renders a template;
// PossibleExpansion goes the other way and recovers the bindings that
// would turn a template into a given string.
package pattern
