// Package registry provides a generic, thread-safe index of items grouped
// under a name. Several items may share one name; they are kept in the
// order they were added.
package registry
