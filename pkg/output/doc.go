// Package output renders command results as a pterm table, JSON or
// YAML. Colour is used only when writing to a terminal and NO_COLOR is
// unset.
package output
