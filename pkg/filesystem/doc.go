// Package filesystem provides filesystem implementations for clickhooks.
//
// This package contains the OS implementation of the types.FS interface.
package filesystem
