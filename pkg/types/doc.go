// Package types defines the interfaces shared by the clickhooks packages:
// the filesystem abstraction the engine mutates through, and the command
// runner capability used for hook Exec commands.
package types
