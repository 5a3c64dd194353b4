// Package symlinks owns every mutation of hook links on disk.
//
// A Store creates, repoints and removes symbolic links through types.FS.
// Replacement is done by creating the new link under a temporary name in
// the same directory and renaming it over the old one, so readers never
// observe a missing link. Removing an absent link is not an error.
package symlinks
