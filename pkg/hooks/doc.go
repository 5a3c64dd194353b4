// Package hooks keeps the symlinks declared by hook definitions in step
// with the package database.
//
// A hook file in the hooks directory declares a Pattern such as
//
//	Pattern: /usr/share/applications/${id}.desktop
//
// and every app whose manifest names the hook gets a link at the expanded
// pattern pointing into its unpacked package. The Engine opens hooks,
// installs and removes individual links, reconciles a hook against the
// database with Sync, applies manifest changes for one package with
// PackageInstallHooks and PackageRemoveHooks, and drives the whole
// maintenance pass with Run.
//
// Every operation recomputes the desired state from the database, so a
// repeated call repairs whatever an interrupted one left behind.
package hooks
