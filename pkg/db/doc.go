// Package db models the layered package database.
//
// A DB is an ordered list of Layers, deepest first. Each layer is a
// directory laid out as:
//
//	<layer>/<package>/<version>/.click/info/<package>.manifest
//	<layer>/<package>/current -> <version>
//	<layer>/.click/users/<user|@all>/<package> -> <unpacked directory>
//
// The deepest layer holding an unpacked (package, version) owns the
// canonical copy. Registration lookups walk every layer on each call; no
// merged view is cached, so changes made by other processes are always
// observed.
//
// Only the last layer, the overlay, is ever written to.
package db
