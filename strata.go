// Package strata implements a multi-index transaction store with
// cross-index referential integrity over a pluggable key-value database.
package strata
