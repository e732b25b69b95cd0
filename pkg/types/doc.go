// Package types defines the Link value object, its column mappings, the
// Catalog and LinkTable interfaces used to store links, and the sentinel
// errors shared by every backend.
package types
