// Package types defines the core data model for envprofile: profile items,
// snapshots, saved state, import plans, and the enums they share.
//
// The types in this package are pure data. All behavior that operates on
// them lives in the packages that own the corresponding workflow
// (catalog building, reconciliation, import planning, installation).
package types
