// Package catalog turns raw per-category detection results plus an
// optional descriptor catalog into uniform ProfileItem lists.
//
// Detection never fails because the catalog lacks an entry: names without
// a descriptor become manual-only items with a generic setup instruction.
// Malformed descriptor and MCP config files are skipped with a warning.
package catalog
