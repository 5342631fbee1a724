// Package redact scrubs secret-shaped values from arbitrary structures
// before they are persisted or transmitted.
//
// Redaction is idempotent: redacting already-redacted output changes
// nothing. Every install descriptor passes through this package before it
// is written to a snapshot, written to local state, or sent over the
// network, since install descriptors are the only place live credentials
// can appear.
package redact

import (
	"regexp"

	"github.com/nbench/envprofile/pkg/types"
)

// Marker replaces redacted values and substrings.
const Marker = "<redacted>"

var sensitiveKeyRE = regexp.MustCompile(`(?i)(token|secret|password|api[_-]?key|pat|authorization)`)

// Inline key/value shapes: quoted JSON-style first, then bare key=value.
var (
	quotedAssignRE = regexp.MustCompile(`(?i)("?(?:token|secret|password|api[_-]?key|pat|authorization)"?\s*[:=]\s*")([^"]+)(")`)
	bareAssignRE   = regexp.MustCompile(`(?i)(token|secret|password|api[_-]?key|pat|authorization)\s*[:=]\s*([^\s,;]+)`)
)

// Known secret value shapes: vendor-prefixed keys and long opaque tokens.
var valuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(sk-[A-Za-z0-9]{12,})\b`),
	regexp.MustCompile(`\b(ghp_[A-Za-z0-9]{20,})\b`),
	regexp.MustCompile(`\b(xox[baprs]-[A-Za-z0-9-]{10,})\b`),
	regexp.MustCompile(`\b[A-Za-z0-9_\-]{30,}\b`),
}

// SensitiveKey reports whether a key name indicates its value is a secret.
func SensitiveKey(key string) bool {
	return sensitiveKeyRE.MatchString(key)
}

// Text scans a string for known secret shapes and inline key/value
// patterns with sensitive key names, replacing the matched substrings.
func Text(value string) string {
	out := quotedAssignRE.ReplaceAllString(value, "${1}"+Marker+"${3}")
	out = bareAssignRE.ReplaceAllString(out, "${1}="+Marker)
	for _, pattern := range valuePatterns {
		out = pattern.ReplaceAllString(out, Marker)
	}
	return out
}

// Value produces a structurally identical copy of any nested structure of
// maps, lists, and scalars with secrets scrubbed. Values under sensitive
// keys are replaced wholesale; remaining string values go through Text.
func Value(v any) any {
	return valueWithKey(v, "")
}

func valueWithKey(v any, parentKey string) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for key, inner := range val {
			if SensitiveKey(key) {
				out[key] = Marker
				continue
			}
			out[key] = valueWithKey(inner, key)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = valueWithKey(inner, parentKey)
		}
		return out
	case string:
		if SensitiveKey(parentKey) {
			return Marker
		}
		return Text(val)
	default:
		return v
	}
}

// Install returns a copy of an install descriptor with every string field
// and the config snippet scrubbed.
func Install(spec types.InstallSpec) types.InstallSpec {
	out := spec
	out.Command = Text(spec.Command)
	out.Instructions = Text(spec.Instructions)
	out.Source = Text(spec.Source)
	out.Repo = Text(spec.Repo)
	if spec.ConfigSnippet != nil {
		out.ConfigSnippet = Value(spec.ConfigSnippet)
	}
	return out
}

// Item returns a copy of a profile item with its install descriptor
// scrubbed.
func Item(item types.ProfileItem) types.ProfileItem {
	out := item
	out.Install = Install(item.Install)
	return out
}
