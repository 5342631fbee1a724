package commands

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/nbench/envprofile/pkg/errors"
)

// ParseCSV splits a comma-separated flag value into trimmed tokens,
// dropping empties and case-insensitive duplicates while preserving
// first-seen order and casing.
func ParseCSV(value string) []string {
	if value == "" {
		return []string{}
	}
	seen := make(map[string]bool)
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		lower := strings.ToLower(token)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		out = append(out, token)
	}
	return out
}

// loadJSONPayload reads a JSON object from a file, or from the reader
// when no file is given.
func loadJSONPayload(inputFile string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	var err error
	if inputFile != "" {
		data, err = os.ReadFile(inputFile)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMalformedInput, "cannot read %s", inputFile)
		}
	} else {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrMalformedInput, "cannot read stdin")
		}
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrMalformedInput, "payload must be a JSON object")
	}
	return payload, nil
}

// LoadProfilePayload reads a snapshot document from a file or stdin. A
// wrapper object holding the snapshot under a "profile" key (the export
// command's own output shape) is unwrapped transparently.
func LoadProfilePayload(inputFile string, stdin io.Reader) (map[string]any, error) {
	payload, err := loadJSONPayload(inputFile, stdin)
	if err != nil {
		return nil, err
	}
	if inner, ok := payload["profile"].(map[string]any); ok {
		return inner, nil
	}
	return payload, nil
}

// LoadItemPayload reads one snapshot item from a file or stdin,
// unwrapping an {"item": ...} envelope when present.
func LoadItemPayload(inputFile string, stdin io.Reader) (map[string]any, error) {
	payload, err := loadJSONPayload(inputFile, stdin)
	if err != nil {
		return nil, err
	}
	if inner, ok := payload["item"].(map[string]any); ok {
		return inner, nil
	}
	return payload, nil
}
