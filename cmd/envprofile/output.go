package envprofile

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbench/envprofile/pkg/errors"
)

// printJSON writes doc to the command's stdout as indented JSON. Every
// command's machine-readable output goes through here.
func printJSON(cmd *cobra.Command, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode result")
	}
	cmd.Println(string(data))
	return nil
}

// errorEnvelope is the structured failure object emitted when any
// command fails. The process exits non-zero after printing it.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// RenderError formats err as the single JSON error object callers see
// on failure.
func RenderError(err error) string {
	env := errorEnvelope{
		Success: false,
		Error:   err.Error(),
		Code:    string(errors.GetErrorCode(err)),
	}
	data, jerr := json.Marshal(env)
	if jerr != nil {
		return fmt.Sprintf(`{"success": false, "error": %q, "code": "INTERNAL"}`, err.Error())
	}
	return string(data)
}
