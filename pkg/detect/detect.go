// Package detect wraps the shell-level environment probes. The probes are
// external collaborators with a fixed contract: they print a JSON document
// on stdout and exit zero. Pre-computed JSON files can stand in for either
// probe for testability.
package detect

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nbench/envprofile/pkg/errors"
	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/paths"
	"github.com/nbench/envprofile/pkg/types"
)

// Probe script names under the plugin root's scripts directory.
const (
	DetectScript  = "detect-installed.sh"
	AnalyzeScript = "analyze-context.sh"
)

// ReadDetectPayload returns the installed-item inventory, either from the
// override file or by running the detect probe in cwd.
func ReadDetectPayload(ctx context.Context, cwd, overrideFile, pluginRoot string) (types.DetectPayload, error) {
	var payload types.DetectPayload
	if overrideFile != "" {
		err := readJSONFile(overrideFile, &payload)
		return payload, err
	}
	err := runProbe(ctx, pluginRoot, DetectScript, cwd, &payload)
	return payload, err
}

// ReadRepoPayload returns the repository analysis, either from the
// override file or by running the analyze probe in cwd.
func ReadRepoPayload(ctx context.Context, cwd, overrideFile, pluginRoot string) (types.RepoPayload, error) {
	var payload types.RepoPayload
	if overrideFile != "" {
		err := readJSONFile(overrideFile, &payload)
		return payload, err
	}
	err := runProbe(ctx, pluginRoot, AnalyzeScript, cwd, &payload)
	return payload, err
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrMalformedInput, "cannot read %s", path)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, errors.ErrMalformedInput, "invalid JSON in %s", path)
	}
	return nil
}

func runProbe(ctx context.Context, pluginRoot, script, cwd string, out any) error {
	logger := logging.GetLogger("detect")
	scriptPath := filepath.Join(paths.ScriptsDir(pluginRoot), script)

	cmd := exec.CommandContext(ctx, scriptPath)
	cmd.Dir = cwd
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Str("script", scriptPath).Str("cwd", cwd).Msg("Running probe")
	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stdout.String())
		if output == "" {
			output = strings.TrimSpace(stderr.String())
		}
		return errors.Wrapf(err, errors.ErrProbeFailed, "%s failed: %s", script, output)
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return errors.Wrapf(err, errors.ErrProbeFailed, "%s returned invalid JSON", script)
	}
	return nil
}
