// Package install executes the install-then-verify sequence for one
// snapshot item at a time. Category-specific argv construction lives in
// small Installer implementations registered in a lookup table; the
// Dispatcher owns the manual short-circuit, dry-run reporting, and the
// verify pass shared by every category.
package install

import (
	"context"
	"os/exec"
	"strings"

	"github.com/nbench/envprofile/pkg/logging"
	"github.com/nbench/envprofile/pkg/types"
)

// Installer scripts shipped under the plugin scripts directory.
const (
	MCPScript    = "install-mcp.sh"
	CLIScript    = "install-cli.sh"
	SkillScript  = "install-skill.sh"
	PluginScript = "install-plugin.sh"
	VerifyScript = "verify-install.sh"
)

// Result is the per-item outcome record. Install and verification
// failures are reported here, never escalated to a process failure; the
// caller decides whether to continue a batch.
type Result struct {
	Success        bool           `json:"success"`
	Name           string         `json:"name"`
	Category       types.Category `json:"category"`
	Manual         bool           `json:"manual"`
	Installed      bool           `json:"installed"`
	Verification   string         `json:"verification"`
	Message        string         `json:"message,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	InstallCommand []string       `json:"install_command,omitempty"`
	VerifyCommand  []string       `json:"verify_command,omitempty"`
	Stdout         string         `json:"stdout,omitempty"`
	Stderr         string         `json:"stderr,omitempty"`
	VerifyStdout   string         `json:"verify_stdout,omitempty"`
	VerifyStderr   string         `json:"verify_stderr,omitempty"`
}

// Runner executes one argv and reports exit code plus trimmed output.
// Tests substitute a fake; production uses ExecRunner.
type Runner interface {
	Run(ctx context.Context, argv []string) (code int, stdout, stderr string, err error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, argv []string) (int, string, string, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return -1, "", "", err
		}
	}
	code := cmd.ProcessState.ExitCode()
	return code, strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), nil
}

// Dispatcher applies one item at a time against a scripts directory.
type Dispatcher struct {
	scriptsDir string
	runner     Runner
}

// NewDispatcher builds a Dispatcher over the given scripts directory.
// A nil runner defaults to ExecRunner.
func NewDispatcher(scriptsDir string, runner Runner) *Dispatcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Dispatcher{scriptsDir: scriptsDir, runner: runner}
}

// Apply runs the install-then-verify sequence for one item. Manual items
// short-circuit to a successful manual result. With dryRun set, the
// resolved commands are reported without being executed. An install
// failure skips verification entirely.
func (d *Dispatcher) Apply(ctx context.Context, item types.ProfileItem, dryRun bool) Result {
	logger := logging.GetLogger("install")
	name := strings.TrimSpace(item.Name)
	result := Result{
		Name:         name,
		Category:     item.Category,
		Verification: VerifyTypeManual,
	}

	if item.IsManual() {
		result.Success = true
		result.Manual = true
		result.Message = item.Install.Instructions
		if result.Message == "" {
			result.Message = "Manual setup required"
		}
		return result
	}

	installer, ok := installerFor(item)
	if !ok {
		// Unknown categories fall back to a manual instruction, they are
		// not an install failure.
		result.Success = true
		result.Manual = true
		result.Message = "Manual setup required for this category"
		return result
	}

	argv, err := installer.InstallCommand(item, d.scriptsDir)
	if err != nil {
		result.Manual = true
		result.Message = err.Error()
		return result
	}

	verifyType, verifyArg := VerifyArg(item)
	verifyArgv := []string{scriptPath(d.scriptsDir, VerifyScript), name, verifyType}
	if verifyArg != "" {
		verifyArgv = append(verifyArgv, verifyArg)
	}

	result.Verification = verifyType
	result.InstallCommand = argv
	result.VerifyCommand = verifyArgv

	if dryRun {
		result.Success = true
		result.DryRun = true
		return result
	}

	logger.Info().Str("item", item.ID).Strs("command", argv).Msg("Installing item")
	code, stdout, stderr, runErr := d.runner.Run(ctx, argv)
	result.Stdout = stdout
	result.Stderr = stderr
	if runErr != nil || code != 0 {
		result.Verification = "not_run"
		result.VerifyCommand = nil
		if runErr != nil {
			result.Message = runErr.Error()
		}
		return result
	}
	result.Installed = true

	verifyCode, verifyStdout, verifyStderr, verifyErr := d.runner.Run(ctx, verifyArgv)
	result.VerifyStdout = verifyStdout
	result.VerifyStderr = verifyStderr
	result.Success = (verifyErr == nil && verifyCode == 0) || verifyType == VerifyTypeManual
	return result
}

// VerifyTypeManual is the verification type that always passes; used when
// an item carries no automatable check.
const VerifyTypeManual = types.VerifyManual

// VerifyArg resolves the (type, target) pair passed to the verifier
// script. command_exists targets the first word of the test command,
// falling back to the item name; config_exists targets the test command;
// mcp_connect needs no target.
func VerifyArg(item types.ProfileItem) (string, string) {
	verifyType := item.Verification.Type
	testCommand := strings.TrimSpace(item.Verification.TestCommand)

	switch verifyType {
	case types.VerifyCommandExists:
		if testCommand != "" {
			return verifyType, strings.Fields(testCommand)[0]
		}
		return verifyType, item.Name
	case types.VerifyConfigExists:
		return verifyType, testCommand
	case types.VerifyMCPConnect:
		return verifyType, ""
	}
	if testCommand != "" {
		return VerifyTypeManual, testCommand
	}
	return VerifyTypeManual, "Verify manually"
}
