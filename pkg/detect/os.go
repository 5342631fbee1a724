package detect

import (
	"runtime"
	"strings"

	"github.com/nbench/envprofile/pkg/types"
)

// NormalizeOS maps a raw OS identifier to one of the three canonical
// names. An empty or unrecognized value falls back to the OS the process
// is running on.
func NormalizeOS(raw string) types.OSName {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "darwin", "mac", "macos", "osx":
		return types.OSMacOS
	case "linux":
		return types.OSLinux
	case "windows", "win32", "cygwin", "msys":
		return types.OSWindows
	}

	switch runtime.GOOS {
	case "darwin":
		return types.OSMacOS
	case "windows":
		return types.OSWindows
	}
	return types.OSLinux
}
