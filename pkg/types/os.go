package types

// OSName is a normalized operating system identifier.
type OSName string

const (
	OSMacOS   OSName = "macos"
	OSLinux   OSName = "linux"
	OSWindows OSName = "windows"
)

// AllOSes returns a fresh slice of every supported OS, in canonical order.
func AllOSes() []OSName {
	return []OSName{OSMacOS, OSLinux, OSWindows}
}
