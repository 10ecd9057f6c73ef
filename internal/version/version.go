// ABOUTME: Version and product identification
// ABOUTME: Reported by the CLI and the TUI header
package version

const (
	Version      = "0.3.0"
	Product      = "Resonate Tone"
	Manufacturer = "Resonate"
)

// String returns the product and version for display
func String() string {
	return Product + " " + Version
}
