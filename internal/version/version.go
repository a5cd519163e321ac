// ABOUTME: Version and product identification
// ABOUTME: Reported by -version and in the startup log line
package version

// Version is overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "0.1.0"

const (
	Product      = "bgmusic"
	Manufacturer = "Sendspin"
)
