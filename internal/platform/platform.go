package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// OS is a supported operating system, using uname-style naming ("Darwin"
// rather than "macos") because the Miniforge installer filenames are built
// from raw uname values.
type OS string

const (
	Windows OS = "Windows"
	MacOS   OS = "Darwin"
	Linux   OS = "Linux"
)

// Arch is a supported CPU architecture.
type Arch string

const (
	X8664 Arch = "x86_64"
	ARM64 Arch = "arm64"
)

// ParseOS normalizes a raw operating system string into an OS value.
// It accepts both uname-style names ("Darwin", "Windows", "Linux") and the
// Go runtime tokens ("darwin", "windows", "linux"). Anything outside the
// supported set is an error.
func ParseOS(raw string) (OS, error) {
	switch strings.ToLower(raw) {
	case "windows":
		return Windows, nil
	case "darwin", "macos":
		return MacOS, nil
	case "linux":
		return Linux, nil
	default:
		return "", fmt.Errorf("unsupported operating system: %s", raw)
	}
}

// ParseArch normalizes a raw machine string into an Arch value.
// Both the uname spellings (x86_64, aarch64, AMD64) and the Go runtime
// tokens (amd64, arm64) map onto the two supported architectures.
func ParseArch(raw string) (Arch, error) {
	switch strings.ToLower(raw) {
	case "amd64", "x86_64":
		return X8664, nil
	case "arm64", "aarch64":
		return ARM64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", raw)
	}
}

// Detect returns the operating system and architecture of the running
// process. Derived once per invocation from runtime.GOOS/GOARCH; callers
// hold onto the pair instead of re-detecting.
func Detect() (OS, Arch, error) {
	osType, err := ParseOS(runtime.GOOS)
	if err != nil {
		return "", "", err
	}
	arch, err := ParseArch(runtime.GOARCH)
	if err != nil {
		return "", "", err
	}
	return osType, arch, nil
}

// UserConfigDir returns the user configuration directory for an application,
// e.g. ~/.config/Code on Linux, ~/Library/Application Support/Code on macOS,
// %AppData%\Code on Windows.
func UserConfigDir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, app), nil
}
