package installer

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"pis-utils/internal/logger"
	"pis-utils/internal/platform"
)

// IsSafePath reports whether an uninstall flow may delete the given path.
// The root directory, the user's home directory, the Windows system roots,
// and anything suspiciously short are all refused.
func IsSafePath(path string, osType platform.OS) bool {
	if path == "" {
		return false
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	dangerous := []string{"/"}
	if home, err := os.UserHomeDir(); err == nil {
		dangerous = append(dangerous, home)
	}
	if osType == platform.Windows {
		dangerous = append(dangerous,
			`C:\`,
			`C:\Windows`,
			`C:\Program Files`,
			`C:\Program Files (x86)`,
		)
	}

	for _, d := range dangerous {
		if abs == filepath.Clean(d) {
			return false
		}
	}

	// Anything this short is a system path, whatever it is.
	return len(abs) >= 5
}

// movePath renames src to dst, shelling out to `mv` when the rename fails
// (e.g. when the temp dir and the destination are on different filesystems).
func movePath(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	cmd := exec.Command("mv", "-f", src, dst)
	logger.Debug("[DEBUG] Running command: mv -f %s %s\n", src, dst)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to move %s to %s: %v\nOutput: %s", src, dst, err, output)
	}
	return nil
}
