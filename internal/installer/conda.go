package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pis-utils/internal/config"
	"pis-utils/internal/download"
	"pis-utils/internal/logger"
	"pis-utils/internal/platform"
)

// CondaInstallerURL returns the download URL and filename for the Miniforge3
// installer matching the given platform.
//
// Miniforge release assets use uname-style naming: Miniforge3-{os}-{arch}.sh,
// except Windows which ships a single x86_64 .exe. When dev is true the
// pinned dev release tag is used instead of GitHub's /releases/latest/download
// redirect.
func CondaInstallerURL(cfg config.Config, osType platform.OS, arch platform.Arch, dev bool) (string, string) {
	var baseURL string
	if dev {
		baseURL = fmt.Sprintf("https://github.com/%s/releases/download/%s", cfg.MiniforgeRepo, cfg.MiniforgeDevTag)
	} else {
		// GitHub's /releases/latest/download/ resolves to the newest release
		baseURL = fmt.Sprintf("https://github.com/%s/releases/latest/download", cfg.MiniforgeRepo)
	}

	filename := condaAssetName(osType, arch)
	return baseURL + "/" + filename, filename
}

// condaAssetName maps the platform descriptor onto the Miniforge asset
// filename. Linux arm64 machines report as aarch64 in uname terms, macOS
// ones as arm64; the asset names follow uname exactly.
func condaAssetName(osType platform.OS, arch platform.Arch) string {
	if osType == platform.Windows {
		return "Miniforge3-Windows-x86_64.exe"
	}

	machine := "x86_64"
	if arch == platform.ARM64 {
		if osType == platform.Linux {
			machine = "aarch64"
		} else {
			machine = "arm64"
		}
	}
	return fmt.Sprintf("Miniforge3-%s-%s.sh", osType, machine)
}

// InstallConda downloads the Miniforge3 installer for the current platform
// into a temporary directory and runs it in batch mode. The installer's
// output is passed through to the user; a non-zero exit is fatal.
func InstallConda(ctx context.Context, cfg config.Config, dev bool) error {
	osType, arch, err := platform.Detect()
	if err != nil {
		return err
	}

	release := "latest"
	if dev {
		release = "dev"
	}
	logger.Info("[INFO] Installing Miniforge3 (%s, %s, %s)\n", osType, arch, release)

	url, filename := CondaInstallerURL(cfg, osType, arch, dev)
	tmpDir, err := os.MkdirTemp("", "pis-utils-conda-")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	installerPath := filepath.Join(tmpDir, filename)
	if err := download.File(ctx, url, installerPath, "Downloading "+filename); err != nil {
		return err
	}

	logger.Info("[INFO] Running installer...\n")
	var run *exec.Cmd
	if osType == platform.Windows {
		// /S runs the NSIS installer silently
		run = exec.CommandContext(ctx, installerPath, "/S")
	} else {
		// -b batch (no prompts), -u update existing, -c conda init
		run = exec.CommandContext(ctx, "bash", installerPath, "-buc")
	}
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(run.Args, " "))
	if err := run.Run(); err != nil {
		return fmt.Errorf("miniforge installer failed: %w", err)
	}

	logger.Info("[INFO] Installation complete. Restart your terminal to activate conda.\n")
	return nil
}

// CondaBasePrefix returns the conda base installation directory as reported
// by `conda info --base`, or "" when conda is not on PATH or the reported
// path does not exist.
func CondaBasePrefix() string {
	cmd := exec.Command("conda", "info", "--base")
	output, err := cmd.Output()
	if err != nil {
		logger.Debug("[DEBUG] conda info --base failed: %v\n", err)
		return ""
	}

	base := strings.TrimSpace(string(output))
	if base == "" {
		return ""
	}
	if _, err := os.Stat(base); err != nil {
		logger.Debug("[DEBUG] conda reported base %s but it does not exist\n", base)
		return ""
	}
	return base
}

// runCondaInitReverse undoes conda's shell initialization via
// `conda init --reverse`. A dry run is issued first so the change shows up
// in debug logs before it is applied.
func runCondaInitReverse() bool {
	logger.Debug("[DEBUG] Running command: conda init --reverse --dry-run\n")
	if output, err := exec.Command("conda", "init", "--reverse", "--dry-run").CombinedOutput(); err == nil {
		logger.Debug("[DEBUG] conda init --reverse --dry-run output: %s\n", output)
	}

	output, err := exec.Command("conda", "init", "--reverse").CombinedOutput()
	if err != nil {
		logger.Debug("[DEBUG] conda init --reverse failed: %v\nOutput: %s\n", err, output)
		return false
	}
	return true
}

// UninstallConda removes the Miniforge3/conda installation and all per-user
// conda data. The base prefix is located through conda itself; deleting it is
// refused outright when the reported path looks unsafe. Individual removal
// failures are reported and the remaining steps still run.
func UninstallConda() error {
	osType, _, err := platform.Detect()
	if err != nil {
		return err
	}

	logger.Info("[INFO] Uninstalling Miniforge3/Conda\n")
	removedSomething := false

	basePrefix := CondaBasePrefix()
	if basePrefix == "" {
		logger.Warn("[WARN] conda not found in PATH\n")
	} else {
		logger.Info("[INFO] Found conda at: %s\n", basePrefix)
		if !IsSafePath(basePrefix, osType) {
			return fmt.Errorf("refusing to delete unsafe path: %s", basePrefix)
		}

		if runCondaInitReverse() {
			logger.Info("[INFO] Shell initialization reversed\n")
		} else {
			logger.Warn("[WARN] Could not reverse conda init (may be okay)\n")
		}

		logger.Info("[INFO] Removing conda installation...\n")
		if err := os.RemoveAll(basePrefix); err != nil {
			logger.Error("[ERROR] Failed to remove conda installation: %v\n", err)
			logger.Error("[ERROR] Try running with administrator privileges.\n")
		} else {
			logger.Info("[INFO] Conda installation removed\n")
			removedSomething = true
		}
	}

	// Per-user configuration lives outside the base prefix.
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	for _, p := range []string{filepath.Join(home, ".condarc"), filepath.Join(home, ".conda")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			logger.Error("[ERROR] Failed to remove %s: %v\n", p, err)
		} else {
			logger.Info("[INFO] Removed %s\n", filepath.Base(p))
			removedSomething = true
		}
	}

	if removedSomething {
		logger.Info("[INFO] Uninstall complete. Restart your terminal.\n")
	} else {
		logger.Warn("[WARN] No changes made - conda not found.\n")
	}
	return nil
}
