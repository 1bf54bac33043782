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

// VSCodeDownloadURL returns the download URL and local filename for the
// VS Code build matching the given operating system. The update endpoint's
// /latest/{platform}/{channel} route always serves the newest build; macOS
// gets the universal archive, so the architecture never appears in the URL.
func VSCodeDownloadURL(cfg config.Config, osType platform.OS) (string, string) {
	base := cfg.VSCodeBaseURL
	channel := cfg.VSCodeChannel

	switch osType {
	case platform.Windows:
		return fmt.Sprintf("%s/latest/win32-x64-user/%s", base, channel), "vscode_installer.exe"
	case platform.MacOS:
		return fmt.Sprintf("%s/latest/darwin-universal/%s", base, channel), "VSCode.zip"
	default: // Linux
		return fmt.Sprintf("%s/latest/linux-x64/%s", base, channel), "vscode.tar.gz"
	}
}

// InstallVSCode installs VS Code, the configured extensions, and the
// configured settings. The binary install is skipped when `code` is already
// on PATH. A missing `code` CLI after installation is reported but does not
// block settings application.
func InstallVSCode(ctx context.Context, cfg config.Config, payload config.VSCodeInstall) error {
	osType, arch, err := platform.Detect()
	if err != nil {
		return err
	}

	logger.Info("[INFO] Installing VS Code (%s, %s)\n", osType, arch)

	if _, err := exec.LookPath("code"); err == nil {
		logger.Info("[INFO] VS Code already installed\n")
	} else {
		url, filename := VSCodeDownloadURL(cfg, osType)
		tmpDir, err := os.MkdirTemp("", "pis-utils-vscode-")
		if err != nil {
			return fmt.Errorf("creating temp dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		installerPath := filepath.Join(tmpDir, filename)
		if err := download.File(ctx, url, installerPath, "Downloading "+filename); err != nil {
			return err
		}
		if err := installVSCodeBinary(ctx, osType, installerPath); err != nil {
			return err
		}
		logger.Info("[INFO] VS Code installed\n")
	}

	if codeCLI, err := FindCodeCLI(osType); err != nil {
		logger.Error("[ERROR] %v\n", err)
	} else {
		installExtensions(ctx, codeCLI, payload.Extensions)
	}

	settingsPath, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := MergeSettings(settingsPath, payload.Settings); err != nil {
		return err
	}
	logger.Info("[INFO] Settings applied (%d settings)\n", len(payload.Settings))

	logger.Info("[INFO] All done! Restart your terminal if `code` is not yet on your PATH.\n")
	return nil
}

// installVSCodeBinary dispatches the platform-specific installation step.
func installVSCodeBinary(ctx context.Context, osType platform.OS, installer string) error {
	switch osType {
	case platform.Windows:
		return installVSCodeWindows(ctx, installer)
	case platform.MacOS:
		return installVSCodeDarwin(installer)
	default: // Linux
		return installVSCodeLinux(installer)
	}
}

// installVSCodeWindows runs the user-setup installer silently with the
// organization's task selection (context menus, file association, PATH).
func installVSCodeWindows(ctx context.Context, installer string) error {
	logger.Info("[INFO] Running Windows installer (silent)...\n")
	cmd := exec.CommandContext(ctx, installer,
		"/VERYSILENT",
		"/MERGETASKS=!runcode,addcontextmenufiles,addcontextmenufolders,associatewithfiles,addtopath")
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("windows installer failed: %v\nOutput: %s", err, output)
	}
	return nil
}

// installVSCodeDarwin unzips the downloaded archive and moves the app
// bundle into /Applications, replacing any existing copy.
func installVSCodeDarwin(installer string) error {
	extractDir := filepath.Join(filepath.Dir(installer), "vscode_extracted")
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return fmt.Errorf("creating extraction dir: %w", err)
	}

	logger.Info("[INFO] Extracting VS Code for macOS...\n")
	if _, err := ExtractArchive(installer, extractDir); err != nil {
		return fmt.Errorf("extracting %s: %w", installer, err)
	}

	appSrc := filepath.Join(extractDir, "Visual Studio Code.app")
	appDst := "/Applications/Visual Studio Code.app"

	if _, err := os.Stat(appDst); err == nil {
		logger.Info("[INFO] Removing existing installation...\n")
		if err := os.RemoveAll(appDst); err != nil {
			return fmt.Errorf("removing existing installation: %w", err)
		}
	}

	logger.Info("[INFO] Moving app to /Applications...\n")
	return movePath(appSrc, appDst)
}

// installVSCodeLinux unpacks the tarball into ~/.local/lib/vscode (dropping
// the archive's top-level directory) and symlinks the `code` launcher into
// ~/.local/bin.
func installVSCodeLinux(installer string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	installDir := filepath.Join(home, ".local", "lib", "vscode")
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("creating install dir: %w", err)
	}

	logger.Info("[INFO] Extracting VS Code for Linux...\n")
	if err := ExtractStripped(installer, installDir); err != nil {
		return fmt.Errorf("extracting %s: %w", installer, err)
	}

	binDir := filepath.Join(home, ".local", "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		return fmt.Errorf("creating bin dir: %w", err)
	}

	symlink := filepath.Join(binDir, "code")
	_ = os.Remove(symlink)
	if err := os.Symlink(filepath.Join(installDir, "bin", "code"), symlink); err != nil {
		return fmt.Errorf("creating symlink %s: %w", symlink, err)
	}

	logger.Info("[INFO] Symlink created: %s\n", symlink)
	logger.Warn("[WARN] Make sure ~/.local/bin is in your PATH.\n")
	return nil
}

// FindCodeCLI locates the `code` command line interface. PATH is checked
// first; on Windows the default install locations are tried as well, since
// the installer's PATH change only takes effect in new terminals.
func FindCodeCLI(osType platform.OS) (string, error) {
	if path, err := exec.LookPath("code"); err == nil {
		return path, nil
	}

	if osType == platform.Windows {
		candidates := []string{
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "Microsoft VS Code", "bin", "code.cmd"),
			filepath.Join(os.Getenv("PROGRAMFILES"), "Microsoft VS Code", "bin", "code.cmd"),
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				return c, nil
			}
		}
	}

	return "", fmt.Errorf("could not find the `code` CLI. " +
		"On Windows, try opening a new terminal after installation. " +
		"On Linux, make sure ~/.local/bin is in your PATH")
}

// installExtensions installs each extension through the `code` CLI. Every
// extension gets its own success/failure line; failures do not stop the
// loop.
func installExtensions(ctx context.Context, codeCLI string, extensions []string) {
	total := len(extensions)
	for i, ext := range extensions {
		cmd := exec.CommandContext(ctx, codeCLI, "--install-extension", ext, "--force")
		logger.Debug("[DEBUG] Running command: %s\n", strings.Join(cmd.Args, " "))
		output, err := cmd.CombinedOutput()
		if err != nil {
			logger.Error("[ERROR] [%d/%d] %s - %v\nOutput: %s\n", i+1, total, ext, err, output)
		} else {
			logger.Info("[INFO] [%d/%d] Installed %s\n", i+1, total, ext)
		}
	}
}

// SettingsPath returns the location of VS Code's user settings.json for the
// current user.
func SettingsPath() (string, error) {
	dir, err := platform.UserConfigDir("Code")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "User", "settings.json"), nil
}

// UninstallVSCode removes the VS Code application and all per-user editor
// data. On Windows the application itself must be removed through the
// system's installed-apps list, so only guidance is printed there.
func UninstallVSCode() error {
	osType, _, err := platform.Detect()
	if err != nil {
		return err
	}

	logger.Info("[INFO] Uninstalling VS Code\n")
	appRemoved := false

	switch osType {
	case platform.MacOS:
		appPath := "/Applications/Visual Studio Code.app"
		if _, err := os.Stat(appPath); err == nil {
			logger.Info("[INFO] Removing VS Code.app...\n")
			if err := os.RemoveAll(appPath); err != nil {
				logger.Error("[ERROR] Failed to remove %s: %v\n", appPath, err)
			} else {
				logger.Info("[INFO] Application removed\n")
				appRemoved = true
			}
		} else {
			logger.Warn("[WARN] VS Code not found at /Applications\n")
		}

	case platform.Linux:
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		installDir := filepath.Join(home, ".local", "lib", "vscode")
		symlink := filepath.Join(home, ".local", "bin", "code")

		if _, err := os.Stat(installDir); err == nil {
			logger.Info("[INFO] Removing VS Code...\n")
			if err := os.RemoveAll(installDir); err != nil {
				logger.Error("[ERROR] Failed to remove %s: %v\n", installDir, err)
			} else {
				logger.Info("[INFO] VS Code removed\n")
				appRemoved = true
			}
		}
		if _, err := os.Lstat(symlink); err == nil {
			if err := os.Remove(symlink); err != nil {
				logger.Error("[ERROR] Failed to remove symlink %s: %v\n", symlink, err)
			} else {
				logger.Info("[INFO] Symlink removed\n")
				appRemoved = true
			}
		}
		if !appRemoved {
			logger.Warn("[WARN] VS Code not found\n")
			logger.Info("[INFO] If installed via package manager: sudo apt-get remove code\n")
		}

	case platform.Windows:
		logger.Warn("[WARN] On Windows, uninstall via Settings -> Apps -> Apps & features\n")
		localApp := filepath.Join(os.Getenv("LOCALAPPDATA"), "Programs", "Microsoft VS Code")
		programFiles := filepath.Join(os.Getenv("PROGRAMFILES"), "Microsoft VS Code")
		if _, err := os.Stat(localApp); err == nil {
			logger.Info("[INFO] Found at: %s\n", localApp)
		} else if _, err := os.Stat(programFiles); err == nil {
			logger.Info("[INFO] Found at: %s\n", programFiles)
		}
	}

	// User data lives outside the application directory on every OS.
	var removedItems []string

	if configDir, err := platform.UserConfigDir("Code"); err == nil {
		if _, serr := os.Stat(configDir); serr == nil {
			logger.Info("[INFO] Removing settings and extensions...\n")
			if err := os.RemoveAll(configDir); err != nil {
				logger.Error("[ERROR] Failed to remove %s: %v\n", configDir, err)
			} else {
				removedItems = append(removedItems, "settings & extensions")
			}
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		vscodeDir := filepath.Join(home, ".vscode")
		if _, serr := os.Stat(vscodeDir); serr == nil {
			logger.Info("[INFO] Removing user data...\n")
			if err := os.RemoveAll(vscodeDir); err != nil {
				logger.Error("[ERROR] Failed to remove %s: %v\n", vscodeDir, err)
			} else {
				removedItems = append(removedItems, "user data")
			}
		}
	}

	if len(removedItems) > 0 {
		logger.Info("[INFO] Removed %s\n", strings.Join(removedItems, ", "))
	} else {
		logger.Warn("[WARN] No user data found\n")
	}

	if appRemoved || len(removedItems) > 0 {
		logger.Info("[INFO] Uninstall complete!\n")
	} else {
		logger.Warn("[WARN] No changes made - VS Code not found.\n")
	}
	return nil
}
