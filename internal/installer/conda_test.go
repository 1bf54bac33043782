package installer

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"pis-utils/internal/config"
	"pis-utils/internal/platform"
)

func testConfig() config.Config {
	return config.Config{
		MiniforgeRepo:   "conda-forge/miniforge",
		MiniforgeDevTag: "25.3.1-0",
		VSCodeBaseURL:   "https://update.code.visualstudio.com",
		VSCodeChannel:   "stable",
	}
}

func TestCondaInstallerURLLatest(t *testing.T) {
	cases := []struct {
		os       platform.OS
		arch     platform.Arch
		filename string
	}{
		{platform.Linux, platform.X8664, "Miniforge3-Linux-x86_64.sh"},
		{platform.Linux, platform.ARM64, "Miniforge3-Linux-aarch64.sh"},
		{platform.MacOS, platform.X8664, "Miniforge3-Darwin-x86_64.sh"},
		{platform.MacOS, platform.ARM64, "Miniforge3-Darwin-arm64.sh"},
		{platform.Windows, platform.X8664, "Miniforge3-Windows-x86_64.exe"},
		// Windows ships a single x86_64 installer regardless of arch
		{platform.Windows, platform.ARM64, "Miniforge3-Windows-x86_64.exe"},
	}

	for _, c := range cases {
		url, filename := CondaInstallerURL(testConfig(), c.os, c.arch, false)
		require.Equal(t, c.filename, filename)
		require.Equal(t,
			"https://github.com/conda-forge/miniforge/releases/latest/download/"+c.filename, url)
	}
}

func TestCondaInstallerURLDev(t *testing.T) {
	url, filename := CondaInstallerURL(testConfig(), platform.Linux, platform.X8664, true)
	require.Equal(t, "Miniforge3-Linux-x86_64.sh", filename)
	require.Equal(t,
		"https://github.com/conda-forge/miniforge/releases/download/25.3.1-0/Miniforge3-Linux-x86_64.sh", url)
}

func TestIsSafePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX path cases")
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.False(t, IsSafePath("", platform.Linux))
	require.False(t, IsSafePath("/", platform.Linux))
	require.False(t, IsSafePath(home, platform.Linux))
	require.False(t, IsSafePath("/usr", platform.Linux), "too short to be a conda prefix")

	require.True(t, IsSafePath("/opt/miniforge3", platform.Linux))
	require.True(t, IsSafePath(home+"/miniforge3", platform.Linux))
}

func TestCondaBasePrefixMissingConda(t *testing.T) {
	// With PATH emptied, conda cannot be found and the prefix is empty.
	t.Setenv("PATH", t.TempDir())
	require.Empty(t, CondaBasePrefix())
}
