package installer

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestZip builds a zip archive containing a top-level directory with
// one file, mirroring the layout of application archives.
func writeTestZip(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "app.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("App.dir/readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello from zip"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

// writeTestTarGz builds a gzipped tarball with a versioned top-level
// directory wrapping an executable, mirroring release tarballs.
func writeTestTarGz(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "tool.tar.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "tool-1.0/",
		Typeflag: tar.TypeDir,
		Mode:     0755,
	}))
	content := []byte("#!/bin/sh\necho ok\n")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "tool-1.0/bin/tool",
		Typeflag: tar.TypeReg,
		Mode:     0755,
		Size:     int64(len(content)),
	}))
	_, err = tw.Write(content)
	require.NoError(t, err)

	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return path
}

func TestExtractArchiveZip(t *testing.T) {
	dir := t.TempDir()
	src := writeTestZip(t, dir)
	dest := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(dest, 0755))

	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dest, "App.dir"), top)

	content, err := os.ReadFile(filepath.Join(dest, "App.dir", "readme.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello from zip", string(content))
}

func TestExtractArchiveTarGz(t *testing.T) {
	dir := t.TempDir()
	src := writeTestTarGz(t, dir)
	dest := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(dest, 0755))

	top, err := ExtractArchive(src, dest)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dest, "tool-1.0"), top)

	info, err := os.Stat(filepath.Join(dest, "tool-1.0", "bin", "tool"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		require.NotZero(t, info.Mode()&0111, "executable bit preserved")
	}
}

func TestExtractStripped(t *testing.T) {
	dir := t.TempDir()
	src := writeTestTarGz(t, dir)
	dest := filepath.Join(dir, "install")
	require.NoError(t, os.MkdirAll(dest, 0755))

	require.NoError(t, ExtractStripped(src, dest))

	// The top-level tool-1.0/ directory is gone from the layout.
	_, err := os.Stat(filepath.Join(dest, "bin", "tool"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dest, "tool-1.0"))
	require.True(t, os.IsNotExist(err))
}

func TestExtractArchiveUnsupported(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "blob.rar")
	require.NoError(t, os.WriteFile(src, []byte("not an archive"), 0644))

	_, err := ExtractArchive(src, dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported archive format")
}
