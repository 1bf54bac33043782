package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDownloadDeclaredLength(t *testing.T) {
	body := bytes.Repeat([]byte("abcdefgh"), 4096) // 32 KiB, several chunks
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The body exceeds net/http's pre-chunking buffer, so the server
		// would switch to chunked encoding unless the length is declared
		// explicitly.
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.bin")
	d, err := Start(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	require.Equal(t, int64(len(body)), d.Size())

	var reported int64
	require.NoError(t, d.Run(func(n int) { reported += int64(n) }))

	require.Equal(t, int64(len(body)), d.Completed())
	require.Equal(t, int64(len(body)), reported)

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, written)
}

func TestDownloadUnknownLength(t *testing.T) {
	body := bytes.Repeat([]byte("x"), 20000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body is fully written forces chunked
		// encoding, so the client sees no Content-Length.
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.bin")
	d, err := Start(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	require.Equal(t, int64(-1), d.Size())

	require.NoError(t, d.Run(nil))
	require.Equal(t, int64(len(body)), d.Completed())

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, written)
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.bin")
	_, err := Start(context.Background(), srv.URL, dest)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")

	// Nothing was written for a failed request.
	_, err = os.Stat(dest)
	require.True(t, os.IsNotExist(err))
}

func TestDownloadConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	dest := filepath.Join(t.TempDir(), "asset.bin")
	_, err := Start(context.Background(), srv.URL, dest)
	require.Error(t, err)
}

func TestDownloadFollowsRedirect(t *testing.T) {
	body := []byte("redirected payload")
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer target.Close()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.bin")
	require.NoError(t, File(context.Background(), srv.URL, dest, "test download"))

	written, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, body, written)
}

func TestDownloadCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("never delivered"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "asset.bin")
	_, err := Start(ctx, srv.URL, dest)
	require.Error(t, err)
}
