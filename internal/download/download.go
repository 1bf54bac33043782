package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"pis-utils/internal/logger"
)

// httpClient is the client used for installer downloads. Redirects are
// followed (release URLs redirect to a CDN); the timeout bounds the whole
// request including the body copy.
var httpClient = &http.Client{Timeout: 10 * time.Minute}

// Downloader streams one HTTP response body to a destination file.
// It is strictly sequential: Start performs the GET and opens the output
// file, Run copies the body in fixed-size chunks. The byte counter only
// drives progress display; there is no resume and an interrupted download
// leaves a truncated file behind.
type Downloader struct {
	URL string

	resp      *http.Response
	out       *os.File
	completed int64
	size      int64
}

// Start performs an HTTP GET against url and opens (creating or truncating)
// the destination file. A connection failure or a non-2xx status is an
// error; in that case nothing has been written.
func Start(ctx context.Context, url, dest string) (*Downloader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("setting up request for %s: %w", url, err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download of %s failed: HTTP status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to create file %s: %w", dest, err)
	}

	return &Downloader{
		URL:  url,
		resp: resp,
		out:  out,
		size: resp.ContentLength, // -1 if the server doesn't send Content-Length
	}, nil
}

// Size returns the total download size, or -1 when the server did not
// declare one.
func (d *Downloader) Size() int64 {
	return d.size
}

// Completed returns the bytes written so far.
func (d *Downloader) Completed() int64 {
	return d.completed
}

// Run copies the response body to the destination file in fixed 8 KiB
// chunks, calling onChunk with the number of bytes written after each
// chunk. Both the body and the file are closed before returning. On a read
// or write failure the destination is left partially written.
func (d *Downloader) Run(onChunk func(n int)) error {
	defer d.close()

	buff := make([]byte, 8192)
	for {
		n, err := d.resp.Body.Read(buff)
		if n > 0 {
			if _, werr := d.out.Write(buff[:n]); werr != nil {
				return fmt.Errorf("failed to write response to file: %w", werr)
			}
			d.completed += int64(n)
			if onChunk != nil {
				onChunk(n)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
	}
}

func (d *Downloader) close() {
	if cerr := d.resp.Body.Close(); cerr != nil {
		logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
	}
	if cerr := d.out.Close(); cerr != nil {
		logger.Warn("[WARN] Failed to close destination file: %v\n", cerr)
	}
}

// File downloads url to dest while rendering a progress bar. The bar shows
// bytes-of-total when the server declares a Content-Length and an
// indeterminate byte counter otherwise. description labels the bar; the
// destination filename is a reasonable choice.
func File(ctx context.Context, url, dest, description string) error {
	d, err := Start(ctx, url, dest)
	if err != nil {
		return err
	}

	bar := progressbar.DefaultBytes(d.Size(), description)
	defer func() {
		_ = bar.Close()
	}()

	if err := d.Run(func(n int) {
		_ = bar.Add(n)
	}); err != nil {
		return err
	}

	logger.Debug("[DEBUG] Downloaded %s to %s (%d bytes)\n", url, dest, d.Completed())
	return nil
}
