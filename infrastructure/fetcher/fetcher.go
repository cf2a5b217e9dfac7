// Package fetcher implements the archive retrieval strategies. Both
// strategies stream the response body chunk by chunk, reporting progress after
// each read, and return the archive as one contiguous byte buffer. No archive
// format validation happens here; malformed archives are the consumer's
// concern.
package fetcher

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/repozip/repozip/domain"
)

const (
	chunkSize      = 32 * 1024
	requestTimeout = 10 * time.Minute
)

// newHTTPClient returns the client used for plain archive fetches.
// Redirect-sensitive requests build their own client.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// readBody consumes the response body incrementally. totalBytes comes from the
// Content-Length header; when it is not positive the progress reports are
// indeterminate but BytesReceived still advances. onProgress is invoked
// synchronously after every chunk, so reports arrive in strictly increasing
// BytesReceived order.
func readBody(body io.Reader, totalBytes int64, onProgress domain.ProgressFunc) ([]byte, error) {
	var buf bytes.Buffer
	chunk := make([]byte, chunkSize)
	var received int64

	for {
		n, err := body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			received += int64(n)
			if onProgress != nil {
				onProgress(progressFor(received, totalBytes))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, domain.NewStreamError("failed to read archive stream", err)
		}
	}

	return buf.Bytes(), nil
}

func progressFor(received, total int64) domain.Progress {
	p := domain.Progress{BytesReceived: received, TotalBytes: total}
	if total > 0 {
		p.Percent = int(math.Round(float64(received) / float64(total) * 100))
	} else {
		p.Indeterminate = true
	}
	return p
}

// statusError maps a non-success archive response to the pipeline taxonomy.
func statusError(resp *http.Response, repo domain.Repository) error {
	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewNotFoundError(
			fmt.Sprintf("archive for %s not found or not accessible", repo),
			resp.StatusCode,
		)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewAuthError(
			fmt.Sprintf("credential rejected for %s", repo),
			resp.StatusCode,
		)
	default:
		return domain.NewNetworkError(
			fmt.Sprintf("unexpected status %d fetching archive for %s", resp.StatusCode, repo),
			resp.StatusCode,
			nil,
		)
	}
}
