package api

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mwiater/hedlab/internal/logging"
)

// download streams a file endpoint into w. Error payloads are recognised by their
// JSON content type so that downloaded JSON files are not mistaken for errors.
func (c *Client) download(ctx context.Context, path string, w io.Writer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, requestID, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	disposition := resp.Header.Get("Content-Disposition")
	if resp.StatusCode < 200 || resp.StatusCode > 299 || (disposition == "" && isJSON(resp.Header.Get("Content-Type"))) {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if readErr != nil {
			return "", &TransportError{Method: http.MethodGet, Endpoint: path, Err: readErr}
		}
		logging.LogRequest("BACKEND->HEDLAB", http.MethodGet, path, requestID, body)
		if err := checkResponse(path, resp, body); err != nil {
			return "", err
		}
		if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
			return "", err
		}
		return "", nil
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return "", &TransportError{Method: http.MethodGet, Endpoint: path, Err: err}
	}
	logging.LogRequest("BACKEND->HEDLAB", http.MethodGet, path, requestID, map[string]any{"bytes": n, "disposition": disposition})
	return attachmentName(disposition), nil
}

// attachmentName extracts a safe base file name from a Content-Disposition header.
func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := filepath.Base(strings.TrimSpace(params["filename"]))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json"
}
