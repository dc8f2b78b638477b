//go:build conformance

package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"
)

// targetURL builds a full URL for the given path on the target server.
func targetURL(path string) string {
	return strings.TrimRight(baseURL, "/") + path
}

// uniqueName returns a filename that will not collide with earlier runs.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d.png", prefix, time.Now().UnixNano())
}

// doRequest performs an HTTP request and returns status and body.
func doRequest(t *testing.T, method, url string, body io.Reader, contentType string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// upload posts a multipart form with optional userId field and image part.
func upload(t *testing.T, user string, withUser bool, fileName string, content []byte) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if withUser {
		if err := w.WriteField("userId", user); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		fw, err := w.CreateFormFile("image", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return doRequest(t, http.MethodPost, targetURL("/upload-image"), &buf, w.FormDataContentType())
}

// listLinks fetches the image links for user and decodes them.
func listLinks(t *testing.T, user string) (int, []string) {
	t.Helper()
	status, data := doRequest(t, http.MethodGet, targetURL("/image-links/"+user), nil, "")
	if status != http.StatusOK {
		return status, nil
	}
	var out struct {
		ImageLinks []string `json:"imageLinks"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal JSON: %v\nbody: %s", err, string(data))
	}
	if out.ImageLinks == nil {
		t.Fatalf("imageLinks must be an array, got %s", string(data))
	}
	return status, out.ImageLinks
}

func contains(list []string, suffix string) bool {
	for _, s := range list {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
