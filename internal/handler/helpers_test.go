package handler_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leca/dt-user-images/internal/config"
	"github.com/leca/dt-user-images/internal/database"
	"github.com/leca/dt-user-images/internal/router"
	"github.com/leca/dt-user-images/internal/storage"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:3000"

// testEnv bundles a running test server with the paths behind it.
type testEnv struct {
	ts         *httptest.Server
	router     http.Handler
	cfg        *config.Config
	uploadRoot string
}

// newTestEnv creates a test HTTP server backed by a private in-memory SQLite
// ledger and a temporary upload root.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := database.NewSQLiteDB("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploadRoot := filepath.Join(t.TempDir(), "uploads")
	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"),
		[]byte("<html><body><form></form></body></html>"), 0644))

	cfg := &config.Config{
		BaseURL:        testBaseURL,
		UploadRoot:     uploadRoot,
		PublicDir:      publicDir,
		MaxUploadBytes: 1 << 20,
	}

	srv := router.New(db, storage.NewFileSystem(uploadRoot), cfg)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	return &testEnv{ts: ts, router: srv.Router, cfg: cfg, uploadRoot: uploadRoot}
}

// multipartUploadBody builds an upload form. A nil userID omits the field;
// an empty filename omits the image part.
func multipartUploadBody(t *testing.T, userID *string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if userID != nil {
		require.NoError(t, w.WriteField("userId", *userID))
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func ptr(s string) *string { return &s }

// upload posts one image and returns the response status and body.
func (e *testEnv) upload(t *testing.T, userID *string, filename string, content []byte) (int, string) {
	t.Helper()
	body, contentType := multipartUploadBody(t, userID, filename, content)
	resp, err := http.Post(e.ts.URL+"/upload-image", contentType, body)
	require.NoError(t, err)
	return readBody(t, resp)
}

// do performs a request against the test server and returns status and body.
func (e *testEnv) do(t *testing.T, method, path string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.ts.URL+path, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return readBody(t, resp)
}

// links fetches /image-links/{userID} and decodes a successful response.
func (e *testEnv) links(t *testing.T, userID string) []string {
	t.Helper()
	status, body := e.do(t, http.MethodGet, "/image-links/"+userID)
	require.Equal(t, http.StatusOK, status, body)
	var out struct {
		ImageLinks []string `json:"imageLinks"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotNil(t, out.ImageLinks, "imageLinks must be an array, got %s", body)
	return out.ImageLinks
}

func readBody(t *testing.T, resp *http.Response) (int, string) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func createTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
