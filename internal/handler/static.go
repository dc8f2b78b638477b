package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/leca/dt-user-images/internal/api"
)

// LandingPage handles GET / by serving index.html from the public directory.
func (h *Handler) LandingPage(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.Config.PublicDir, "index.html")
	if _, err := os.Stat(path); err != nil {
		api.NotFound(w, "landing page not found")
		return
	}
	http.ServeFile(w, r, path)
}

// filesOnly hides directories so the file server never renders listings.
type filesOnly struct {
	http.FileSystem
}

func (fs filesOnly) Open(name string) (http.File, error) {
	f, err := fs.FileSystem.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// UploadsStatic serves files under the upload root at their root-relative
// path, e.g. /alice/images/cat.png. Anything else is a 404.
func (h *Handler) UploadsStatic() http.Handler {
	files := http.FileServer(filesOnly{http.Dir(h.Config.UploadRoot)})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			api.NotFound(w, "not found")
			return
		}
		files.ServeHTTP(w, r)
	})
}
