package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/leca/dt-user-images/internal/api"
	"github.com/leca/dt-user-images/internal/database"
	"github.com/leca/dt-user-images/internal/imageproc"
	"github.com/leca/dt-user-images/internal/model"
	"github.com/leca/dt-user-images/internal/storage"
)

// maxRenditionSide caps the width and height accepted for resized renditions.
const maxRenditionSide = 8192

// imageLink builds the absolute URL of a stored image.
func (h *Handler) imageLink(userID, filename string) string {
	base := strings.TrimRight(h.Config.BaseURL, "/")
	return base + "/uploads/" + url.PathEscape(userID) + "/images/" + url.PathEscape(filename)
}

// ListImageLinks handles GET /image-links/{userId}.
func (h *Handler) ListImageLinks(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())

	names, err := h.Store.List(userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			api.NotFound(w, "image directory not found")
			return
		}
		slog.Error("list images", "user_id", userID, "error", err)
		api.InternalError(w, "failed to read image directory")
		return
	}

	links := make([]string, 0, len(names))
	for _, name := range names {
		links = append(links, h.imageLink(userID, name))
	}

	api.WriteJSON(w, http.StatusOK, model.ImageLinks{ImageLinks: links})
}

// GetImage handles GET /uploads/{userId}/images/{image} -- streams the stored
// bytes, or a resized rendition when width, height or fit is given.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())
	name, err := api.URLParam(r, "image")
	if err != nil {
		api.BadRequest(w, "image name is not validly escaped")
		return
	}

	opts, resize, err := parseRendition(r.URL.Query())
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	obj, err := h.Store.Retrieve(userID, name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			api.NotFound(w, "image not found")
		case errors.Is(err, storage.ErrInvalidName):
			api.BadRequest(w, "image name is not a valid path segment")
		default:
			slog.Error("retrieve image", "user_id", userID, "filename", name, "error", err)
			api.InternalError(w, "failed to read image")
		}
		return
	}
	defer obj.Close()

	if !resize {
		http.ServeContent(w, r, obj.Name, obj.ModTime, obj)
		return
	}

	out, format, err := imageproc.Transform(obj, opts)
	if err != nil {
		if errors.Is(err, imageproc.ErrUnsupported) {
			api.UnprocessableEntity(w, "image cannot be resized")
			return
		}
		slog.Error("transform image", "user_id", userID, "filename", name, "error", err)
		api.InternalError(w, "failed to resize image")
		return
	}

	w.Header().Set("Content-Type", imageproc.ContentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		slog.Error("GetImage: failed to write response", "error", err)
	}
}

// parseRendition reads the width, height and fit query parameters. resize is
// false when none of them is present.
func parseRendition(q url.Values) (opts imageproc.Options, resize bool, err error) {
	parse := func(key string) (int, error) {
		v := q.Get(key)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > maxRenditionSide {
			return 0, errors.New(key + " must be an integer between 0 and " + strconv.Itoa(maxRenditionSide))
		}
		return n, nil
	}

	if opts.Width, err = parse("width"); err != nil {
		return opts, false, err
	}
	if opts.Height, err = parse("height"); err != nil {
		return opts, false, err
	}
	opts.Fit = q.Get("fit")
	if !imageproc.ValidFit(opts.Fit) {
		return opts, false, errors.New("unknown fit " + strconv.Quote(opts.Fit))
	}

	resize = opts.Width > 0 || opts.Height > 0 || opts.Fit != ""
	return opts, resize, nil
}

// DeleteImage handles DELETE /delete-image/{userId}/{imageName}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())
	name, err := api.URLParam(r, "imageName")
	if err != nil {
		api.BadRequest(w, "image name is not validly escaped")
		return
	}

	if err = h.Store.Delete(userID, name); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			api.NotFound(w, "image not found")
		case errors.Is(err, storage.ErrInvalidName):
			api.BadRequest(w, "image name is not a valid path segment")
		default:
			slog.Error("delete image", "user_id", userID, "filename", name, "error", err)
			api.InternalError(w, "failed to delete image")
		}
		return
	}

	if err := h.DB.DeleteUpload(userID, name); err != nil && !errors.Is(err, database.ErrNotFound) {
		slog.Warn("remove upload record", "user_id", userID, "filename", name, "error", err)
	}

	api.WriteText(w, http.StatusOK, "image deleted")
}

// GetImageInfo handles GET /uploads/{userId}/images/{image}/info -- returns
// the ledger record written when the image was uploaded.
func (h *Handler) GetImageInfo(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())
	name, err := api.URLParam(r, "image")
	if err != nil {
		api.BadRequest(w, "image name is not validly escaped")
		return
	}
	if !storage.SafeSegment(name) {
		api.BadRequest(w, "image name is not a valid path segment")
		return
	}

	rec, err := h.DB.GetUpload(userID, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			api.NotFound(w, "image not found")
			return
		}
		slog.Error("get upload record", "user_id", userID, "filename", name, "error", err)
		api.InternalError(w, "failed to read image info")
		return
	}
	api.WriteJSON(w, http.StatusOK, rec)
}

// GetStats handles GET /stats/{userId}.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())

	st, err := h.DB.Stats(userID)
	if err != nil {
		slog.Error("upload stats", "user_id", userID, "error", err)
		api.InternalError(w, "failed to count images")
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}
