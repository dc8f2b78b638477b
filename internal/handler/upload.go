package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/leca/dt-user-images/internal/api"
	"github.com/leca/dt-user-images/internal/imageproc"
	"github.com/leca/dt-user-images/internal/model"
	"github.com/leca/dt-user-images/internal/storage"
)

// maxFieldBytes bounds the size of the userId form field.
const maxFieldBytes = 1 << 10

// UploadImage handles POST /upload-image -- multipart form with a userId
// field and an image file part. The form is streamed: userId must come
// before the image part, and the file goes straight to storage under its
// original name, replacing any earlier upload with the same name. Parts
// after the first image are ignored.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if h.Config.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxUploadBytes)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		api.BadRequest(w, "invalid multipart form")
		return
	}

	var userID string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			multipartError(w, err)
			return
		}

		switch part.FormName() {
		case "userId":
			if part.FileName() != "" {
				part.Close()
				continue
			}
			var b strings.Builder
			_, err := io.Copy(&b, io.LimitReader(part, maxFieldBytes))
			part.Close()
			if err != nil {
				multipartError(w, err)
				return
			}
			userID = b.String()

		case "image":
			if part.FileName() == "" {
				part.Close()
				continue
			}
			h.storeUpload(w, userID, part.FileName(), part)
			part.Close()
			return

		default:
			part.Close()
		}
	}

	if userID == "" {
		api.BadRequest(w, "userId is required")
		return
	}
	api.BadRequest(w, "image file is required")
}

// storeUpload validates the names and writes the file part to storage.
func (h *Handler) storeUpload(w http.ResponseWriter, userID, filename string, data io.Reader) {
	if userID == "" {
		api.BadRequest(w, "userId is required")
		return
	}
	if !storage.SafeSegment(userID) {
		api.BadRequest(w, "userId is not a valid path segment")
		return
	}
	if !storage.SafeSegment(filename) {
		api.BadRequest(w, "filename is not a valid path segment")
		return
	}

	size, err := h.Store.Store(userID, filename, data)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			api.BadRequest(w, "invalid userId or filename")
			return
		}
		// Do not leave a truncated file behind.
		if derr := h.Store.Delete(userID, filename); derr != nil && !errors.Is(derr, storage.ErrNotFound) {
			slog.Warn("remove partial upload", "user_id", userID, "filename", filename, "error", derr)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.TooLarge(w, "upload exceeds size limit")
			return
		}
		slog.Error("store image", "user_id", userID, "filename", filename, "error", err)
		api.InternalError(w, "failed to store image")
		return
	}

	h.recordUpload(userID, filename, size)

	api.WriteText(w, http.StatusOK, "image uploaded")
}

func multipartError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.TooLarge(w, "upload exceeds size limit")
		return
	}
	api.BadRequest(w, "invalid multipart form")
}

// recordUpload writes the ledger row for a stored file. The file on disk is
// authoritative, so failures here are logged and not reported to the client.
func (h *Handler) recordUpload(userID, filename string, size int64) {
	var info imageproc.Info
	if obj, err := h.Store.Retrieve(userID, filename); err == nil {
		if info, err = imageproc.Probe(obj); err != nil {
			slog.Warn("probe image", "user_id", userID, "filename", filename, "error", err)
		}
		obj.Close()
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = imageproc.ContentType(info.Format)
	}

	rec := &model.Upload{
		ID:          uuid.New().String(),
		UserID:      userID,
		Filename:    filename,
		Size:        size,
		ContentType: contentType,
		Format:      info.Format,
		Width:       info.Width,
		Height:      info.Height,
		Uploaded:    time.Now().UTC(),
	}
	if err := h.DB.PutUpload(rec); err != nil {
		slog.Warn("record upload", "user_id", userID, "filename", filename, "error", err)
	}
}
