package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/leca/dt-user-images/internal/storage"
)

type contextKey string

const userIDKey contextKey = "user_id"

// UserIDMiddleware extracts the userId chi URL parameter, rejects it unless it
// is a single safe path segment, and stores it in the request context.
func UserIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := URLParam(r, "userId")
		if err != nil {
			BadRequest(w, "userId is not validly escaped")
			return
		}
		if userID == "" {
			BadRequest(w, "userId is required")
			return
		}
		if !storage.SafeSegment(userID) {
			BadRequest(w, "userId is not a valid path segment")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// URLParam returns the chi URL parameter with percent-escapes decoded. chi
// matches against RawPath whenever the request has one (e.g. a name with
// an escaped ',' or ';'), and then the parameter is still escaped.
func URLParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// GetUserID retrieves the user ID stored in the context by UserIDMiddleware.
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}
