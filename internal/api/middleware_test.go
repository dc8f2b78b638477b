package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRouter(captured *string) chi.Router {
	r := chi.NewRouter()
	r.Route("/users/{userId}", func(r chi.Router) {
		r.Use(UserIDMiddleware)
		r.Get("/images", func(w http.ResponseWriter, r *http.Request) {
			*captured = GetUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func TestUserIDMiddleware_ExtractsUserID(t *testing.T) {
	var captured string
	r := userRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/users/alice/images", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", captured)
}

func TestUserIDMiddleware_RejectsDotDot(t *testing.T) {
	var captured string
	r := userRouter(&captured)

	req := httptest.NewRequest(http.MethodGet, "/users/../images", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, captured)

	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "invalid request")
}

func TestUserIDMiddleware_MissingUserID(t *testing.T) {
	// Mount without the {userId} param to simulate a missing value.
	r := chi.NewRouter()
	r.With(UserIDMiddleware).Get("/no-user", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/no-user", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserID_EmptyContext(t *testing.T) {
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	assert.Equal(t, "", GetUserID(ctx))
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(http.ResponseWriter)
		status int
		body   string
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "userId is required") }, http.StatusBadRequest, "invalid request: userId is required"},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "image not found") }, http.StatusNotFound, "image not found"},
		{"too large", func(w http.ResponseWriter) { TooLarge(w, "upload too large") }, http.StatusRequestEntityTooLarge, "upload too large"},
		{"unprocessable", func(w http.ResponseWriter) { UnprocessableEntity(w, "cannot decode") }, http.StatusUnprocessableEntity, "cannot decode"},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "failed") }, http.StatusInternalServerError, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string][]string{"imageLinks": {}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"imageLinks":[]}`, w.Body.String())
}

func TestUserIDMiddleware_DecodesEscapedUserID(t *testing.T) {
	var captured string
	r := userRouter(&captured)

	// The escaped comma forces a RawPath, which chi matches against.
	req := httptest.NewRequest(http.MethodGet, "/users/a%2Cb/images", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a,b", captured)
}

func TestURLParam(t *testing.T) {
	r := chi.NewRouter()
	var got string
	var gotErr error
	r.Get("/files/{name}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = URLParam(r, "name")
	})

	for target, want := range map[string]string{
		"/files/plain.png":    "plain.png",
		"/files/a%2Cb.png":    "a,b.png",
		"/files/a%3Bb.png":    "a;b.png",
		"/files/my%20cat.png": "my cat.png",
		"/files/100%25.png":   "100%.png",
	} {
		got, gotErr = "", nil
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, gotErr, target)
		assert.Equal(t, want, got, target)
	}
}
