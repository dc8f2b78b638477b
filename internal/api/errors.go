package api

import "net/http"

// BadRequest writes a 400 error response.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteText(w, http.StatusBadRequest, "invalid request: "+msg)
}

// NotFound writes a 404 error response.
func NotFound(w http.ResponseWriter, msg string) {
	WriteText(w, http.StatusNotFound, msg)
}

// TooLarge writes a 413 error response.
func TooLarge(w http.ResponseWriter, msg string) {
	WriteText(w, http.StatusRequestEntityTooLarge, msg)
}

// UnprocessableEntity writes a 422 error response.
func UnprocessableEntity(w http.ResponseWriter, msg string) {
	WriteText(w, http.StatusUnprocessableEntity, msg)
}

// InternalError writes a 500 error response. The underlying error is never
// echoed to the client.
func InternalError(w http.ResponseWriter, msg string) {
	WriteText(w, http.StatusInternalServerError, msg)
}
