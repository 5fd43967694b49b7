package httputil

import (
	"encoding/json"
	"net/http"
)

// Result is the tagged response envelope. Exactly one of Data or the error
// fields is populated, discriminated by Status.
type Result struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"error,omitempty"`
}

// Ok builds a success result.
func Ok(data interface{}) Result {
	return Result{Status: "ok", Data: data}
}

// Err builds an error result with a machine-readable kind and a
// human-readable message.
func Err(kind, message string) Result {
	return Result{Status: "error", Kind: kind, Message: message}
}

// WriteJSON writes any value as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// WriteResult writes a tagged result with the given status code.
func WriteResult(w http.ResponseWriter, status int, res Result) {
	_ = WriteJSON(w, status, res)
}

// WriteOk writes a 200 success result.
func WriteOk(w http.ResponseWriter, data interface{}) {
	WriteResult(w, http.StatusOK, Ok(data))
}

// WriteError writes an error result with the given status code.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteResult(w, status, Err(kind, message))
}

// WriteBadRequest writes a 400 validation error.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, "validation", message)
}

// WriteUnauthorized writes the uniform 401 rejection. Every authentication
// and authorization failure surfaces through this one shape.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "authentication", message)
}

// WriteNotFound writes a 404 error.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message)
}

// WriteConflict writes a 409 error.
func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, "conflict", message)
}

// WriteInternalError writes a 500 error with a generic message; the real
// error belongs in the logs, not on the wire.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "internal", "internal server error")
}
