package errors

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// InternalError logs err with the request ID and returns a generic 500.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logf(r, "ERROR", "%s: %v", message, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// BadRequestError logs err and returns clientMessage with a 400.
func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	logf(r, "WARN", "bad request: %v", err)
	http.Error(w, clientMessage, http.StatusBadRequest)
}

// NotFound returns a plain 404.
func NotFound(w http.ResponseWriter, r *http.Request, what string) {
	logf(r, "INFO", "%s not found: %s", what, r.URL.Path)
	http.Error(w, what+" not found", http.StatusNotFound)
}

func LogError(r *http.Request, message string, err error) {
	logf(r, "ERROR", "%s: %v", message, err)
}

func LogInfo(r *http.Request, message string) {
	logf(r, "INFO", "%s", message)
}

func logf(r *http.Request, level, format string, args ...any) {
	if requestID := middleware.GetReqID(r.Context()); requestID != "" {
		log.Printf("["+level+"] RequestID="+requestID+": "+format, args...)
		return
	}
	log.Printf("["+level+"] "+format, args...)
}
