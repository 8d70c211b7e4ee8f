// Package response writes the JSON envelope every endpoint answers with:
//
//	{"status": 200, "message": "...", "data": ..., "errors": ...}
package response

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the body of every JSON response. Errors carries the
// field → message map of a failed validation.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Status: http.StatusCreated, Data: data})
}

// Message sends a 200 with a message and no data.
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Envelope{Status: http.StatusOK, Message: message})
}

func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with the offending fields.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, Envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// Rule maps every error matching Target (per errors.Is) to Status. A
// non-empty Message replaces the error text in the response.
type Rule struct {
	Target  error
	Status  int
	Message string
}

// Rules is checked in order; the first match wins.
type Rules []Rule

// Resolve returns the status and message for err. Errors no rule matches
// resolve to 500 with known false.
func (rs Rules) Resolve(err error) (status int, message string, known bool) {
	for _, r := range rs {
		if !errors.Is(err, r.Target) {
			continue
		}
		message = r.Message
		if message == "" {
			message = err.Error()
		}
		return r.Status, message, true
	}
	return http.StatusInternalServerError, "Internal server error", false
}

// FromError writes the envelope err resolves to under rs and reports
// whether a rule matched.
func FromError(w http.ResponseWriter, rs Rules, err error) bool {
	status, message, known := rs.Resolve(err)
	Error(w, status, message)
	return known
}
