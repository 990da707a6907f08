package utils

import (
	"encoding/json"
	"net/http"
)

const (
	// ProblemContentType is the RFC 7807 media type used for every error body
	ProblemContentType = "application/problem+json"

	// ValidationProblemType identifies request validation failures
	ValidationProblemType = "https://example.com/problems/validation-error"
)

// Problem is an RFC 7807 problem details body with an optional errors extension
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance,omitempty"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// FieldError describes one failed field in a validation problem
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// StatusTitle returns the problem title for a status code
func StatusTitle(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Bad Request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not Found"
	case http.StatusMethodNotAllowed:
		return "Method Not Allowed"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusUnprocessableEntity:
		return "Validation error"
	case http.StatusInternalServerError:
		return "Internal Server Error"
	case http.StatusServiceUnavailable:
		return "Service Unavailable"
	default:
		return "Error"
	}
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}

	return json.NewEncoder(w).Encode(data)
}

// WriteOK writes a 200 OK response
func WriteOK(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusOK, data)
}

// WriteCreated writes a 201 Created response
func WriteCreated(w http.ResponseWriter, data interface{}) error {
	return WriteJSON(w, http.StatusCreated, data)
}

// WriteNoContent writes a 204 No Content response
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteProblem writes an about:blank problem whose instance is the request path
func WriteProblem(w http.ResponseWriter, r *http.Request, status int, detail string) error {
	return writeProblem(w, Problem{
		Type:     "about:blank",
		Title:    StatusTitle(status),
		Status:   status,
		Detail:   detail,
		Instance: instance(r),
	})
}

// WriteValidationProblem writes a 422 problem carrying field errors
func WriteValidationProblem(w http.ResponseWriter, r *http.Request, errs []FieldError) error {
	return writeProblem(w, Problem{
		Type:     ValidationProblemType,
		Title:    StatusTitle(http.StatusUnprocessableEntity),
		Status:   http.StatusUnprocessableEntity,
		Detail:   "Request validation failed.",
		Instance: instance(r),
		Errors:   errs,
	})
}

// WriteBadRequest writes a 400 Bad Request problem
func WriteBadRequest(w http.ResponseWriter, r *http.Request, detail string) error {
	return WriteProblem(w, r, http.StatusBadRequest, detail)
}

// WriteUnauthorized writes a 401 problem with a Bearer challenge
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, detail string) error {
	if detail == "" {
		detail = "Authentication required."
	}
	w.Header().Set("WWW-Authenticate", "Bearer")
	return WriteProblem(w, r, http.StatusUnauthorized, detail)
}

// WriteForbidden writes a 403 Forbidden problem
func WriteForbidden(w http.ResponseWriter, r *http.Request, detail string) error {
	if detail == "" {
		detail = "Access forbidden."
	}
	return WriteProblem(w, r, http.StatusForbidden, detail)
}

// WriteNotFound writes a 404 Not Found problem
func WriteNotFound(w http.ResponseWriter, r *http.Request, detail string) error {
	if detail == "" {
		detail = "Resource not found."
	}
	return WriteProblem(w, r, http.StatusNotFound, detail)
}

// WriteConflict writes a 409 Conflict problem
func WriteConflict(w http.ResponseWriter, r *http.Request, detail string) error {
	return WriteProblem(w, r, http.StatusConflict, detail)
}

// WriteServiceUnavailable writes a 503 problem
func WriteServiceUnavailable(w http.ResponseWriter, r *http.Request, detail string) error {
	return WriteProblem(w, r, http.StatusServiceUnavailable, detail)
}

// WriteInternalServerError writes a 500 problem without leaking internals
func WriteInternalServerError(w http.ResponseWriter, r *http.Request, detail string) error {
	if detail == "" {
		detail = "An unexpected error occurred."
	}
	return WriteProblem(w, r, http.StatusInternalServerError, detail)
}

func writeProblem(w http.ResponseWriter, problem Problem) error {
	w.Header().Set("Content-Type", ProblemContentType)
	w.WriteHeader(problem.Status)
	return json.NewEncoder(w).Encode(problem)
}

// instance uses only the path so query strings never leak into error bodies
func instance(r *http.Request) string {
	if r == nil || r.URL == nil {
		return ""
	}
	return r.URL.Path
}
