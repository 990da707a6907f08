package utils

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// Page is a validated limit/offset pair
type Page struct {
	Limit  int
	Offset int
}

// ListResponse is the paginated list envelope
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewListResponse builds a list envelope, never encoding items as null
func NewListResponse[T any](items []T, total int, page Page) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Items:  items,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	}
}

// ParsePagination reads limit and offset from the query string.
// limit must be within [1, 500] (default 50) and offset must be >= 0 (default 0).
func ParsePagination(r *http.Request) (Page, error) {
	query := r.URL.Query()
	page := Page{Limit: DefaultPageLimit}
	var fields []FieldError

	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields = append(fields, intParsingError("limit"))
		case limit < 1:
			fields = append(fields, FieldError{Loc: []string{"query", "limit"}, Msg: "Input should be greater than or equal to 1", Type: "greater_than_equal"})
		case limit > MaxPageLimit:
			fields = append(fields, FieldError{Loc: []string{"query", "limit"}, Msg: "Input should be less than or equal to 500", Type: "less_than_equal"})
		default:
			page.Limit = limit
		}
	}

	if raw := strings.TrimSpace(query.Get("offset")); raw != "" {
		offset, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fields = append(fields, intParsingError("offset"))
		case offset < 0:
			fields = append(fields, FieldError{Loc: []string{"query", "offset"}, Msg: "Input should be greater than or equal to 0", Type: "greater_than_equal"})
		default:
			page.Offset = offset
		}
	}

	if len(fields) > 0 {
		return Page{}, NewFieldValidationError(fields...)
	}
	return page, nil
}

// ParseUUIDQuery parses an optional UUID query parameter
func ParseUUIDQuery(r *http.Request, name string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := ParseUUIDParam(name, raw)
	if err != nil {
		return nil, NewFieldValidationError(FieldError{
			Loc:  []string{"query", name},
			Msg:  "Input should be a valid UUID",
			Type: "uuid_parsing",
		})
	}
	return &id, nil
}

// OptionalQuery returns a trimmed query value or nil when absent or blank
func OptionalQuery(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

func intParsingError(name string) FieldError {
	return FieldError{
		Loc:  []string{"query", name},
		Msg:  "Input should be a valid integer, unable to parse string as an integer",
		Type: "int_parsing",
	}
}
