package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnavailable means the backend could not be reached (or did not
	// answer within the configured timeout).
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized is a 401: missing, invalid or expired token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is a 403: the token is valid but lacks permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is a 404.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest is a 400, usually with field errors attached.
	ErrBadRequest = errors.New("bad request")
)

// ResponseError is a non-2xx answer from the backend. It matches the
// sentinel for its status code with errors.Is.
type ResponseError struct {
	StatusCode int
	// Message is the server's message, detail or non_field_errors text.
	Message string
	// Fields holds field-level validation errors keyed by field name.
	Fields map[string][]string
	Body   []byte
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// FieldMessages renders Fields as "field: msg msg" lines sorted by field name.
func (e *ResponseError) FieldMessages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], " ")))
	}
	return lines
}

func newResponseError(status int, body []byte) *ResponseError {
	e := &ResponseError{StatusCode: status, Body: body}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return e
	}

	for key, raw := range doc {
		var s string
		if json.Unmarshal(raw, &s) == nil {
			if key == "message" || key == "detail" {
				if e.Message == "" || key == "message" {
					e.Message = s
				}
				continue
			}
			e.addField(key, s)
			continue
		}
		var list []string
		if json.Unmarshal(raw, &list) == nil {
			e.addField(key, list...)
		}
	}

	if e.Message == "" {
		if nfe := e.Fields["non_field_errors"]; len(nfe) > 0 {
			e.Message = strings.Join(nfe, " ")
		}
	}
	return e
}

func (e *ResponseError) addField(key string, msgs ...string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[key] = append(e.Fields[key], msgs...)
}

// ServerMessage returns the backend's message carried by err, if any.
func ServerMessage(err error) (string, bool) {
	var re *ResponseError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message, true
	}
	return "", false
}
