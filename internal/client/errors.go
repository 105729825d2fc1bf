package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// TransportError is a network failure: the request got no API response
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a response with success=false or an error status
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	flat := FlattenErrors(e.Fields)
	switch {
	case e.Message != "" && flat != "":
		return fmt.Sprintf("%s: %s", e.Message, flat)
	case flat != "":
		return flat
	case e.Message != "":
		return e.Message
	default:
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
}

// FlattenErrors joins field errors as "field: message" in field order
func FlattenErrors(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fields[k]))
	}
	return strings.Join(parts, "; ")
}

// StatusOf returns the HTTP status of an *APIError, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsNotFound reports a 404 response
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsConflict reports a 409 response, e.g. toggling saved progress
func IsConflict(err error) bool {
	return StatusOf(err) == http.StatusConflict
}

// IsPartial reports a checklist saved without its status transition
func IsPartial(err error) bool {
	return StatusOf(err) == http.StatusMultiStatus
}
