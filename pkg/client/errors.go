package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/tteodorogustavo/athlos/pkg/api"
)

// Error is a non-2xx response from the backend. Message carries the
// backend's own text so front-ends can show it verbatim.
type Error struct {
	StatusCode int
	Message    string
	Code       string
	Body       []byte
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("athlos: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

func newError(status int, body []byte) *Error {
	e := &Error{StatusCode: status, Body: body}

	var payload api.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && (payload.Detail != "" || payload.Error != "") {
		e.Code = payload.Code
		e.Message = payload.Detail
		if e.Message == "" {
			e.Message = payload.Error
		}
		return e
	}

	// field validation errors come back as {"field": ["msg"]}
	var fields map[string][]string
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+strings.Join(fields[k], " "))
		}
		e.Message = strings.Join(parts, "; ")
	}
	return e
}
