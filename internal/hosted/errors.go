package hosted

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var ErrNotFound error = errors.New("row not found")

// APIError is a non-2xx answer from the hosted service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hosted backend returned %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the hosted service rejected the session.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// errorBody covers the shapes used by the auth and rest endpoints.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func parseAPIError(status int, body []byte) *APIError {
	var eb errorBody
	msg := ""
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, m := range []string{eb.Msg, eb.Message, eb.ErrorDescription, eb.Error} {
			if m != "" {
				msg = m
				break
			}
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
