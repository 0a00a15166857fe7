package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized marks a 401 from the backend. The HTTP layer translates
// it into a redirect to /login.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotFound marks a 404 for a single resource.
var ErrNotFound = errors.New("not found")

// Error is a decoded backend error response.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return e.Detail
}

// Is lets callers match the sentinel errors through errors.Is.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// validationError is one entry of a Pydantic-style validation error array.
type validationError struct {
	Loc  []json.RawMessage `json:"loc"`
	Msg  string            `json:"msg"`
	Type string            `json:"type"`
}

// decodeError normalizes an error response body. The backend's `detail`
// field is either a plain string or a validation-error array; both collapse
// into a single displayable message. Anything unparseable falls back to the
// HTTP status text.
func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(body) == 0 {
		apiErr.Detail = resp.Status
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Detail = resp.Status
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	var validation []validationError
	if err := json.Unmarshal(envelope.Detail, &validation); err == nil {
		msgs := make([]string, 0, len(validation))
		for _, v := range validation {
			field := lastLoc(v.Loc)
			if field != "" {
				msgs = append(msgs, field+": "+v.Msg)
			} else {
				msgs = append(msgs, v.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
		return apiErr
	}

	apiErr.Detail = resp.Status
	return apiErr
}

// lastLoc extracts the innermost field name from a validation location path
// like ["body", "transactions", 0, "amount"].
func lastLoc(loc []json.RawMessage) string {
	for i := len(loc) - 1; i >= 0; i-- {
		var s string
		if err := json.Unmarshal(loc[i], &s); err == nil && s != "body" {
			return s
		}
	}
	return ""
}
