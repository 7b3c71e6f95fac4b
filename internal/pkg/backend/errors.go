package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx answer from the backend.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend error [%d] %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend error [%d]: %s", e.StatusCode, e.Detail)
}

// IsNotFound checks if the backend answered 404
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// errorBody covers the error shapes the backend is known to return:
// {"detail": "..."}, {"message": "..."} and {"error": {"message": "..."}}.
type errorBody struct {
	Detail  any    `json:"detail"`
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newError(status int, raw []byte) *Error {
	return &Error{StatusCode: status, Detail: extractDetail(raw)}
}

func extractDetail(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch d := body.Detail.(type) {
	case string:
		if strings.TrimSpace(d) != "" {
			return d
		}
	case []any:
		parts := make([]string, 0, len(d))
		for _, p := range d {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	if body.Error != nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return body.Message
}

// DetailOf returns the human readable detail carried by a backend error
// anywhere in err's chain, or "".
func DetailOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Detail
	}
	return ""
}
