package recognize

import (
	"errors"
	"fmt"
)

// ErrEmptyImage is returned before any external call when the payload is empty.
var ErrEmptyImage = errors.New("empty image payload")

// ErrNoRecognizedContent is returned when the backend responded successfully
// but produced no usable text or pages.
var ErrNoRecognizedContent = errors.New("recognition response contains no usable content")

// RateLimitError is a transient capacity condition worth retrying.
type RateLimitError struct {
	StatusCode int
	Message    string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRateLimited checks if an error is a transient rate-limit condition.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
