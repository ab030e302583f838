package catalog

import (
	"errors"
	"fmt"
)

// ErrNoMeals is returned by Random when the catalog answered without a record.
var ErrNoMeals = errors.New("catalog returned no meals")

// HTTPStatusError reports a non-2xx catalog response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "HTTP status error"
	}
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}
