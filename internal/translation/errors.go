package translation

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse is returned when a backend answers with blank text
var ErrEmptyResponse = errors.New("empty translation response")

// TranslationError reports a translation that failed after all attempts
type TranslationError struct {
	Attempts int
	Err      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}
