package converter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrFileNotFound = errors.New("credentials file not found")

// ParseError is returned when the input is not JSON, or is JSON of the wrong shape.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// MissingFieldError lists the required fields absent from the web object.
type MissingFieldError struct {
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("web credentials missing required field(s): %s", strings.Join(e.Fields, ", "))
}
