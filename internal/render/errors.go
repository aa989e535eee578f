package render

import (
	"errors"
	"fmt"
)

// ErrUnsafePath is returned for a page path that would leave the output
// directory, such as one built from a slug containing ".." or a separator.
var ErrUnsafePath = errors.New("unsafe output path")

// RenderError reports a page that failed to render or write.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
