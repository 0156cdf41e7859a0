package catalog

import "errors"

var (
	ErrNotFound   = errors.New("listing not found")
	ErrForbidden  = errors.New("not the listing provider")
	ErrValidation = errors.New("validation error")
)
