// Package errors defines sentinel errors for the product domain.
package errors

import "errors"

// ErrProductNotFound is returned when no product exists with the requested ID.
var ErrProductNotFound = errors.New("product not found")
