// Package errors provides shared sentinel errors used throughout vcon-info.
package errors

import stderrors "errors"

var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = stderrors.New("not found")

	// ErrInvalidInput indicates the input is invalid.
	ErrInvalidInput = stderrors.New("invalid input")

	// ErrUnsupported indicates an algorithm or format is not supported.
	ErrUnsupported = stderrors.New("unsupported")

	// ErrNoKey indicates a required key was not supplied.
	ErrNoKey = stderrors.New("no key material")
)
