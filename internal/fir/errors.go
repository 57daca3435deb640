// SPDX-License-Identifier: MIT
package fir

import "errors"

// Errors returned by this package. Callers match them with errors.Is; the
// returned error text carries the specific constraint or path involved.
var (
	// ErrInvalidParameter is returned when a filter cannot be designed from
	// the requested parameters.
	ErrInvalidParameter = errors.New("invalid filter parameter")

	// ErrDegenerateResponse is returned when a frequency response has no
	// measurable energy (peak magnitude <= 0).
	ErrDegenerateResponse = errors.New("degenerate frequency response")

	// ErrIO is returned when an export destination cannot be written.
	ErrIO = errors.New("filter export failed")
)
