/*
Copyright © 2018 the Synaer authors.
This file is part of Synaer.

Synaer is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Synaer is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Synaer.  If not, see <http://www.gnu.org/licenses/>.
*/

package synaer

import (
	"errors"
	"fmt"
)

// Error kinds returned by this package. Every error returned from an
// exported function wraps exactly one of these, so callers can use
// errors.Is to decide how to report it. None of them are retryable.
var (
	// ErrConfiguration indicates an unsupported sensor, channel, index or
	// model, or a component used before its prerequisites were loaded.
	ErrConfiguration = errors.New("configuration error")

	// ErrLoad indicates that a table file is missing or unreadable, or
	// that its contents do not match the expected dimensions.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a malformed numeric token in an ASCII table.
	ErrParse = errors.New("parse error")

	// ErrInvariant indicates that an internal search failed in a way that
	// valid input cannot produce.
	ErrInvariant = errors.New("algorithmic invariant violation")

	// ErrInvalidQuery indicates a lookup point with the wrong number of
	// dimensions.
	ErrInvalidQuery = errors.New("invalid query")
)

// ParseError holds the location of a malformed token in an ASCII table.
type ParseError struct {
	File  string
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("synaer: %s line %d: invalid number %q: %v", e.File, e.Line, e.Token, e.Err)
}

// Unwrap makes ParseError match ErrParse.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }
