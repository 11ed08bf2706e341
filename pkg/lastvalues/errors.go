package lastvalues

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Source when no snapshot exists for a city.
// Lookups treat it as "nothing cached yet" and fall back to 0.
var ErrNotFound = errors.New("no cached snapshot")

// DataFormatError reports a cache document that could not be decoded, or a
// matching record whose total is not an integer.
type DataFormatError struct {
	City string
	Err  error
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("malformed cache for city %q: %v", e.City, e.Err)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// IOError reports a failure to read a cache that does exist.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("reading cache %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
