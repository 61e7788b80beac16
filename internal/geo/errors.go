package geo

import "errors"

// Error kinds shared by the codecs. Typed errors in the codec packages wrap
// one of these, so callers match with errors.Is.
var (
	ErrMalformedLine       = errors.New("malformed line")
	ErrMalformedDocument   = errors.New("malformed document")
	ErrMalformedPosition   = errors.New("malformed position")
	ErrMissingIdentifier   = errors.New("missing identifier")
	ErrUnsupportedGeometry = errors.New("unsupported geometry")
	ErrOutOfRange          = errors.New("coordinate out of range")
)
