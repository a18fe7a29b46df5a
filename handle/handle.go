// Package handle defines the typed identifiers DocuShare assigns to the
// objects it stores, and the parent/child tree built from them.
package handle

import (
	"fmt"
	"strconv"
	"strings"
)

// HandleType is the kind of object a handle refers to.
type HandleType string

const (
	Collection HandleType = "Collection"
	Document   HandleType = "Document"
	Version    HandleType = "Version"
)

// digits is the fixed identifier width of the type. DocuShare zero-pads
// handle numbers to this width, e.g. Document-00042, Version-000042.
func (t HandleType) digits() int {
	switch t {
	case Collection, Document:
		return 5
	case Version:
		return 6
	}
	return 0
}

func (t HandleType) maxNumber() int {
	max := 1
	for i := 0; i < t.digits(); i++ {
		max *= 10
	}
	return max - 1
}

func (t HandleType) String() string {
	return string(t)
}

// Handle identifies one object on a DocuShare site, e.g. Collection-11000,
// Document-20202 or Version-123456. The zero value is not a valid handle.
//
// Validation is strict: the number must fit the type's fixed identifier
// width (5 digits for Collection and Document, 6 for Version) and Parse
// only accepts identifiers with exactly that many digits.
type Handle struct {
	Type   HandleType
	Number int
}

// New returns the handle of the given type and number. It fails when the
// type is unknown, the number is negative or the number does not fit the
// type's identifier width.
func New(t HandleType, number int) (Handle, error) {
	if t.digits() == 0 {
		return Handle{}, fmt.Errorf("unknown handle type %q", string(t))
	}
	if number < 0 {
		return Handle{}, fmt.Errorf("handle number must not be negative, got %d", number)
	}
	if number > t.maxNumber() {
		return Handle{}, fmt.Errorf("handle number %d exceeds the %d-digit capacity of %s", number, t.digits(), t)
	}
	return Handle{Type: t, Number: number}, nil
}

// Identifier returns the canonical zero-padded form, e.g. "Document-00042".
func (h Handle) Identifier() string {
	return fmt.Sprintf("%s-%0*d", h.Type, h.Type.digits(), h.Number)
}

func (h Handle) String() string {
	return h.Identifier()
}

// InvalidHandleError reports a string that is not a DocuShare handle.
type InvalidHandleError struct {
	Value string
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("%q is not a valid DocuShare handle", e.Value)
}

// Parse parses an identifier like "Document-20202" into a Handle. The
// digit run must exactly match the type's identifier width.
func Parse(s string) (Handle, error) {
	for _, t := range []HandleType{Collection, Document, Version} {
		rest, ok := strings.CutPrefix(s, string(t)+"-")
		if !ok {
			continue
		}
		if len(rest) != t.digits() || !isDigits(rest) {
			return Handle{}, &InvalidHandleError{Value: s}
		}
		number, err := strconv.Atoi(rest)
		if err != nil {
			return Handle{}, &InvalidHandleError{Value: s}
		}
		return Handle{Type: t, Number: number}, nil
	}
	return Handle{}, &InvalidHandleError{Value: s}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Coerce normalizes a Handle or identifier string to a Handle. Any other
// dynamic type is rejected with a plain type error, not an
// InvalidHandleError.
func Coerce(v any) (Handle, error) {
	switch v := v.(type) {
	case Handle:
		return v, nil
	case string:
		return Parse(v)
	default:
		return Handle{}, fmt.Errorf("handle must be a handle.Handle or string, got %T", v)
	}
}
