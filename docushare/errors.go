package docushare

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is returned by any resource operation attempted before
// a successful Login.
var ErrNotLoggedIn = errors.New("not logged in yet, login first")

// ParseError reports that a DocuShare page did not have the structure
// this library expects, which usually means the site's markup changed.
// Retrying will not help.
type ParseError struct {
	// URL of the page that failed to parse, when known.
	URL string
	// Element names the markup the parser was looking for.
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse DocuShare page: missing %s", e.Element)
	if e.URL != "" {
		msg += fmt.Sprintf(" (url: %s)", e.URL)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SystemError is an error page generated by the DocuShare site itself,
// carrying the vendor's error code and message. These pages come back
// with HTTP 200.
type SystemError struct {
	Code     string
	Message  string
	Username string
	URL      string
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("DocuShare system error (code: %s, message: %s, username: %s, url: %s)",
		e.Code, e.Message, e.Username, e.URL)
}

// NotAuthorizedError reports the site's "Not Authorized" page.
type NotAuthorizedError struct {
	URL      string
	Username string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("%q is not authorized to access %s", e.Username, e.URL)
}

// NotFoundError reports the site's "Not Found" page. DocuShare returns
// these with HTTP 200, so this is detected from the page content, not
// the status code.
type NotFoundError struct {
	URL      string
	Username string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist (username: %s)", e.URL, e.Username)
}

// LoginError reports that the credential exchange never produced an
// authenticated session, after all retries were spent.
type LoginError struct {
	URL string
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("failed to login at %s", e.URL)
}

// TransportError wraps an HTTP-level failure: a connection error or a
// non-2xx status that no other error in the taxonomy explains.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
