package docushare

import (
	"fmt"

	"godocushare/handle"
)

// Resource is one of the dsweb endpoints this library talks to.
type Resource int

const (
	// ResourceLogin is the login page carrying the token and challenge
	// script. No handle.
	ResourceLogin Resource = iota
	// ResourceApplyLogin receives the credential POST. No handle.
	ResourceApplyLogin
	// ResourceServices is the property page of any object.
	ResourceServices
	// ResourceHistory is the version history of a Document.
	ResourceHistory
	// ResourceGet downloads the file behind a Document or Version.
	ResourceGet
	// ResourceView is the listing page of a Collection.
	ResourceView
)

func (r Resource) String() string {
	switch r {
	case ResourceLogin:
		return "Login"
	case ResourceApplyLogin:
		return "ApplyLogin"
	case ResourceServices:
		return "Services"
	case ResourceHistory:
		return "History"
	case ResourceGet:
		return "Get"
	case ResourceView:
		return "View"
	}
	return fmt.Sprintf("Resource(%d)", int(r))
}

// URL builds the canonical URL for a resource on this site. Login and
// ApplyLogin take no handle; pass the zero Handle. Every other resource
// checks that the handle kind fits the endpoint and fails otherwise
// rather than producing a URL the server would reject.
func (c *Client) URL(res Resource, hdl handle.Handle) (string, error) {
	dsweb := c.baseURL + "dsweb/"

	requireType := func(allowed ...handle.HandleType) error {
		for _, t := range allowed {
			if hdl.Type == t {
				return nil
			}
		}
		return fmt.Errorf("resource %s requires a %v handle, got %q", res, allowed, string(hdl.Type))
	}

	switch res {
	case ResourceLogin:
		return dsweb + "Login", nil
	case ResourceApplyLogin:
		return dsweb + "ApplyLogin", nil
	case ResourceServices:
		if err := requireType(handle.Collection, handle.Document, handle.Version); err != nil {
			return "", err
		}
		return dsweb + "Services/" + hdl.Identifier(), nil
	case ResourceHistory:
		if err := requireType(handle.Document); err != nil {
			return "", err
		}
		return dsweb + "ServicesLib/" + hdl.Identifier() + "/History", nil
	case ResourceGet:
		if err := requireType(handle.Document, handle.Version); err != nil {
			return "", err
		}
		return dsweb + "Get/" + hdl.Identifier(), nil
	case ResourceView:
		if err := requireType(handle.Collection); err != nil {
			return "", err
		}
		return dsweb + "View/" + hdl.Identifier(), nil
	}
	return "", fmt.Errorf("unknown resource %d", int(res))
}
