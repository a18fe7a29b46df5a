// Package docushare is a client for Xerox DocuShare sites. DocuShare
// exposes no machine-readable API, so everything here works by driving
// the same server-rendered HTML pages a browser would see: a
// challenge-response login against the dsweb endpoints, then scraping
// property, history and collection pages into typed metadata.
package docushare

import (
	"context"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"godocushare/docushare/challenge"
	"godocushare/handle"
	"godocushare/lib/restyutil"
	"godocushare/secrets"
)

var tracer = otel.Tracer("docushare")

// Client is one authenticated session against a DocuShare site. It owns
// the cookie jar and a per-session metadata cache keyed by handle; cached
// entries live until Close and are never refreshed.
//
// A Client is not safe for concurrent use. Use one Client per goroutine
// or serialize access externally.
type Client struct {
	baseURL string // normalized to end with "/"
	http    *resty.Client

	challenge challenge.Runner
	store     secrets.Store
	prompter  Prompter
	progress  bool

	username string
	objects  map[handle.Handle]Object
}

// Options configures a Client. Only BaseURL is required.
type Options struct {
	// BaseURL of the site, e.g. https://your.domain/docushare/.
	BaseURL string
	// Timeout for each HTTP request. Defaults to 30 seconds.
	Timeout time.Duration
	// Challenge evaluates the site's challenge script during login.
	// Defaults to the embedded JavaScript runtime.
	Challenge challenge.Runner
	// Secrets stores passwords between sessions for the stored-password
	// login flow. Defaults to the OS credential vault.
	Secrets secrets.Store
	// Prompter asks for credentials that were not supplied. Defaults to
	// the controlling terminal.
	Prompter Prompter
	// Progress enables a progress bar on large downloads.
	Progress bool
}

// New builds a Client for the site at opts.BaseURL.
func New(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", opts.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must start with http:// or https://", opts.BaseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", opts.BaseURL)
	}
	baseURL := opts.BaseURL
	if !strings.HasSuffix(parsed.Path, "/") {
		baseURL += "/"
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	rc := resty.New()
	rc.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	rc.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	rc.SetTimeout(timeout)
	restyutil.Instrument(rc, tracer)

	c := &Client{
		baseURL:   baseURL,
		http:      rc,
		challenge: opts.Challenge,
		store:     opts.Secrets,
		prompter:  opts.Prompter,
		progress:  opts.Progress,
		objects:   map[handle.Handle]Object{},
	}
	if c.challenge == nil {
		c.challenge = challenge.JSRunner{}
	}
	if c.store == nil {
		c.store = secrets.Keyring{}
	}
	if c.prompter == nil {
		c.prompter = TerminalPrompter{}
	}
	if err := c.resetSession(); err != nil {
		return nil, err
	}
	return c, nil
}

// BaseURL returns the normalized site URL, always ending with "/".
func (c *Client) BaseURL() string {
	return c.baseURL
}

// resetSession drops all cookies and the recorded username.
func (c *Client) resetSession() error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	c.http.SetCookieJar(jar)
	c.username = ""
	return nil
}

func (c *Client) cookieNames() []string {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return nil
	}
	var names []string
	for _, cookie := range c.http.GetClient().Jar.Cookies(parsed) {
		names = append(names, cookie.Name)
	}
	return names
}

func (c *Client) hasCookie(name string) bool {
	for _, n := range c.cookieNames() {
		if n == name {
			return true
		}
	}
	return false
}

// IsLoggedIn reports whether this session holds DocuShare's
// authenticated-identity cookie.
func (c *Client) IsLoggedIn() bool {
	return c.hasCookie(authenticatedCookie)
}

// Username returns the logged-in username, or "" before login.
func (c *Client) Username() string {
	return c.username
}

// Close drops the session cookies, the recorded username and the
// metadata cache. The Client can be logged in again afterwards.
func (c *Client) Close() error {
	c.objects = map[handle.Handle]Object{}
	return c.resetSession()
}

func (c *Client) checkLoggedIn() error {
	if !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}
	return nil
}

// HTTPGet fetches a URL within the current session and converts
// DocuShare's HTML-borne error pages into typed errors. It is exposed
// for resources this library has no structured support for (Wiki,
// Calendar).
func (c *Client) HTTPGet(ctx context.Context, u string) (*resty.Response, error) {
	slog.InfoContext(ctx, "HTTP GET", "url", u)
	res, err := c.http.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, &TransportError{URL: u, StatusCode: res.StatusCode()}
	}

	contentType := res.Header().Get("Content-Type")
	if code, message, ok := ParseSystemErrorPage(res.Body(), contentType); ok && code != "" {
		return nil, &SystemError{Code: code, Message: message, Username: c.username, URL: u}
	}
	if IsNotAuthorizedPage(res.Body(), contentType) {
		return nil, &NotAuthorizedError{URL: u, Username: c.username}
	}
	return res, nil
}

// HTTPPost sends a form POST within the current session.
func (c *Client) HTTPPost(ctx context.Context, u string, form map[string]string) (*resty.Response, error) {
	slog.InfoContext(ctx, "HTTP POST", "url", u)
	res, err := c.http.R().SetContext(ctx).SetFormData(form).Post(u)
	if err != nil {
		return nil, &TransportError{URL: u, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, &TransportError{URL: u, StatusCode: res.StatusCode()}
	}
	return res, nil
}

// Object returns the cached metadata object for a handle, loading it
// from the site on first access. v may be a handle.Handle or an
// identifier string. The concrete type is *DocumentObject,
// *VersionObject or *CollectionObject depending on the handle kind.
func (c *Client) Object(ctx context.Context, v any) (Object, error) {
	ctx, span := tracer.Start(ctx, "client:Object")
	defer span.End()

	if err := c.checkLoggedIn(); err != nil {
		return nil, err
	}
	hdl, err := handle.Coerce(v)
	if err != nil {
		return nil, err
	}
	if obj, ok := c.objects[hdl]; ok {
		span.SetStatus(codes.Ok, "cache hit")
		return obj, nil
	}

	obj, err := c.loadObject(ctx, hdl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to load object")
		return nil, err
	}
	c.objects[hdl] = obj
	return obj, nil
}

func (c *Client) loadObject(ctx context.Context, hdl handle.Handle) (Object, error) {
	props, propsURL, err := c.loadProperties(ctx, hdl)
	if err != nil {
		return nil, err
	}

	title, ok := props.Get("Title")
	if !ok {
		return nil, &ParseError{URL: propsURL, Element: `property "Title"`}
	}

	switch hdl.Type {
	case handle.Document:
		filename, ok := props.Filename()
		if !ok {
			return nil, &ParseError{URL: propsURL, Element: "file name derived from the Title link"}
		}
		controlNumber, _ := props.Get("Document Control Number")
		versions, err := c.loadHistory(ctx, hdl)
		if err != nil {
			return nil, err
		}
		return &DocumentObject{
			fileObject:            fileObject{ds: c, hdl: hdl, title: title, filename: filename},
			documentControlNumber: controlNumber,
			versionHandles:        versions,
		}, nil

	case handle.Version:
		filename, ok := props.Filename()
		if !ok {
			return nil, &ParseError{URL: propsURL, Element: "file name derived from the Title link"}
		}
		versionNumber, ok := props.VersionNumber()
		if !ok {
			return nil, &ParseError{URL: propsURL, Element: `property "Version Number"`}
		}
		return &VersionObject{
			fileObject:    fileObject{ds: c, hdl: hdl, title: title, filename: filename},
			versionNumber: versionNumber,
		}, nil

	case handle.Collection:
		children, err := c.loadCollectionChildren(ctx, hdl)
		if err != nil {
			return nil, err
		}
		return &CollectionObject{ds: c, hdl: hdl, title: title, objectHandles: children}, nil
	}
	return nil, fmt.Errorf("unknown handle type %q", string(hdl.Type))
}

func (c *Client) loadProperties(ctx context.Context, hdl handle.Handle) (*Properties, string, error) {
	u, err := c.URL(ResourceServices, hdl)
	if err != nil {
		return nil, "", err
	}
	res, err := c.HTTPGet(ctx, u)
	if err != nil {
		return nil, "", err
	}
	props, err := ParsePropertyPage(res.Body(), hdl.Type)
	if err != nil {
		return nil, "", attachURL(err, u)
	}
	return props, u, nil
}

func (c *Client) loadHistory(ctx context.Context, hdl handle.Handle) ([]handle.Handle, error) {
	u, err := c.URL(ResourceHistory, hdl)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTPGet(ctx, u)
	if err != nil {
		return nil, err
	}
	versions, err := ParseHistoryPage(res.Body())
	if err != nil {
		return nil, attachURL(err, u)
	}
	return versions, nil
}

func (c *Client) loadCollectionChildren(ctx context.Context, hdl handle.Handle) ([]handle.Handle, error) {
	u, err := c.URL(ResourceView, hdl)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTPGet(ctx, u)
	if err != nil {
		return nil, err
	}
	listed, err := ParseCollectionPage(res.Body())
	if err != nil {
		return nil, attachURL(err, u)
	}
	// The view page links the collection itself (breadcrumb, header).
	children := listed[:0:0]
	for _, child := range listed {
		if child != hdl {
			children = append(children, child)
		}
	}
	return children, nil
}

// attachURL fills in the URL context on a ParseError raised below the
// HTTP boundary.
func attachURL(err error, u string) error {
	if parseErr, ok := err.(*ParseError); ok && parseErr.URL == "" {
		parseErr.URL = u
	}
	return err
}
