package docushare

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"go.opentelemetry.io/otel/codes"

	"godocushare/handle"
)

// Load-bearing protocol constants. The form field names must match what
// DocuShare's ApplyLogin endpoint expects, and the cookie names are how
// login success is detected.
const (
	sessionCookie       = "JSESSIONID"
	authenticatedCookie = "AmberUser"
)

// PasswordSource selects how Login obtains a password when none was
// given explicitly.
type PasswordSource int

const (
	// PasswordStored tries the secret store first and prompts if no
	// password is stored. A password that authenticates is written back
	// to the store; one that fails is purged before the next attempt.
	PasswordStored PasswordSource = iota
	// PasswordAsk always prompts.
	PasswordAsk
)

// LoginOptions configures one Login call. The zero value prompts for
// both credentials, consults the secret store, and allows three
// attempts against the "DocuShare" domain.
type LoginOptions struct {
	// Username to authenticate as. Empty means prompt.
	Username string
	// Password, used as-is when non-empty. An explicit password is
	// never retried: there is no credential to vary.
	Password string
	// Source of the password when Password is empty.
	Source PasswordSource
	// RetryCount is how many attempts the user gets. Defaults to 3.
	RetryCount int
	// Domain is DocuShare's login domain, normally "DocuShare".
	Domain string
}

// Login authenticates this session. It fetches the login page, runs the
// site's challenge script over the login token and the password, POSTs
// the credential form, and checks that the site granted the
// authenticated-identity cookie. Any cookies and username from an
// earlier login are cleared first.
func (c *Client) Login(ctx context.Context, opts LoginOptions) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	if opts.RetryCount == 0 {
		opts.RetryCount = 3
	}
	if opts.RetryCount < 1 {
		return fmt.Errorf("retry count must be positive, got %d", opts.RetryCount)
	}
	if opts.Domain == "" {
		opts.Domain = "DocuShare"
	}

	username := opts.Username
	if username == "" {
		entered, err := c.prompter.Username(c.baseURL)
		if err != nil {
			return err
		}
		username = entered
	}

	loginURL, err := c.URL(ResourceLogin, handle.Handle{})
	if err != nil {
		return err
	}

	for remaining := opts.RetryCount; ; remaining-- {
		if err := c.resetSession(); err != nil {
			return err
		}

		password, err := c.resolvePassword(username, loginURL, opts)
		if err != nil {
			return err
		}

		if err := c.attemptLogin(ctx, username, password, opts.Domain); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "login attempt failed")
			return err
		}

		if c.IsLoggedIn() {
			c.username = username
			if opts.Password == "" && opts.Source == PasswordStored {
				c.store.Set(c.baseURL, username, password)
			}
			slog.InfoContext(ctx, "logged in", "username", username, "url", c.baseURL)
			return nil
		}

		if opts.Password != "" || remaining <= 1 {
			span.SetStatus(codes.Error, "login failed")
			return &LoginError{URL: loginURL}
		}
		slog.WarnContext(ctx, "failed to login, retrying", "url", loginURL, "remaining", remaining-1)
		if opts.Source == PasswordStored {
			// The stored password is proven wrong, prompt next round.
			c.store.Delete(c.baseURL, username)
		}
	}
}

func (c *Client) resolvePassword(username, loginURL string, opts LoginOptions) (string, error) {
	if opts.Password != "" {
		return opts.Password, nil
	}
	if opts.Source == PasswordStored {
		if password, ok := c.store.Get(c.baseURL, username); ok {
			return password, nil
		}
	}
	return c.prompter.Password(username, loginURL)
}

// attemptLogin runs one full credential exchange. Returning nil only
// means no step failed outright; whether authentication succeeded is
// decided by the cookie check afterwards.
func (c *Client) attemptLogin(ctx context.Context, username, password, domain string) error {
	loginURL, err := c.URL(ResourceLogin, handle.Handle{})
	if err != nil {
		return err
	}

	res, err := c.HTTPGet(ctx, loginURL)
	if err != nil {
		return err
	}
	loginToken, challengeSrc, err := ParseLoginPage(res.Body())
	if err != nil {
		return attachURL(err, loginURL)
	}
	if !c.hasCookie(sessionCookie) {
		slog.WarnContext(ctx, "session cookie missing after login page", "cookie", sessionCookie)
	}

	challengeURL, err := resolveRelative(loginURL, challengeSrc)
	if err != nil {
		return attachURL(&ParseError{Element: "a resolvable challenge script URL", Err: err}, loginURL)
	}
	scriptRes, err := c.HTTPGet(ctx, challengeURL)
	if err != nil {
		return err
	}

	response, err := c.challenge.Obscure(ctx, password, loginToken, string(scriptRes.Body()))
	if err != nil {
		return fmt.Errorf("challenge-response failed: %w", err)
	}

	applyURL, err := c.URL(ResourceApplyLogin, handle.Handle{})
	if err != nil {
		return err
	}
	_, err = c.HTTPPost(ctx, applyURL, map[string]string{
		"response":    response,
		"login_token": loginToken,
		"bookmark":    "",
		"username":    username,
		"password":    "",
		"domain":      domain,
		"Login":       "Login",
	})
	if err != nil {
		return err
	}

	slog.DebugContext(ctx, "credentials posted", "cookies", c.cookieNames())
	return nil
}

func resolveRelative(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
