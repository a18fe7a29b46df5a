package docushare

import (
	"bytes"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"godocushare/handle"
	"godocushare/lib/htmlutil"
)

// The functions in this file are pure: they turn raw page bodies into
// typed results and never touch the network. DocuShare reports its own
// error conditions as HTML pages with HTTP 200, so the classifiers here
// are the only way to tell those pages apart from real content.

func isHTML(contentType string) bool {
	return strings.HasPrefix(contentType, "text/html")
}

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Element: "html document", Err: err}
	}
	return doc, nil
}

// IsNotFoundPage reports whether the body is DocuShare's "Not Found"
// page: an <h2> heading whose text contains "Not Found". Non-HTML
// responses are never classified.
func IsNotFoundPage(body []byte, contentType string) bool {
	return hasHeadingContaining(body, contentType, "h2", "Not Found")
}

// IsNotAuthorizedPage reports whether the body is DocuShare's "Not
// Authorized" page: an <h1> heading whose text contains "Not Authorized".
func IsNotAuthorizedPage(body []byte, contentType string) bool {
	return hasHeadingContaining(body, contentType, "h1", "Not Authorized")
}

func hasHeadingContaining(body []byte, contentType, tag, text string) bool {
	if !isHTML(contentType) {
		return false
	}
	doc, err := parseDocument(body)
	if err != nil {
		return false
	}
	found := false
	doc.Find(tag).EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if strings.Contains(strings.TrimSpace(h.Text()), text) {
			found = true
			return false
		}
		return true
	})
	return found
}

// ParseSystemErrorPage checks for DocuShare's system error page, which
// carries the vendor code and message in hidden form fields. A missing
// value attribute maps to an empty string, not a failure.
func ParseSystemErrorPage(body []byte, contentType string) (code, message string, ok bool) {
	if !isHTML(contentType) {
		return "", "", false
	}
	doc, err := parseDocument(body)
	if err != nil {
		return "", "", false
	}
	codeInput := doc.Find(`input[name="dserrorcode"]`)
	messageInput := doc.Find(`input[name="detail_message"]`)
	if codeInput.Length() == 0 || messageInput.Length() == 0 {
		return "", "", false
	}
	return codeInput.AttrOr("value", ""), messageInput.AttrOr("value", ""), true
}

var challengeScriptPattern = regexp.MustCompile(`challenge\.js`)

// ParseLoginPage extracts the login token and the relative URL of the
// challenge script from the login page.
func ParseLoginPage(body []byte) (loginToken, challengeSrc string, err error) {
	doc, err := parseDocument(body)
	if err != nil {
		return "", "", err
	}

	tokenInput := doc.Find(`input[name="login_token"]`)
	if tokenInput.Length() == 0 {
		return "", "", &ParseError{Element: `input "login_token"`}
	}
	loginToken = tokenInput.AttrOr("value", "")
	if loginToken == "" {
		return "", "", &ParseError{Element: `non-empty value of input "login_token"`}
	}

	doc.Find("script[src]").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		src := script.AttrOr("src", "")
		if challengeScriptPattern.MatchString(src) {
			challengeSrc = src
			return false
		}
		return true
	})
	if challengeSrc == "" {
		return "", "", &ParseError{Element: "script tag referencing challenge.js"}
	}

	return loginToken, challengeSrc, nil
}

// Properties is the field listing of one object's property page, in page
// order. The Handle and Version Number fields are parsed into typed
// values; everything else stays trimmed text.
type Properties struct {
	names  []string
	values map[string]string

	handle        handle.Handle
	hasHandle     bool
	versionNumber int
	hasVersion    bool
	filename      string
}

// Names returns the field names in the order they appear on the page.
func (p *Properties) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Get returns the trimmed text of a field.
func (p *Properties) Get(name string) (string, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Handle returns the parsed Handle field.
func (p *Properties) Handle() (handle.Handle, bool) {
	return p.handle, p.hasHandle
}

// VersionNumber returns the parsed Version Number field.
func (p *Properties) VersionNumber() (int, bool) {
	return p.versionNumber, p.hasVersion
}

// Filename returns the file name derived from the Title link of a
// Document or Version property page.
func (p *Properties) Filename() (string, bool) {
	return p.filename, p.filename != ""
}

// ParsePropertyPage parses a Services property page. For Document and
// Version pages the Title row also yields the file name, taken from the
// basename of the row's link target.
func ParsePropertyPage(body []byte, handleType handle.HandleType) (*Properties, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.propstable")
	if table.Length() == 0 {
		return nil, &ParseError{Element: "table.propstable"}
	}

	props := &Properties{values: map[string]string{}}
	var parseErr error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		name := strings.TrimSuffix(htmlutil.CleanText(cells.Eq(0).Text()), ":")
		value := htmlutil.CleanText(cells.Eq(1).Text())

		props.names = append(props.names, name)
		props.values[name] = value

		switch name {
		case "Handle":
			h, err := handle.Parse(value)
			if err != nil {
				parseErr = &ParseError{Element: `a valid handle in the "Handle" field`, Err: err}
				return false
			}
			props.handle = h
			props.hasHandle = true
		case "Version Number":
			n, err := strconv.Atoi(value)
			if err != nil {
				parseErr = &ParseError{Element: `an integer in the "Version Number" field`, Err: err}
				return false
			}
			props.versionNumber = n
			props.hasVersion = true
		}

		if name == "Title" && (handleType == handle.Document || handleType == handle.Version) {
			href := cells.Eq(1).Find("a").First().AttrOr("href", "")
			if href == "" {
				parseErr = &ParseError{Element: `a link in the "Title" field`}
				return false
			}
			fileURL, err := url.Parse(href)
			if err != nil {
				parseErr = &ParseError{Element: `a valid link in the "Title" field`, Err: err}
				return false
			}
			props.filename = path.Base(fileURL.Path)
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return props, nil
}

var versionHrefPattern = regexp.MustCompile(`/(Version-[0-9]+)/`)

// ParseHistoryPage parses a Document history page into the Version
// handles it lists, in page order. Only the column headed "#" is
// inspected; rows whose "#" cell carries no link are skipped, so a
// document with a single version can legitimately yield nothing.
func ParseHistoryPage(body []byte) ([]handle.Handle, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table.table_properties")
	if table.Length() == 0 {
		return nil, &ParseError{Element: "table.table_properties"}
	}

	versionColumn := -1
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		if htmlutil.CleanText(th.Text()) == "#" {
			versionColumn = i
		}
	})
	if versionColumn < 0 {
		return nil, &ParseError{Element: `history table column "#"`}
	}

	var versions []handle.Handle
	var parseErr error
	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() <= versionColumn {
			return true
		}
		href := cells.Eq(versionColumn).Find("a").First().AttrOr("href", "")
		if href == "" {
			return true
		}
		match := versionHrefPattern.FindStringSubmatch(href)
		if match == nil {
			// Single-version documents link a v_Document handle
			// here instead of a Version handle.
			return true
		}
		h, err := handle.Parse(match[1])
		if err != nil {
			parseErr = &ParseError{Element: "a valid Version handle in the history table", Err: err}
			return false
		}
		versions = append(versions, h)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return versions, nil
}

var objectHrefPattern = regexp.MustCompile(`/((?:Collection|Document)-[0-9]+)(?:[/?#]|$)`)

// ParseCollectionPage parses a Collection view page into the handles of
// the objects it lists, in page order and deduplicated. The page links
// each object several times (icon, title, properties), all through URLs
// carrying the object's handle.
func ParseCollectionPage(body []byte) ([]handle.Handle, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	seen := map[handle.Handle]bool{}
	var children []handle.Handle
	for _, a := range htmlutil.Anchors(doc.Find("a[href]")) {
		match := objectHrefPattern.FindStringSubmatch(a.Href)
		if match == nil {
			continue
		}
		h, err := handle.Parse(match[1])
		if err != nil {
			return nil, &ParseError{Element: "a valid handle in a collection listing link", Err: err}
		}
		if !seen[h] {
			seen[h] = true
			children = append(children, h)
		}
	}
	return children, nil
}
