package docushare

import (
	_ "embed"
	"testing"

	"github.com/stretchr/testify/require"

	"godocushare/handle"
)

var (
	//go:embed testdata/login.html
	loginPage []byte
	//go:embed testdata/login_no_token.html
	loginPageNoToken []byte
	//go:embed testdata/login_no_challenge.html
	loginPageNoChallenge []byte
	//go:embed testdata/properties_document.html
	documentPropertiesPage []byte
	//go:embed testdata/properties_version.html
	versionPropertiesPage []byte
	//go:embed testdata/properties_collection.html
	collectionPropertiesPage []byte
	//go:embed testdata/history.html
	historyPage []byte
	//go:embed testdata/history_single_version.html
	historySingleVersionPage []byte
	//go:embed testdata/collection_view.html
	collectionViewPage []byte
	//go:embed testdata/not_found.html
	notFoundPage []byte
	//go:embed testdata/not_authorized.html
	notAuthorizedPage []byte
	//go:embed testdata/system_error.html
	systemErrorPage []byte
)

const htmlContentType = "text/html; charset=UTF-8"

func TestIsNotFoundPage(t *testing.T) {
	require.True(t, IsNotFoundPage(notFoundPage, htmlContentType))
	require.False(t, IsNotFoundPage(documentPropertiesPage, htmlContentType))
	require.False(t, IsNotFoundPage(notAuthorizedPage, htmlContentType))
	// classification only applies to HTML responses
	require.False(t, IsNotFoundPage(notFoundPage, "application/pdf"))
}

func TestIsNotAuthorizedPage(t *testing.T) {
	require.True(t, IsNotAuthorizedPage(notAuthorizedPage, htmlContentType))
	require.False(t, IsNotAuthorizedPage(documentPropertiesPage, htmlContentType))
	require.False(t, IsNotAuthorizedPage(notFoundPage, htmlContentType))
	require.False(t, IsNotAuthorizedPage(notAuthorizedPage, "application/octet-stream"))
}

func TestParseSystemErrorPage(t *testing.T) {
	code, message, ok := ParseSystemErrorPage(systemErrorPage, htmlContentType)
	require.True(t, ok)
	require.Equal(t, "DSException", code)
	require.Equal(t, "An unexpected error occurred.", message)

	_, _, ok = ParseSystemErrorPage(documentPropertiesPage, htmlContentType)
	require.False(t, ok)

	_, _, ok = ParseSystemErrorPage(systemErrorPage, "text/plain")
	require.False(t, ok)
}

func TestParseSystemErrorPageMissingValues(t *testing.T) {
	page := []byte(`<html><body>
		<input type="hidden" name="dserrorcode">
		<input type="hidden" name="detail_message">
	</body></html>`)
	code, message, ok := ParseSystemErrorPage(page, htmlContentType)
	require.True(t, ok)
	require.Empty(t, code)
	require.Empty(t, message)
}

func TestParseLoginPage(t *testing.T) {
	token, challengeSrc, err := ParseLoginPage(loginPage)
	require.NoError(t, err)
	require.Equal(t, "1cwe4irxdwe7yl4v6ggow", token)
	require.Equal(t, "/docushare/dsweb/ResourceStore/javascript/challenge.js?version=7", challengeSrc)
}

func TestParseLoginPageMissingToken(t *testing.T) {
	_, _, err := ParseLoginPage(loginPageNoToken)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, parseErr.Element, "login_token")
}

func TestParseLoginPageMissingChallengeScript(t *testing.T) {
	_, _, err := ParseLoginPage(loginPageNoChallenge)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, parseErr.Element, "challenge.js")
}

func TestParsePropertyPageDocument(t *testing.T) {
	props, err := ParsePropertyPage(documentPropertiesPage, handle.Document)
	require.NoError(t, err)

	require.Equal(t,
		[]string{"Title", "Handle", "Document Control Number", "Owner", "Modified"},
		props.Names())

	title, ok := props.Get("Title")
	require.True(t, ok)
	require.Equal(t, "Telescope Requirements", title)

	hdl, ok := props.Handle()
	require.True(t, ok)
	require.Equal(t, "Document-20202", hdl.Identifier())

	filename, ok := props.Filename()
	require.True(t, ok)
	require.Equal(t, "TMT.SEN.DRD.05.002.pdf", filename)

	modified, ok := props.Get("Modified")
	require.True(t, ok)
	require.Equal(t, "2021/06/15 10:22", modified)
}

func TestParsePropertyPageVersion(t *testing.T) {
	props, err := ParsePropertyPage(versionPropertiesPage, handle.Version)
	require.NoError(t, err)

	n, ok := props.VersionNumber()
	require.True(t, ok)
	require.Equal(t, 7, n)

	filename, ok := props.Filename()
	require.True(t, ok)
	require.Equal(t, "TMT.SEN.DRD.05.002.REL07.pdf", filename)
}

func TestParsePropertyPageCollectionHasNoFilename(t *testing.T) {
	props, err := ParsePropertyPage(collectionPropertiesPage, handle.Collection)
	require.NoError(t, err)

	title, ok := props.Get("Title")
	require.True(t, ok)
	require.Equal(t, "Design Documents", title)

	_, ok = props.Filename()
	require.False(t, ok)
}

func TestParsePropertyPageMissingTable(t *testing.T) {
	_, err := ParsePropertyPage([]byte("<html><body><p>nothing</p></body></html>"), handle.Document)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParsePropertyPageTitleWithoutLink(t *testing.T) {
	page := []byte(`<html><body><table class="propstable">
		<tr><td>Title:</td><td>No link here</td></tr>
	</table></body></html>`)
	_, err := ParsePropertyPage(page, handle.Document)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	// The same page is fine for a Collection, which has no file.
	_, err = ParsePropertyPage(page, handle.Collection)
	require.NoError(t, err)
}

func TestParseHistoryPage(t *testing.T) {
	versions, err := ParseHistoryPage(historyPage)
	require.NoError(t, err)

	var identifiers []string
	for _, v := range versions {
		require.Equal(t, handle.Version, v.Type)
		identifiers = append(identifiers, v.Identifier())
	}
	require.Equal(t, []string{"Version-123458", "Version-123457", "Version-123456"}, identifiers)
}

func TestParseHistoryPageSingleVersion(t *testing.T) {
	// A document with exactly one version has no linked "#" cell, which
	// is a valid empty history rather than an error.
	versions, err := ParseHistoryPage(historySingleVersionPage)
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestParseHistoryPageMissingTable(t *testing.T) {
	_, err := ParseHistoryPage([]byte("<html><body></body></html>"))
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseCollectionPage(t *testing.T) {
	children, err := ParseCollectionPage(collectionViewPage)
	require.NoError(t, err)

	var identifiers []string
	for _, h := range children {
		identifiers = append(identifiers, h.Identifier())
	}
	// Deduplicated, in page order. The collection's own breadcrumb link
	// is included here; the client filters it out.
	require.Equal(t,
		[]string{"Collection-10101", "Collection-11000", "Document-20202", "Document-20203"},
		identifiers)
}
