package docushare

import (
	"context"
	"fmt"

	"godocushare/handle"
)

// Object is the metadata loaded for one handle. Objects are built once
// per session (fetch-then-freeze) and cached by the owning Client; they
// keep a back-reference to the Client for on-demand downloads but do
// not own it.
type Object interface {
	Handle() handle.Handle
	Title() string
	fmt.Stringer
}

// fileObject is the part shared by Documents and Versions: both are
// backed by a downloadable file.
type fileObject struct {
	ds       *Client
	hdl      handle.Handle
	title    string
	filename string
}

func (f *fileObject) Handle() handle.Handle {
	return f.hdl
}

func (f *fileObject) Title() string {
	return f.title
}

// Filename is the file name the site suggests for this object's content.
func (f *fileObject) Filename() string {
	return f.filename
}

// DownloadURL returns the Get URL of this object's file.
func (f *fileObject) DownloadURL() (string, error) {
	return f.ds.URL(ResourceGet, f.hdl)
}

// Download fetches this object's file. An empty path downloads to the
// suggested file name in the current directory; a directory path
// downloads into that directory under the suggested name; any other
// path is used as the destination file. The destination path is
// returned.
func (f *fileObject) Download(ctx context.Context, path string) (string, error) {
	path = resolveDestination(path, f.filename)
	if err := f.ds.Download(ctx, f.hdl, path); err != nil {
		return "", err
	}
	return path, nil
}

// DocumentObject is the metadata of a Document handle.
type DocumentObject struct {
	fileObject
	documentControlNumber string
	versionHandles        []handle.Handle
}

// DocumentControlNumber returns the site-assigned control number, or ""
// when the document has none.
func (d *DocumentObject) DocumentControlNumber() string {
	return d.documentControlNumber
}

// VersionHandles returns the Version handles from the document's history
// page in page order, newest first. A document with a single version may
// have none.
func (d *DocumentObject) VersionHandles() []handle.Handle {
	out := make([]handle.Handle, len(d.versionHandles))
	copy(out, d.versionHandles)
	return out
}

// Versions resolves every version handle through the session cache.
func (d *DocumentObject) Versions(ctx context.Context) ([]*VersionObject, error) {
	versions := make([]*VersionObject, 0, len(d.versionHandles))
	for _, hdl := range d.versionHandles {
		obj, err := d.ds.Object(ctx, hdl)
		if err != nil {
			return nil, err
		}
		version, ok := obj.(*VersionObject)
		if !ok {
			return nil, fmt.Errorf("%s did not resolve to a version object", hdl)
		}
		versions = append(versions, version)
	}
	return versions, nil
}

func (d *DocumentObject) String() string {
	return fmt.Sprintf("handle: %q, title: %q, filename: %q, document_control_number: %q",
		d.hdl, d.title, d.filename, d.documentControlNumber)
}

// VersionObject is the metadata of a Version handle.
type VersionObject struct {
	fileObject
	versionNumber int
}

// VersionNumber is the sequential number of this version within its
// document.
func (v *VersionObject) VersionNumber() int {
	return v.versionNumber
}

func (v *VersionObject) String() string {
	return fmt.Sprintf("handle: %q, title: %q, filename: %q, version_number: %d",
		v.hdl, v.title, v.filename, v.versionNumber)
}

// CollectionObject is the metadata of a Collection handle.
type CollectionObject struct {
	ds            *Client
	hdl           handle.Handle
	title         string
	objectHandles []handle.Handle
}

func (c *CollectionObject) Handle() handle.Handle {
	return c.hdl
}

func (c *CollectionObject) Title() string {
	return c.title
}

// ObjectHandles returns the handles listed on this collection's view
// page, in page order.
func (c *CollectionObject) ObjectHandles() []handle.Handle {
	out := make([]handle.Handle, len(c.objectHandles))
	copy(out, c.objectHandles)
	return out
}

// Tree builds the object tree rooted at this collection, recursively
// resolving nested collections through the session cache.
func (c *CollectionObject) Tree(ctx context.Context) (*handle.Node, error) {
	return handle.BuildTree(c.hdl, func(h handle.Handle) ([]handle.Handle, error) {
		if h == c.hdl {
			return c.objectHandles, nil
		}
		obj, err := c.ds.Object(ctx, h)
		if err != nil {
			return nil, err
		}
		sub, ok := obj.(*CollectionObject)
		if !ok {
			return nil, fmt.Errorf("%s did not resolve to a collection object", h)
		}
		return sub.objectHandles, nil
	})
}

func (c *CollectionObject) String() string {
	return fmt.Sprintf("handle: %q, title: %q", c.hdl, c.title)
}
