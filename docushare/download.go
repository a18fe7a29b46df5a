package docushare

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/progress"

	"godocushare/handle"
)

// progressThreshold is the body size above which a download shows a
// progress bar, when progress is enabled.
const progressThreshold = 1 << 20

// Download fetches the file behind a Document or Version handle and
// writes it to path. DocuShare answers a Get request for a missing
// object with HTTP 200 and its "Not Found" page, so the body is
// classified before anything is written.
func (c *Client) Download(ctx context.Context, v any, path string) error {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	if err := c.checkLoggedIn(); err != nil {
		return err
	}
	hdl, err := handle.Coerce(v)
	if err != nil {
		return err
	}
	u, err := c.URL(ResourceGet, hdl)
	if err != nil {
		return err
	}

	res, err := c.HTTPGet(ctx, u)
	if err != nil {
		return err
	}
	body := res.Body()
	if IsNotFoundPage(body, res.Header().Get("Content-Type")) {
		return &NotFoundError{URL: u, Username: c.username}
	}

	if c.progress && declaredSize(res) >= progressThreshold {
		return writeFileWithProgress(path, body)
	}
	return os.WriteFile(path, body, 0o644)
}

// declaredSize is the Content-Length the server advertised, falling back
// to the buffered body size for responses without one.
func declaredSize(res *resty.Response) int64 {
	if res.RawResponse != nil && res.RawResponse.ContentLength >= 0 {
		return res.RawResponse.ContentLength
	}
	return res.Size()
}

func writeFileWithProgress(path string, body []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	pw := progress.NewWriter()
	pw.SetAutoStop(true)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	tracker := &progress.Tracker{
		Message: filepath.Base(path),
		Total:   int64(len(body)),
		Units:   progress.UnitsBytes,
	}
	pw.AppendTracker(tracker)
	go pw.Render()

	const chunkSize = 64 << 10
	for off := 0; off < len(body); off += chunkSize {
		end := off + chunkSize
		if end > len(body) {
			end = len(body)
		}
		n, err := f.Write(body[off:end])
		tracker.Increment(int64(n))
		if err != nil {
			tracker.MarkAsErrored()
			return err
		}
	}
	tracker.MarkAsDone()
	for pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// resolveDestination turns an optional path into a concrete file path,
// appending the suggested file name when path is empty or a directory.
func resolveDestination(path, filename string) string {
	if path == "" {
		return filename
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, filename)
	}
	return path
}

// CollectionDownloadPolicy selects which documents a collection
// download covers and how they are laid out on disk.
type CollectionDownloadPolicy int

const (
	// ChildDocuments downloads the Documents directly under the
	// collection, skipping sub-collections.
	ChildDocuments CollectionDownloadPolicy = iota
	// AllDescendantsFlat downloads every descendant Document into the
	// destination directory.
	AllDescendantsFlat
	// AllDescendantsTree downloads every descendant Document, mirroring
	// the collection hierarchy as directories.
	AllDescendantsTree
)

// CollectionDownloadOptions configures CollectionObject.Download.
type CollectionDownloadOptions struct {
	Policy CollectionDownloadPolicy
	// TitleAsDirectoryName names mirrored directories after collection
	// titles instead of collection identifiers. Only meaningful with
	// AllDescendantsTree.
	TitleAsDirectoryName bool
}

type downloadJob struct {
	doc  *DocumentObject
	path string
}

// Download fetches this collection's documents into destDir according
// to the policy. Directories are created on demand. It returns the
// paths written; a collection that yields no matching documents returns
// an empty list and no error. Individual download failures do not stop
// the remaining jobs and are joined into the returned error.
func (c *CollectionObject) Download(ctx context.Context, destDir string, opts CollectionDownloadOptions) ([]string, error) {
	if destDir == "" {
		destDir = "."
	}
	if info, err := os.Stat(destDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", destDir)
	}

	jobs, err := c.downloadJobs(ctx, destDir, opts)
	if err != nil {
		return nil, err
	}

	var paths []string
	var errList []error
	for _, job := range jobs {
		if err := os.MkdirAll(filepath.Dir(job.path), 0o755); err != nil {
			errList = append(errList, err)
			continue
		}
		if err := c.ds.Download(ctx, job.doc.Handle(), job.path); err != nil {
			errList = append(errList, err)
			continue
		}
		paths = append(paths, job.path)
	}
	return paths, errors.Join(errList...)
}

func (c *CollectionObject) downloadJobs(ctx context.Context, destDir string, opts CollectionDownloadOptions) ([]downloadJob, error) {
	switch opts.Policy {
	case ChildDocuments:
		var jobs []downloadJob
		for _, hdl := range c.objectHandles {
			if hdl.Type != handle.Document {
				continue
			}
			doc, err := c.document(ctx, hdl)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, downloadJob{doc: doc, path: filepath.Join(destDir, doc.Filename())})
		}
		return jobs, nil

	case AllDescendantsFlat, AllDescendantsTree:
		tree, err := c.Tree(ctx)
		if err != nil {
			return nil, err
		}
		var jobs []downloadJob
		for _, leaf := range tree.Leaves() {
			doc, err := c.document(ctx, leaf.Handle)
			if err != nil {
				return nil, err
			}
			dir := destDir
			if opts.Policy == AllDescendantsTree {
				dir, err = c.mirrorDirectory(ctx, destDir, leaf, opts.TitleAsDirectoryName)
				if err != nil {
					return nil, err
				}
			}
			jobs = append(jobs, downloadJob{doc: doc, path: filepath.Join(dir, doc.Filename())})
		}
		return jobs, nil
	}
	return nil, fmt.Errorf("unknown collection download policy %d", int(opts.Policy))
}

// mirrorDirectory maps a leaf's ancestor collections (excluding the root
// collection and the leaf itself) onto a directory path under destDir.
func (c *CollectionObject) mirrorDirectory(ctx context.Context, destDir string, leaf *handle.Node, titleAsName bool) (string, error) {
	dir := destDir
	ancestors := leaf.Path()
	for _, node := range ancestors[1 : len(ancestors)-1] {
		name := node.Handle.Identifier()
		if titleAsName {
			obj, err := c.ds.Object(ctx, node.Handle)
			if err != nil {
				return "", err
			}
			name = obj.Title()
		}
		dir = filepath.Join(dir, name)
	}
	return dir, nil
}

func (c *CollectionObject) document(ctx context.Context, hdl handle.Handle) (*DocumentObject, error) {
	obj, err := c.ds.Object(ctx, hdl)
	if err != nil {
		return nil, err
	}
	doc, ok := obj.(*DocumentObject)
	if !ok {
		return nil, fmt.Errorf("%s did not resolve to a document object", hdl)
	}
	return doc, nil
}
