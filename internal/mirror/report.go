package mirror

import (
	"sync"

	"go.uber.org/multierr"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

// UploadFailure records one file that could not be uploaded.
type UploadFailure struct {
	Path string
	Err  error
}

func (f UploadFailure) Error() string {
	return f.Path + ": " + f.Err.Error()
}

// Unwrap exposes both common.ErrUpload and the underlying cause.
func (f UploadFailure) Unwrap() []error {
	return []error{common.ErrUpload, f.Err}
}

// Report summarises a mirror run. It is safe for concurrent updates from the
// upload workers.
type Report struct {
	mu sync.Mutex

	FoldersCreated int
	FilesUploaded  int
	FilesSkipped   int
	Failures       []UploadFailure
}

func (r *Report) folderCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FoldersCreated++
}

func (r *Report) uploaded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FilesUploaded++
}

func (r *Report) skipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FilesSkipped++
}

func (r *Report) failed(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failures = append(r.Failures, UploadFailure{Path: path, Err: err})
}

// Err combines every upload failure, or returns nil when there was none.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}
