// Package mirror makes a remote sbxcloud folder tree structurally match a
// local directory tree. It only creates: nothing is ever deleted remotely.
//
// Per directory the work runs in three phases. Missing subfolders are created
// one at a time, then the directory's files are uploaded with at most
// Options.Concurrency requests in flight, then the subdirectories are visited
// one at a time. A subfolder's remote key is therefore always known before
// anything is uploaded into it.
//
// A failing ListFolder or CreateFolder aborts the whole run. A failing upload
// is logged and recorded in the Report; sibling uploads and the remaining
// directories still run.
package mirror

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/sbxcloud/internal/client/cloud"
	"github.com/dmitrijs2005/sbxcloud/internal/common"
	"github.com/dmitrijs2005/sbxcloud/internal/logging"
)

const DefaultConcurrency = 3

type Options struct {
	// Concurrency caps the uploads in flight within one directory.
	Concurrency int
	// SkipExisting leaves files alone when a remote file of the same name
	// exists. By default every local file is uploaded.
	SkipExisting bool
	// Progress receives the "|->name" tree lines. Nil discards them.
	Progress io.Writer
}

type Orchestrator struct {
	client cloud.Client
	fs     afero.Fs
	logger logging.Logger
	opts   Options

	outMu sync.Mutex
}

func New(client cloud.Client, fs afero.Fs, logger logging.Logger, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	return &Orchestrator{client: client, fs: fs, logger: logger, opts: opts}
}

// Mirror mirrors root into remote. paths is the scan of root (see package
// scanner); only entries listed there are considered.
//
// The returned Report is never nil. The error is a directory-level failure,
// or else the combination of all UploadFailures.
func (o *Orchestrator) Mirror(ctx context.Context, root string, paths []string, remote *cloud.RemoteFolder) (*Report, error) {
	report := &Report{}

	abs, err := filepath.Abs(root)
	if err != nil {
		return report, fmt.Errorf("%w: resolve %s: %v", common.ErrScan, root, err)
	}

	children := make(map[string][]string)
	for _, p := range paths {
		parent := filepath.Dir(p)
		children[parent] = append(children[parent], p)
	}

	if err := o.mirrorDir(ctx, 0, abs, children, remote.Key, report); err != nil {
		return report, err
	}
	return report, report.Err()
}

func (o *Orchestrator) progress(depth int, format string, args ...any) {
	o.outMu.Lock()
	defer o.outMu.Unlock()
	fmt.Fprintf(o.opts.Progress, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (o *Orchestrator) mirrorDir(ctx context.Context, depth int, dir string, children map[string][]string, remoteKey string, report *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.progress(depth, "|->%s/", filepath.Base(dir))

	var dirs, files []string
	for _, p := range children[dir] {
		fi, err := o.fs.Stat(p)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrScan, err)
		}
		if fi.IsDir() {
			dirs = append(dirs, p)
		} else {
			files = append(files, p)
		}
	}

	folder, err := o.client.ListFolder(ctx, remoteKey)
	if err != nil {
		return fmt.Errorf("mirror %s: %w", dir, err)
	}
	remoteDirs, remoteFiles := folder.Partition()

	subKeys := make(map[string]string, len(dirs))
	for _, d := range dirs {
		name := filepath.Base(d)
		if existing, ok := remoteDirs[name]; ok {
			subKeys[name] = existing.Key
			continue
		}
		created, err := o.client.CreateFolder(ctx, folder.Key, name)
		if err != nil {
			return fmt.Errorf("mirror %s: %w", dir, err)
		}
		subKeys[name] = created.Key
		report.folderCreated()
		o.logger.Info(ctx, "folder created", "name", name, "parent", folder.Key, "key", created.Key)
	}

	o.uploadFiles(ctx, depth, folder.Key, files, remoteFiles, report)

	if err := ctx.Err(); err != nil {
		return err
	}

	for _, d := range dirs {
		if err := o.mirrorDir(ctx, depth+1, d, children, subKeys[filepath.Base(d)], report); err != nil {
			return err
		}
	}
	return nil
}

// uploadFiles dispatches every file and waits for all of them. Failures are
// recorded, never returned, so one bad file cannot cancel its siblings.
func (o *Orchestrator) uploadFiles(ctx context.Context, depth int, folderKey string, files []string, remoteFiles map[string]cloud.RemoteEntry, report *Report) {
	var g errgroup.Group
	g.SetLimit(o.opts.Concurrency)

	for _, f := range files {
		name := filepath.Base(f)
		if o.opts.SkipExisting {
			if _, ok := remoteFiles[name]; ok {
				report.skipped()
				o.logger.Debug(ctx, "already uploaded", "path", f)
				continue
			}
		}
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			o.progress(depth+1, "|->%s", name)
			if _, err := o.client.UploadFile(ctx, folderKey, f); err != nil {
				o.logger.Error(ctx, "upload failed", "path", f, "error", err)
				report.failed(f, err)
				return nil
			}
			report.uploaded()
			return nil
		})
	}
	_ = g.Wait()
}
