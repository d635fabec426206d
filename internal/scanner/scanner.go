// Package scanner enumerates the local tree that is going to be deployed.
//
// The scan is a single lexical walk over an afero.Fs; entries whose base name
// matches the IgnoreRuleSet are dropped and ignored directories are pruned,
// so none of their descendants are visited either. Symbolic links are never
// followed.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
	"github.com/dmitrijs2005/sbxcloud/internal/logging"
)

type Scanner struct {
	fs     afero.Fs
	rules  IgnoreRuleSet
	logger logging.Logger
}

func New(fs afero.Fs, rules IgnoreRuleSet, logger logging.Logger) *Scanner {
	return &Scanner{fs: fs, rules: rules, logger: logger}
}

// Scan returns the absolute path of every file and directory below root,
// excluding root itself, in walk order. A symlinked root is resolved first
// (see ResolveRoot) and the paths are rooted at its target. Failures wrap common.ErrScan and no
// partial result is returned.
func (s *Scanner) Scan(ctx context.Context, root string) ([]string, error) {
	abs, err := ResolveRoot(s.fs, root)
	if err != nil {
		return nil, err
	}

	info, err := s.fs.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrScan, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", common.ErrScan, abs)
	}

	var paths []string
	err = afero.Walk(s.fs, abs, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		name := filepath.Base(path)
		if s.rules.Match(name) {
			s.logger.Debug(ctx, "ignored", "path", path)
			if fi.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if fi.Mode()&os.ModeSymlink != 0 {
			s.logger.Debug(ctx, "symlink skipped", "path", path)
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrScan, err)
	}

	return paths, nil
}
