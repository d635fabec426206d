package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
)

const maxLinkHops = 40

// ResolveRoot returns the absolute path of root with symbolic links at its
// last element followed until a real entry is reached. afero.Walk does not
// descend into a symlinked root, so callers scan and mirror from the
// resolved path. Failures wrap common.ErrScan.
func ResolveRoot(fs afero.Fs, root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %v", common.ErrScan, root, err)
	}

	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return abs, nil
	}

	for range maxLinkHops {
		fi, _, err := lstater.LstatIfPossible(abs)
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrScan, err)
		}
		if fi.Mode()&os.ModeSymlink == 0 {
			return abs, nil
		}

		reader, ok := fs.(afero.LinkReader)
		if !ok {
			return "", fmt.Errorf("%w: cannot read symlink %s", common.ErrScan, abs)
		}
		target, err := reader.ReadlinkIfPossible(abs)
		if err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrScan, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(abs), target)
		}
		abs = filepath.Clean(target)
	}
	return "", fmt.Errorf("%w: too many levels of symbolic links: %s", common.ErrScan, root)
}
