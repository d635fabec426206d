package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/sbxcloud/internal/common"
	"github.com/dmitrijs2005/sbxcloud/internal/logging"
)

func newTree(t *testing.T, root string, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(root, 0o755))
	for _, f := range files {
		p := filepath.Join(root, f)
		if f[len(f)-1] == '/' {
			require.NoError(t, fs.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
	return fs
}

func defaultScanner(t *testing.T, fs afero.Fs) *Scanner {
	t.Helper()
	rules, err := NewIgnoreRuleSet(DefaultIgnore)
	require.NoError(t, err)
	return New(fs, rules, logging.Discard())
}

func TestScan_ListsFilesAndDirsInWalkOrder(t *testing.T) {
	root := "/site"
	fs := newTree(t, root, "index.html", "css/app.css", "empty/", "js/app.js")

	got, err := defaultScanner(t, fs).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/site/css",
		"/site/css/app.css",
		"/site/empty",
		"/site/index.html",
		"/site/js",
		"/site/js/app.js",
	}, got)
}

func TestScan_IsStable(t *testing.T) {
	root := "/site"
	fs := newTree(t, root, "b.txt", "a.txt", "z/c.txt", "m/")
	s := defaultScanner(t, fs)

	first, err := s.Scan(context.Background(), root)
	require.NoError(t, err)
	second, err := s.Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScan_PrunesIgnoredEntries(t *testing.T) {
	root := "/site"
	fs := newTree(t, root,
		"index.html",
		".git/config",
		".git/objects/ab/cdef",
		"node_modules/lib/index.js",
		"logs/app.log",
		"logs/keep.txt",
		"thumbs.db",
		".DS_Store",
		".env",
	)

	got, err := defaultScanner(t, fs).Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/site/index.html",
		"/site/logs",
		"/site/logs/keep.txt",
	}, got)
	for _, p := range got {
		assert.NotContains(t, p, ".git")
		assert.NotContains(t, p, "node_modules")
	}
}

func TestScan_RulesAreNotAppliedToRoot(t *testing.T) {
	root := "/.hidden-site"
	fs := newTree(t, root, "index.html")

	got, err := defaultScanner(t, fs).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, []string{"/.hidden-site/index.html"}, got)
}

func TestScan_EmptyRoot(t *testing.T) {
	root := "/site"
	fs := newTree(t, root)

	got, err := defaultScanner(t, fs).Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScan_Errors(t *testing.T) {
	fs := newTree(t, "/site", "file.txt")
	s := defaultScanner(t, fs)

	t.Run("missing root", func(t *testing.T) {
		got, err := s.Scan(context.Background(), "/nope")
		require.ErrorIs(t, err, common.ErrScan)
		assert.Nil(t, got)
	})

	t.Run("root is a file", func(t *testing.T) {
		got, err := s.Scan(context.Background(), "/site/file.txt")
		require.ErrorIs(t, err, common.ErrScan)
		assert.Nil(t, got)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		got, err := s.Scan(ctx, "/site")
		require.ErrorIs(t, err, common.ErrScan)
		assert.Nil(t, got)
	})
}

// releaseTree writes dir/release/{css/,index.html} on the OS filesystem.
func releaseTree(t *testing.T) (dir, release string) {
	t.Helper()
	dir = t.TempDir()
	release = filepath.Join(dir, "release")
	require.NoError(t, os.MkdirAll(filepath.Join(release, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(release, "index.html"), []byte("x"), 0o644))
	return dir, release
}

func symlink(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
}

func TestScan_SymlinkedRoot(t *testing.T) {
	dir, release := releaseTree(t)
	want := []string{filepath.Join(release, "css"), filepath.Join(release, "index.html")}

	tests := []struct {
		name  string
		links map[string]string // link name -> target; "previous" is created first
		root  string
	}{
		{"absolute target", map[string]string{"current": release}, "current"},
		{"relative target", map[string]string{"current": "release"}, "current"},
		{"chain of links", map[string]string{"previous": "release", "current": "previous"}, "current"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range []string{"previous", "current"} {
				_ = os.Remove(filepath.Join(dir, name))
			}
			if target, ok := tt.links["previous"]; ok {
				symlink(t, target, filepath.Join(dir, "previous"))
			}
			symlink(t, tt.links["current"], filepath.Join(dir, "current"))

			fs := afero.NewOsFs()
			got, err := defaultScanner(t, fs).Scan(context.Background(), filepath.Join(dir, tt.root))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			resolved, err := ResolveRoot(fs, filepath.Join(dir, tt.root))
			require.NoError(t, err)
			assert.Equal(t, release, resolved)
		})
	}
}

func TestScan_SymlinkedRootErrors(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewOsFs()

	t.Run("dangling", func(t *testing.T) {
		link := filepath.Join(dir, "dangling")
		symlink(t, filepath.Join(dir, "missing"), link)

		got, err := defaultScanner(t, fs).Scan(context.Background(), link)
		require.ErrorIs(t, err, common.ErrScan)
		assert.Nil(t, got)
	})

	t.Run("loop", func(t *testing.T) {
		a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")
		symlink(t, b, a)
		symlink(t, a, b)

		_, err := ResolveRoot(fs, a)
		require.ErrorIs(t, err, common.ErrScan)
	})
}

func TestScan_SkipsNestedSymlinks(t *testing.T) {
	dir, release := releaseTree(t)
	symlink(t, dir, filepath.Join(release, "up"))

	got, err := defaultScanner(t, afero.NewOsFs()).Scan(context.Background(), release)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(release, "css"), filepath.Join(release, "index.html")}, got)
}

func TestResolveRoot_MemMapFs(t *testing.T) {
	fs := newTree(t, "/site", "a.txt")

	got, err := ResolveRoot(fs, "/site")
	require.NoError(t, err)
	assert.Equal(t, "/site", got)

	_, err = ResolveRoot(fs, "/nope")
	require.ErrorIs(t, err, common.ErrScan)
}

func TestIgnoreRuleSet_Match(t *testing.T) {
	rules, err := NewIgnoreRuleSet(DefaultIgnore)
	require.NoError(t, err)

	tests := []struct {
		name string
		want bool
	}{
		{".DS_Store", true},
		{"thumbs.db", true},
		{"Thumbs.db", false},
		{"app.log", true},
		{"app.log.txt", false},
		{".git", true},
		{".env", true},
		{"node_modules", true},
		{"node_modules2", false},
		{"index.html", false},
		{"logs", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rules.Match(tt.name), "name %q", tt.name)
	}
	assert.Equal(t, DefaultIgnore, rules.Patterns())
}

func TestNewIgnoreRuleSet_InvalidPattern(t *testing.T) {
	_, err := NewIgnoreRuleSet([]string{"[unclosed"})
	require.Error(t, err)
}
