// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inventory

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/datesort/pkg/fsys"
	"github.com/walteh/datesort/pkg/hash"
)

// 🧪 failingOpenFS fails Open for selected paths
type failingOpenFS struct {
	fsys.OS
	fail map[string]bool
}

func (f failingOpenFS) Open(path string) (io.ReadCloser, error) {
	if f.fail[path] {
		return nil, &fsys.Error{Kind: fsys.KindRead, Op: "open", Path: path, Err: os.ErrPermission}
	}
	return f.OS.Open(path)
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func newBuilder(t *testing.T, fs fsys.FS, pattern string, exclude []string, prune ...string) *Builder {
	t.Helper()
	m, err := NewMatcher(pattern, exclude)
	require.NoError(t, err, "matcher should compile")
	b, err := NewBuilder(Options{FS: fs, Hasher: hash.New(hash.SHA256, fs), Matcher: m, Prune: prune})
	require.NoError(t, err, "builder should be created")
	return b
}

func TestMatcher(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		exclude []string
		path    string
		want    bool
	}{
		{name: "empty_pattern_matches_all", path: "/src/a.txt", want: true},
		{name: "case_insensitive", pattern: `\.jpe?g$`, path: "/src/IMG_001.JPG", want: true},
		{name: "searches_full_path", pattern: "camera", path: "/src/Camera/x.png", want: true},
		{name: "no_match", pattern: `\.jpg$`, path: "/src/a.png", want: false},
		{name: "excluded_by_glob", exclude: []string{"**/thumbs/**"}, path: "/src/a/thumbs/x.jpg", want: false},
		{name: "exclude_is_root_relative", exclude: []string{"*.tmp"}, path: "/src/a.tmp", want: false},
		{name: "exclude_not_matching", exclude: []string{"*.tmp"}, path: "/src/a/b.jpg", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatcher(tt.pattern, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Match("/src", tt.path))
		})
	}
}

func TestNewMatcherErrors(t *testing.T) {
	_, err := NewMatcher("(", nil)
	assert.Error(t, err, "bad regex should fail")

	_, err = NewMatcher("", []string{"[a-"})
	assert.Error(t, err, "bad glob should fail")
}

func TestBuild(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	t0 := time.Date(2023, time.January, 5, 10, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(root, "a.jpg"), "same", t0)
	writeFile(t, filepath.Join(root, "b", "b.jpg"), "same", t0.Add(-time.Hour))
	writeFile(t, filepath.Join(root, "c.jpg"), "other", t0.Add(time.Hour))
	writeFile(t, filepath.Join(root, "notes.txt"), "same", t0)
	writeFile(t, filepath.Join(root, "out", "old.jpg"), "same", t0)

	b := newBuilder(t, fsys.OS{}, `\.jpg$`, nil, filepath.Join(root, "out"))
	inv, err := b.Build(ctx, root)
	require.NoError(t, err, "build should succeed")

	assert.Equal(t, 3, inv.Files(), "only matching files outside pruned dirs are grouped")
	require.Equal(t, 2, inv.Len(), "two identities expected")

	groups := inv.Groups()
	assert.Equal(t, hash.Bytes(hash.SHA256, []byte("same")), groups[0].Identity, "first group is first seen")
	require.Len(t, groups[0].Members, 2)
	assert.Equal(t, filepath.Join(root, "a.jpg"), groups[0].Members[0].Path, "walk order is kept")
	assert.Equal(t, filepath.Join(root, "b", "b.jpg"), groups[0].Members[1].Path)
	assert.Equal(t, "b.jpg", groups[0].Members[1].Name)
	assert.True(t, t0.Add(-time.Hour).Equal(groups[0].Members[1].ModifiedAt), "mtime is captured")
	assert.Equal(t, int64(4), groups[0].Members[0].Size)

	assert.Len(t, groups[1].Members, 1)
	assert.Len(t, inv.Duplicates(), 1, "one duplicate group")

	g, ok := inv.Group(groups[1].Identity)
	assert.True(t, ok)
	assert.Same(t, groups[1], g)
}

func TestBuildSkipsUnreadableFiles(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	t0 := time.Date(2023, time.January, 5, 10, 0, 0, 0, time.UTC)
	bad := filepath.Join(root, "bad.jpg")
	writeFile(t, bad, "x", t0)
	writeFile(t, filepath.Join(root, "good.jpg"), "y", t0)

	b := newBuilder(t, failingOpenFS{fail: map[string]bool{bad: true}}, "", nil)
	inv, err := b.Build(ctx, root)
	require.NoError(t, err, "a single unreadable file should not abort the walk")

	assert.Equal(t, 1, inv.Files())
	require.Len(t, inv.Skipped, 1)
	assert.Equal(t, bad, inv.Skipped[0].Path)
	assert.Equal(t, fsys.KindRead, fsys.KindOf(inv.Skipped[0].Err))
}

func TestBuildMissingRoot(t *testing.T) {
	ctx := testContext(t)
	b := newBuilder(t, fsys.OS{}, "", nil)

	_, err := b.Build(ctx, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err, "a missing source root is an error")
}

func TestBuildCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "a", time.Now())

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err := newBuilder(t, fsys.OS{}, "", nil).Build(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildLedger(t *testing.T) {
	ctx := testContext(t)
	t0 := time.Date(2023, time.January, 5, 10, 0, 0, 0, time.UTC)

	t.Run("missing_root_is_empty", func(t *testing.T) {
		l, err := newBuilder(t, fsys.OS{}, "", nil).BuildLedger(ctx, filepath.Join(t.TempDir(), "dest"))
		require.NoError(t, err)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("indexes_existing_content", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "2023", "Jan", "2023-Jan-05_10.00.00.jpg"), "same", t0)
		writeFile(t, filepath.Join(root, "2023", "Jan", "2023-Jan-05_10.00.00_(1).jpg"), "same", t0)
		writeFile(t, filepath.Join(root, "File_organization_1.xlsx"), "report", t0)

		l, err := newBuilder(t, fsys.OS{}, `\.jpg$`, nil).BuildLedger(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, 1, l.Len())

		paths, ok := l.Lookup(hash.Bytes(hash.SHA256, []byte("same")))
		require.True(t, ok)
		assert.Equal(t, []string{
			filepath.Join(root, "2023", "Jan", "2023-Jan-05_10.00.00.jpg"),
			filepath.Join(root, "2023", "Jan", "2023-Jan-05_10.00.00_(1).jpg"),
		}, paths)
	})

	t.Run("ignores_leftover_staging_files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "2023", "Jan", ".datesort-123456.tmp"), "interrupted", t0)

		l, err := newBuilder(t, fsys.OS{}, "", nil).BuildLedger(ctx, root)
		require.NoError(t, err)

		_, ok := l.Lookup(hash.Bytes(hash.SHA256, []byte("interrupted")))
		assert.False(t, ok, "a staging file must not count as published content")
		assert.Equal(t, 0, l.Len())
	})
}

func TestLedgerAdd(t *testing.T) {
	l := NewLedger("/dest")
	id := hash.Identity("abc")

	_, ok := l.Lookup(id)
	assert.False(t, ok)

	l.Add(id, "/dest/one")
	l.Add(id, "/dest/two")
	l.Add(id, "/dest/one")

	paths, ok := l.Lookup(id)
	require.True(t, ok)
	assert.Equal(t, []string{"/dest/one", "/dest/two"}, paths, "duplicates are ignored")

	paths[0] = "mutated"
	again, _ := l.Lookup(id)
	assert.Equal(t, "/dest/one", again[0], "lookup returns a copy")
}

func TestInventoryAdd(t *testing.T) {
	inv := NewInventory("/src")
	first := SourceFile{Path: "/src/a.jpg", Name: "a.jpg"}
	second := SourceFile{Path: "/src/b.jpg", Name: "b.jpg"}
	other := SourceFile{Path: "/src/c.jpg", Name: "c.jpg"}

	inv.Add(first, "h1")
	inv.Add(other, "h2")
	inv.Add(second, "h1")

	assert.Equal(t, 3, inv.Files())
	assert.Equal(t, 2, inv.Len())

	g, ok := inv.Group("h1")
	require.True(t, ok)
	assert.Equal(t, []SourceFile{first, second}, g.Members, "members keep insertion order")

	dupes := inv.Duplicates()
	require.Len(t, dupes, 1)
	assert.Equal(t, hash.Identity("h1"), dupes[0].Identity)
}
