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

// Package fsys holds the filesystem primitives a run is built on: traversal,
// stat, streamed reads, no-clobber copies and directory management.
package fsys

import (
	"context"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// 📂 Entry is one item produced by a walk
type Entry struct {
	Path string
	Mode fs.FileMode // type bits only
}

func (e Entry) IsRegular() bool { return e.Mode.Type().IsRegular() }
func (e Entry) IsDir() bool     { return e.Mode.IsDir() }

// 🗂️ FS is the set of fallible primitives the core needs from a filesystem
type FS interface {
	// Walk lazily yields every entry under root in lexical order. Directories
	// for which prune returns true are yielded but not descended into.
	// Failures on a single entry are yielded as KindTraversal errors and the
	// walk continues.
	Walk(root string, prune func(dir string) bool) iter.Seq2[Entry, error]
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	// Copy writes src to dst, refusing to replace an existing dst.
	Copy(ctx context.Context, src, dst string) error
	MkdirAll(path string) error
	ListDir(path string) ([]string, error)
}

var errStopWalk = errors.Base("walk stopped")

// TempPattern names the staging file Copy writes before publishing.
const TempPattern = ".datesort-*.tmp"

// IsTemp reports whether the base name of path matches TempPattern, such as
// a staging file left behind by an interrupted copy.
func IsTemp(path string) bool {
	ok, _ := filepath.Match(TempPattern, filepath.Base(path))
	return ok
}

// 💾 OS implements FS on the host filesystem
type OS struct {
	// DirMode is used for created directories, 0755 when zero.
	DirMode fs.FileMode
	// FileMode is applied to copied files, 0644 when zero.
	FileMode fs.FileMode
}

var _ FS = OS{}

func (o OS) dirMode() fs.FileMode {
	if o.DirMode == 0 {
		return 0o755
	}
	return o.DirMode
}

func (o OS) fileMode() fs.FileMode {
	if o.FileMode == 0 {
		return 0o644
	}
	return o.FileMode
}

func (o OS) Walk(root string, prune func(dir string) bool) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Entry{Path: path}, newError(KindTraversal, "walk", path, err)) {
					return errStopWalk
				}
				// a directory that failed to list is skipped, not the whole walk
				return nil
			}
			if !yield(Entry{Path: path, Mode: d.Type()}, nil) {
				return errStopWalk
			}
			if d.IsDir() && path != root && prune != nil && prune(path) {
				return filepath.SkipDir
			}
			return nil
		})
	}
}

func (o OS) Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newError(KindTraversal, "stat", path, err)
	}
	return info, nil
}

func (o OS) Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(KindRead, "open", path, err)
	}
	return f, nil
}

func (o OS) MkdirAll(path string) error {
	if err := os.MkdirAll(path, o.dirMode()); err != nil {
		return newError(KindMkdir, "mkdir", path, err)
	}
	return nil
}

func (o OS) ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, newError(KindTraversal, "readdir", path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// 📋 Copy streams src into a temp file next to dst, carries over the source
// modification time and then publishes it under dst. Publishing uses a hard
// link so an existing dst is never replaced; filesystems without link
// support fall back to an existence check plus rename.
func (o OS) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return newError(KindCopy, "copy", dst, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return newError(KindCopy, "open", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return newError(KindCopy, "stat", src, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), TempPattern)
	if err != nil {
		return newError(KindCopy, "create", dst, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return newError(KindCopy, "write", dst, err)
	}
	if err := tmp.Chmod(o.fileMode()); err != nil {
		tmp.Close()
		return newError(KindCopy, "chmod", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return newError(KindCopy, "close", dst, err)
	}
	if err := os.Chtimes(tmpPath, info.ModTime(), info.ModTime()); err != nil {
		return newError(KindCopy, "chtimes", dst, err)
	}

	if err := publish(tmpPath, dst); err != nil {
		return newError(KindCopy, "publish", dst, err)
	}
	return nil
}

func publish(tmpPath, dst string) error {
	err := os.Link(tmpPath, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return err
	}
	if _, statErr := os.Lstat(dst); statErr == nil {
		return fs.ErrExist
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return statErr
	}
	return os.Rename(tmpPath, dst)
}
