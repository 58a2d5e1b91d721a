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

// Package inventory builds the two content maps a run reconciles: the source
// inventory (identity -> files sharing it) and the destination ledger
// (identity -> paths already holding it).
package inventory

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/fsys"
	"github.com/walteh/datesort/pkg/hash"
	"gitlab.com/tozd/go/errors"
)

// SourceFile is a candidate observed during a walk.
type SourceFile struct {
	Path       string
	Name       string
	ModifiedAt time.Time
	Size       int64
}

// Skipped records a candidate left out of the maps and why.
type Skipped struct {
	Path string
	Err  error
}

// Options configures a Builder.
type Options struct {
	FS      fsys.FS
	Hasher  *hash.Hasher
	Matcher *Matcher
	// Prune lists directories that are never descended into, such as a
	// destination nested inside the source, and files that are never hashed.
	Prune []string
}

// 🏗️ Builder walks trees and hashes their candidates
type Builder struct {
	fs      fsys.FS
	hasher  *hash.Hasher
	matcher *Matcher
	prune   map[string]struct{}
}

func NewBuilder(opts Options) (*Builder, error) {
	if opts.FS == nil {
		return nil, errors.Errorf("fs is required")
	}
	if opts.Hasher == nil {
		return nil, errors.Errorf("hasher is required")
	}
	if opts.Matcher == nil {
		opts.Matcher = &Matcher{}
	}
	b := &Builder{
		fs:      opts.FS,
		hasher:  opts.Hasher,
		matcher: opts.Matcher,
		prune:   make(map[string]struct{}, len(opts.Prune)),
	}
	for _, dir := range opts.Prune {
		b.prune[filepath.Clean(dir)] = struct{}{}
	}
	return b, nil
}

func (b *Builder) shouldPrune(dir string) bool {
	_, ok := b.prune[filepath.Clean(dir)]
	return ok
}

// scan walks root and calls fn for every hashed candidate, in walk order.
//
// Policy: an entry that fails to list, stat or hash is logged, appended to
// the returned skipped list and left out; the walk goes on. Only a failure on
// root itself, or context cancellation, ends the scan with an error.
func (b *Builder) scan(ctx context.Context, root string, fn func(SourceFile, hash.Identity)) ([]Skipped, error) {
	logger := zerolog.Ctx(ctx)
	root = filepath.Clean(root)

	var skipped []Skipped
	for entry, err := range b.fs.Walk(root, b.shouldPrune) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return skipped, ctxErr
		}

		if err != nil {
			if filepath.Clean(entry.Path) == root {
				return skipped, errors.Errorf("walking %s: %w", root, err)
			}
			// directories that failed to list never produced candidates
			logger.Warn().Err(err).Str("path", entry.Path).Msg("skipping unreadable entry")
			continue
		}

		if !entry.IsRegular() || b.shouldPrune(entry.Path) || !b.matcher.Match(root, entry.Path) {
			continue
		}

		info, err := b.fs.Stat(entry.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", entry.Path).Msg("skipping file that cannot be stat'd")
			skipped = append(skipped, Skipped{Path: entry.Path, Err: err})
			continue
		}

		id, err := b.hasher.Hash(ctx, entry.Path)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return skipped, ctxErr
			}
			logger.Warn().Err(err).Str("path", entry.Path).Msg("skipping file that cannot be hashed")
			skipped = append(skipped, Skipped{Path: entry.Path, Err: err})
			continue
		}

		logger.Trace().Str("path", entry.Path).Str("identity", id.Short()).Msg("hashed file")

		fn(SourceFile{
			Path:       entry.Path,
			Name:       filepath.Base(entry.Path),
			ModifiedAt: info.ModTime(),
			Size:       info.Size(),
		}, id)
	}

	return skipped, nil
}
