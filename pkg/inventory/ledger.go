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
	"io/fs"
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/fsys"
	"github.com/walteh/datesort/pkg/hash"
	"github.com/walteh/datesort/pkg/ordered"
	"gitlab.com/tozd/go/errors"
)

// 📒 Ledger records which identities the destination already holds.
//
// It is built once per run and appended to as copies succeed. The
// destination tree itself is the persisted form: the next run rebuilds the
// same ledger from the files on disk.
type Ledger struct {
	Root    string
	Skipped []Skipped

	entries *ordered.Map[hash.Identity, []string]
}

func NewLedger(root string) *Ledger {
	return &Ledger{
		Root:    root,
		entries: ordered.New[hash.Identity, []string](),
	}
}

// Lookup returns the destination paths holding id, in the order they were
// found or added.
func (l *Ledger) Lookup(id hash.Identity) ([]string, bool) {
	paths, ok := l.entries.Get(id)
	if !ok || len(paths) == 0 {
		return nil, false
	}
	return slices.Clone(paths), true
}

// Add records that path holds id. Adding the same pair twice is a no-op.
func (l *Ledger) Add(id hash.Identity, path string) {
	paths, _ := l.entries.Get(id)
	if slices.Contains(paths, path) {
		return
	}
	l.entries.Set(id, append(paths, path))
}

// Len is the number of distinct identities.
func (l *Ledger) Len() int { return l.entries.Len() }

// BuildLedger walks the destination tree rooted at root. A destination that
// does not exist yet yields an empty ledger.
func (b *Builder) BuildLedger(ctx context.Context, root string) (*Ledger, error) {
	logger := zerolog.Ctx(ctx)
	ledger := NewLedger(root)

	skipped, err := b.scan(ctx, root, func(f SourceFile, id hash.Identity) {
		if fsys.IsTemp(f.Path) {
			logger.Warn().Str("path", f.Path).Msg("ignoring leftover copy staging file")
			return
		}
		ledger.Add(id, f.Path)
	})
	ledger.Skipped = skipped
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("root", root).Msg("destination does not exist yet, starting with an empty ledger")
			return ledger, nil
		}
		return nil, errors.Errorf("building destination ledger: %w", err)
	}

	logger.Debug().
		Str("root", root).
		Int("identities", ledger.Len()).
		Int("skipped", len(ledger.Skipped)).
		Msg("destination ledger built")

	return ledger, nil
}
