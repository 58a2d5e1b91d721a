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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/inventory"
	"github.com/walteh/datesort/pkg/reconcile"
	"gitlab.com/tozd/go/errors"
)

// DuplicateSet is one content shared by several source files. Keep is the
// index of the member an organize run would copy.
type DuplicateSet struct {
	*inventory.Group
	Keep int
}

// 🔎 Dupes scans the source tree only and lists contents held by more than
// one file. It never touches the filesystem beyond reading.
type Dupes struct {
	opts    Options
	sets    []DuplicateSet
	summary Summary
}

var _ Operation = (*Dupes)(nil)

func NewDupes(opts Options) (*Dupes, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	return &Dupes{opts: opts}, nil
}

func (d *Dupes) Name() string { return "dupes" }

// Sets returns the duplicate sets in discovery order.
func (d *Dupes) Sets() []DuplicateSet { return d.sets }

func (d *Dupes) Summary() Summary { return d.summary }

func (d *Dupes) Execute(ctx context.Context) error {
	cfg := d.opts.Config

	src, _, err := newBuilders(d.opts)
	if err != nil {
		return err
	}

	inv, err := src.Build(ctx, cfg.Source)
	if err != nil {
		return err
	}

	d.sets = d.sets[:0]
	for _, g := range inv.Duplicates() {
		d.sets = append(d.sets, DuplicateSet{Group: g, Keep: reconcile.SelectCanonical(g.Members)})
	}

	d.summary = Summary{
		Source:          cfg.Source,
		Files:           inv.Files(),
		Groups:          inv.Len(),
		DuplicateGroups: len(d.sets),
		Skipped:         inv.Skipped,
	}

	zerolog.Ctx(ctx).Info().
		Int("files", inv.Files()).
		Int("duplicate_groups", len(d.sets)).
		Msg("duplicate scan finished")

	return nil
}
