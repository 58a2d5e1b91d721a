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
	"slices"

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/inventory"
	"github.com/walteh/datesort/pkg/outcome"
	"github.com/walteh/datesort/pkg/plan"
	"github.com/walteh/datesort/pkg/reconcile"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📦 Organize copies every distinct content of the source tree into the
// dated destination layout and reports one record per source file.
type Organize struct {
	opts    Options
	summary Summary
}

var _ Operation = (*Organize)(nil)

func NewOrganize(opts Options) (*Organize, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Sink == nil {
		return nil, errors.Errorf("sink is required")
	}
	return &Organize{opts: opts}, nil
}

func (o *Organize) Name() string { return "organize" }

// Summary is filled by Execute, including when it fails part way.
func (o *Organize) Summary() Summary { return o.summary }

func (o *Organize) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	cfg := o.opts.Config
	fs := o.opts.fs()

	o.summary = Summary{Source: cfg.Source, Destination: cfg.Destination, Tally: outcome.Tally{}}

	inv, ledger, err := o.index(ctx)
	if err != nil {
		return err
	}

	o.summary.Files = inv.Files()
	o.summary.Groups = inv.Len()
	o.summary.DuplicateGroups = len(inv.Duplicates())
	o.summary.Skipped = slices.Concat(inv.Skipped, ledger.Skipped)

	logger.Info().
		Int("files", inv.Files()).
		Int("groups", inv.Len()).
		Int("known", ledger.Len()).
		Msg("indexes built")

	r, err := reconcile.New(reconcile.Options{
		FS: fs,
		Planner: plan.New(plan.Options{
			Root:     cfg.Destination,
			Layout:   cfg.FilenameLayout,
			Location: cfg.Location(),
			FS:       fs,
		}),
		Ledger: ledger,
		Sink:   o.opts.Sink,
	})
	if err != nil {
		return errors.Errorf("creating reconciler: %w", err)
	}

	tally, err := r.Run(ctx, inv)
	o.summary.Tally = tally
	if err != nil {
		return errors.Errorf("reconciling: %w", err)
	}
	return nil
}

// index builds the source inventory and the destination ledger in parallel.
func (o *Organize) index(ctx context.Context) (*inventory.Inventory, *inventory.Ledger, error) {
	cfg := o.opts.Config

	src, dst, err := newBuilders(o.opts)
	if err != nil {
		return nil, nil, err
	}

	var (
		inv    *inventory.Inventory
		ledger *inventory.Ledger
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inv, err = src.Build(gctx, cfg.Source)
		return err
	})
	g.Go(func() error {
		var err error
		ledger, err = dst.BuildLedger(gctx, cfg.Destination)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return inv, ledger, nil
}
