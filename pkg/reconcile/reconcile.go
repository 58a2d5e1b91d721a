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

// Package reconcile decides, per identity group, whether content is already
// in the destination, must be copied, or is a duplicate, and emits one
// outcome record per source file.
package reconcile

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/fsys"
	"github.com/walteh/datesort/pkg/hash"
	"github.com/walteh/datesort/pkg/inventory"
	"github.com/walteh/datesort/pkg/outcome"
	"github.com/walteh/datesort/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// groupState is where a group lands after the ledger lookup.
type groupState int

const (
	stateAlreadyExists groupState = iota // identity present in the ledger
	stateProcess                         // new content: copy canonical, flag the rest
)

// 🔧 Options wires a Reconciler
type Options struct {
	FS      fsys.FS
	Planner *plan.Planner
	Ledger  *inventory.Ledger
	Sink    outcome.Sink
}

// ⚖️ Reconciler is single-use and not safe for concurrent use: it owns the
// record sequence and appends to the ledger.
type Reconciler struct {
	fs      fsys.FS
	planner *plan.Planner
	ledger  *inventory.Ledger
	sink    outcome.Sink

	seq   int
	tally outcome.Tally
}

func New(opts Options) (*Reconciler, error) {
	if opts.FS == nil {
		return nil, errors.Errorf("fs is required")
	}
	if opts.Planner == nil {
		return nil, errors.Errorf("planner is required")
	}
	if opts.Ledger == nil {
		return nil, errors.Errorf("ledger is required")
	}
	if opts.Sink == nil {
		return nil, errors.Errorf("sink is required")
	}
	return &Reconciler{
		fs:      opts.FS,
		planner: opts.Planner,
		ledger:  opts.Ledger,
		sink:    opts.Sink,
		tally:   outcome.Tally{},
	}, nil
}

// Run reconciles every group of inv in discovery order. Per-file copy
// failures become Error records; only a sink failure or cancellation stops
// the run early, leaving the records emitted so far in place.
func (r *Reconciler) Run(ctx context.Context, inv *inventory.Inventory) (outcome.Tally, error) {
	for _, g := range inv.Groups() {
		if err := ctx.Err(); err != nil {
			return r.tally, err
		}
		if err := r.reconcileGroup(ctx, g); err != nil {
			return r.tally, errors.Errorf("reconciling group %s: %w", g.Identity.Short(), err)
		}
	}
	return r.tally, nil
}

func (r *Reconciler) classify(g *inventory.Group) (groupState, []string) {
	if existing, ok := r.ledger.Lookup(g.Identity); ok {
		return stateAlreadyExists, existing
	}
	return stateProcess, nil
}

func (r *Reconciler) reconcileGroup(ctx context.Context, g *inventory.Group) error {
	logger := zerolog.Ctx(ctx).With().
		Str("identity", g.Identity.Short()).
		Int("members", len(g.Members)).
		Logger()

	state, existing := r.classify(g)
	if state == stateAlreadyExists {
		logger.Debug().Str("destination", existing[0]).Msg("content already in destination")
		for i, m := range g.Members {
			if err := r.emit(ctx, g.Identity, i, m, existing[0], outcome.AlreadyExists, ""); err != nil {
				return err
			}
		}
		return nil
	}

	canonical := SelectCanonical(g.Members)
	dest, remark, detail := r.copyCanonical(logger.WithContext(ctx), g.Identity, g.Members[canonical])

	for i, m := range g.Members {
		memberRemark, memberDetail := outcome.DuplicateFile, ""
		if i == canonical {
			memberRemark, memberDetail = remark, detail
		}
		if err := r.emit(ctx, g.Identity, i, m, dest, memberRemark, memberDetail); err != nil {
			return err
		}
	}
	return nil
}

// copyCanonical plans, prepares and copies the canonical member. It returns
// the destination used (the planned path when preparation failed), the
// remark for the canonical record and an error detail.
func (r *Reconciler) copyCanonical(ctx context.Context, id hash.Identity, c inventory.SourceFile) (string, outcome.Remark, string) {
	logger := zerolog.Ctx(ctx)
	planned := r.planner.Plan(c.ModifiedAt, c.Name)

	dest, err := r.planner.Prepare(ctx, planned)
	if err != nil {
		logger.Warn().Err(err).Str("source", c.Path).Str("destination", planned).Msg("cannot prepare destination")
		return planned, outcome.Error, err.Error()
	}

	if err := r.fs.Copy(ctx, c.Path, dest); err != nil {
		logger.Warn().Err(err).Str("source", c.Path).Str("destination", dest).Msg("cannot copy file")
		return dest, outcome.Error, err.Error()
	}

	r.ledger.Add(id, dest)
	logger.Debug().Str("source", c.Path).Str("destination", dest).Msg("copied canonical file")
	return dest, outcome.Copied, ""
}

func (r *Reconciler) emit(ctx context.Context, id hash.Identity, idx int, m inventory.SourceFile, dest string, remark outcome.Remark, detail string) error {
	r.seq++
	rec := outcome.Record{
		SequenceNo:       r.seq,
		Identity:         id,
		CountWithinGroup: idx + 1,
		Filename:         m.Name,
		SourcePath:       m.Path,
		DestinationPath:  dest,
		ModifiedAt:       m.ModifiedAt,
		Remark:           remark,
		Detail:           detail,
	}
	if err := r.sink.Emit(ctx, rec); err != nil {
		return errors.Errorf("emitting record %d: %w", rec.SequenceNo, err)
	}
	r.tally.Add(remark)
	return nil
}
