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
	"path/filepath"
	"strconv"
	"strings"

	"github.com/walteh/datesort/pkg/config"
	"github.com/walteh/datesort/pkg/fsys"
	"github.com/walteh/datesort/pkg/hash"
	"github.com/walteh/datesort/pkg/inventory"
	"github.com/walteh/datesort/pkg/outcome"
	"gitlab.com/tozd/go/errors"
)

// 🎬 Operation is a unit of work the Runner executes
type Operation interface {
	Name() string
	Execute(ctx context.Context) error
}

// 🔧 Options wires an operation
type Options struct {
	// Config is the validated run configuration
	Config *config.Config
	// FS is the filesystem collaborator; fsys.OS when nil
	FS fsys.FS
	// Sink receives outcome records (organize only)
	Sink outcome.Sink
	// Ignore lists files left out of both walks, such as the manifest
	// being written into the destination.
	Ignore []string
}

func (o Options) fs() fsys.FS {
	if o.FS == nil {
		return fsys.OS{}
	}
	return o.FS
}

// 📊 Summary describes a finished (or aborted) run
type Summary struct {
	Source          string
	Destination     string
	Files           int
	Groups          int
	DuplicateGroups int
	Tally           outcome.Tally
	Skipped         []inventory.Skipped
}

// Rows renders the summary as label/value pairs for a table.
func (s Summary) Rows() [][]string {
	rows := [][]string{
		{"Files matched", strconv.Itoa(s.Files)},
		{"Distinct contents", strconv.Itoa(s.Groups)},
		{"Groups with duplicates", strconv.Itoa(s.DuplicateGroups)},
	}
	for _, r := range []outcome.Remark{outcome.Copied, outcome.AlreadyExists, outcome.DuplicateFile, outcome.Error} {
		if s.Tally == nil {
			break
		}
		rows = append(rows, []string{r.String(), strconv.Itoa(s.Tally[r])})
	}
	return append(rows, []string{"Skipped", strconv.Itoa(len(s.Skipped))})
}

// newBuilders returns the builder for the source walk and the one for the
// destination walk. When one root is nested in the other, the inner tree is
// pruned from the outer walk.
func newBuilders(opts Options) (src, dst *inventory.Builder, err error) {
	cfg, fs := opts.Config, opts.fs()
	hasher := hash.New(cfg.Algorithm(), fs)

	matcher, err := inventory.NewMatcher(cfg.Pattern, cfg.Exclude)
	if err != nil {
		return nil, nil, err
	}

	src, err = inventory.NewBuilder(inventory.Options{
		FS:      fs,
		Hasher:  hasher,
		Matcher: matcher,
		Prune:   append(nested(cfg.Destination, cfg.Source), opts.Ignore...),
	})
	if err != nil {
		return nil, nil, errors.Errorf("creating source builder: %w", err)
	}

	dst, err = inventory.NewBuilder(inventory.Options{
		FS:     fs,
		Hasher: hasher,
		Prune:  append(nested(cfg.Source, cfg.Destination), opts.Ignore...),
	})
	if err != nil {
		return nil, nil, errors.Errorf("creating destination builder: %w", err)
	}

	return src, dst, nil
}

// nested returns dir when it lies strictly inside root.
func nested(dir, root string) []string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return []string{dir}
}
