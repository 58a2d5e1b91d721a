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

	"github.com/rs/zerolog"
	"github.com/walteh/datesort/pkg/hash"
	"github.com/walteh/datesort/pkg/ordered"
	"gitlab.com/tozd/go/errors"
)

// Group is the set of source files sharing one identity, in walk order.
type Group struct {
	Identity hash.Identity
	Members  []SourceFile
}

// 📦 Inventory maps identities to groups in first-seen order
type Inventory struct {
	Root    string
	Skipped []Skipped

	groups *ordered.Map[hash.Identity, *Group]
	files  int
}

func NewInventory(root string) *Inventory {
	return &Inventory{
		Root:   root,
		groups: ordered.New[hash.Identity, *Group](),
	}
}

// Add appends f to the group for id, creating the group on first sight.
func (inv *Inventory) Add(f SourceFile, id hash.Identity) {
	g := inv.groups.GetOrInsert(id, func() *Group { return &Group{Identity: id} })
	g.Members = append(g.Members, f)
	inv.files++
}

// Groups returns every group in discovery order.
func (inv *Inventory) Groups() []*Group {
	out := make([]*Group, 0, inv.groups.Len())
	for _, g := range inv.groups.All() {
		out = append(out, g)
	}
	return out
}

// Duplicates returns the groups with more than one member.
func (inv *Inventory) Duplicates() []*Group {
	var out []*Group
	for _, g := range inv.groups.All() {
		if len(g.Members) > 1 {
			out = append(out, g)
		}
	}
	return out
}

func (inv *Inventory) Group(id hash.Identity) (*Group, bool) {
	return inv.groups.Get(id)
}

// Len is the number of distinct identities.
func (inv *Inventory) Len() int { return inv.groups.Len() }

// Files is the number of grouped files.
func (inv *Inventory) Files() int { return inv.files }

// Build walks the source tree rooted at root.
func (b *Builder) Build(ctx context.Context, root string) (*Inventory, error) {
	inv := NewInventory(root)

	skipped, err := b.scan(ctx, root, inv.Add)
	inv.Skipped = skipped
	if err != nil {
		return nil, errors.Errorf("building source inventory: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("root", root).
		Int("files", inv.Files()).
		Int("identities", inv.Len()).
		Int("skipped", len(inv.Skipped)).
		Msg("source inventory built")

	return inv, nil
}
