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

// Package plan derives destination paths for canonical files: a
// year/month partition, a timestamp file name and collision-safe numbering.
package plan

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/walteh/datesort/pkg/fsys"
)

// DefaultLayout renders 2023-01-05 14:30:02 as 2023-Jan-05_14.30.02.
const DefaultLayout = "2006-Jan-02_15.04.05"

// Options configures a Planner.
type Options struct {
	Root     string
	Layout   string         // DefaultLayout when empty
	Location *time.Location // time.Local when nil
	FS       fsys.FS
}

// 🗺️ Planner maps a modification time and filename to a destination path
type Planner struct {
	root     string
	layout   string
	location *time.Location
	fs       fsys.FS
}

func New(opts Options) *Planner {
	p := &Planner{
		root:     filepath.Clean(opts.Root),
		layout:   opts.Layout,
		location: opts.Location,
		fs:       opts.FS,
	}
	if p.layout == "" {
		p.layout = DefaultLayout
	}
	if p.location == nil {
		p.location = time.Local
	}
	return p
}

func (p *Planner) Root() string { return p.root }

// Dir is root/<YYYY>/<Mon> for modifiedAt.
func (p *Planner) Dir(modifiedAt time.Time) string {
	t := modifiedAt.In(p.location)
	return filepath.Join(p.root, t.Format("2006"), t.Format("Jan"))
}

// Name is the timestamp file name for modifiedAt, keeping filename's
// extension as written.
func (p *Planner) Name(modifiedAt time.Time, filename string) string {
	return modifiedAt.In(p.location).Format(p.layout) + Ext(filename)
}

// Ext is the final dotted suffix of name. Dotfiles such as ".bashrc" and
// names ending in a dot have none.
func Ext(name string) string {
	name = filepath.Base(name)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// Plan is the candidate destination before collision resolution.
func (p *Planner) Plan(modifiedAt time.Time, filename string) string {
	return filepath.Join(p.Dir(modifiedAt), p.Name(modifiedAt, filename))
}

// Prepare creates the candidate's directory and resolves the candidate
// against the directory's current listing. A failed directory creation is
// returned as is (fsys.KindMkdir).
func (p *Planner) Prepare(ctx context.Context, candidate string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Dir(candidate)
	if err := p.fs.MkdirAll(dir); err != nil {
		return "", err
	}
	listing, err := p.fs.ListDir(dir)
	if err != nil {
		return "", err
	}
	return ResolveCollision(candidate, listing), nil
}

// ResolveCollision returns candidate when its name is free in listing, and
// otherwise <base>_(<n+1>)<ext> where n is the highest existing suffix for
// the same base and extension (0 when there is none).
func ResolveCollision(candidate string, listing []string) string {
	name := filepath.Base(candidate)
	if !slices.Contains(listing, name) {
		return candidate
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	n, _ := MaxSuffix(base, ext, listing)
	return filepath.Join(filepath.Dir(candidate), SuffixedName(base, ext, n+1))
}

// SuffixedName renders <base>_(<n>)<ext>.
func SuffixedName(base, ext string, n int) string {
	return fmt.Sprintf("%s_(%d)%s", base, n, ext)
}

// MaxSuffix scans names for <base>_(<n>)<ext> and returns the largest n.
// ok is false when no name carries a suffix for base.
func MaxSuffix(base, ext string, names []string) (highest int, ok bool) {
	for _, name := range names {
		n, matched := parseSuffix(base, ext, name)
		if !matched {
			continue
		}
		if !ok || n > highest {
			highest = n
			ok = true
		}
	}
	return highest, ok
}

func parseSuffix(base, ext, name string) (int, bool) {
	prefix := base + "_("
	suffix := ")" + ext
	if len(name) <= len(prefix)+len(suffix) {
		return 0, false
	}
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return 0, false
	}
	digits := name[len(prefix) : len(name)-len(suffix)]
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}
