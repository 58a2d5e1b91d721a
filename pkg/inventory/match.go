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
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Matcher decides which walked files are candidates.
//
// The pattern is a case-insensitive regular expression searched anywhere in
// the full path. Exclude patterns are doublestar globs matched against the
// slash-separated path relative to the walked root.
type Matcher struct {
	pattern *regexp.Regexp
	exclude []string
}

func NewMatcher(pattern string, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	if pattern != "" {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, errors.Errorf("compiling pattern %q: %w", pattern, err)
		}
		m.pattern = re
	}
	for _, ex := range exclude {
		if !doublestar.ValidatePattern(ex) {
			return nil, errors.Errorf("invalid exclude pattern %q", ex)
		}
		m.exclude = append(m.exclude, ex)
	}
	return m, nil
}

// Match reports whether path, found while walking root, is a candidate.
func (m *Matcher) Match(root, path string) bool {
	if m.pattern != nil && !m.pattern.MatchString(path) {
		return false
	}
	if len(m.exclude) == 0 {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, ex := range m.exclude {
		if ok, _ := doublestar.Match(ex, rel); ok {
			return false
		}
	}
	return true
}
