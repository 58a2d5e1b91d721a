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

package fsys

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Kind classifies a filesystem failure by the stage of a run it happened in.
type Kind int

const (
	KindUnknown   Kind = iota
	KindRead           // file unreadable while hashing
	KindCopy           // destination write failed
	KindMkdir          // destination directory could not be created
	KindTraversal      // a walked entry could not be listed or stat'd
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read error"
	case KindCopy:
		return "copy error"
	case KindMkdir:
		return "directory create error"
	case KindTraversal:
		return "traversal error"
	default:
		return "unknown error"
	}
}

// ❌ Error is returned by every FS primitive
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
