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

// Package hash computes content identities for files.
package hash

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	gohash "hash"
	"io"
	"strings"

	"github.com/walteh/datesort/pkg/fsys"
	"github.com/zeebo/blake3"
	"gitlab.com/tozd/go/errors"
)

// ChunkSize bounds how much of a file is held in memory while hashing.
const ChunkSize = 4096

// Algorithm names a digest function.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	BLAKE3 Algorithm = "blake3"
	MD5    Algorithm = "md5"
)

// Algorithms lists the supported algorithms in display order.
var Algorithms = []Algorithm{SHA256, BLAKE3, MD5}

// ParseAlgorithm accepts an algorithm name in any case; empty means SHA256.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "", SHA256:
		return SHA256, nil
	case BLAKE3:
		return BLAKE3, nil
	case MD5:
		return MD5, nil
	}
	return "", errors.Errorf("unknown hash algorithm %q", s)
}

func (a Algorithm) newHash() gohash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New()
	case MD5:
		return md5.New()
	default:
		return sha256.New()
	}
}

// Identity is the hex digest of a file's full content. Two files with equal
// identities are treated as byte-identical.
type Identity string

// Short is a display prefix of the identity.
func (id Identity) Short() string {
	if len(id) <= 12 {
		return string(id)
	}
	return string(id[:12])
}

// 🔑 Hasher streams files through a digest
type Hasher struct {
	algo Algorithm
	fs   fsys.FS
}

func New(algo Algorithm, fs fsys.FS) *Hasher {
	if algo == "" {
		algo = SHA256
	}
	return &Hasher{algo: algo, fs: fs}
}

func (h *Hasher) Algorithm() Algorithm { return h.algo }

// Hash reads path in ChunkSize pieces and returns its identity. The file
// handle is released before Hash returns. Failures are fsys.KindRead errors.
func (h *Hasher) Hash(ctx context.Context, path string) (Identity, error) {
	r, err := h.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return h.sum(ctx, path, r)
}

func (h *Hasher) sum(ctx context.Context, path string, r io.Reader) (Identity, error) {
	digest := h.algo.newHash()
	buf := make([]byte, ChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &fsys.Error{Kind: fsys.KindRead, Op: "read", Path: path, Err: err}
		}
	}
	return Identity(hex.EncodeToString(digest.Sum(nil))), nil
}

// Bytes returns the identity of an in-memory buffer under algo.
func Bytes(algo Algorithm, data []byte) Identity {
	digest := algo.newHash()
	digest.Write(data)
	return Identity(hex.EncodeToString(digest.Sum(nil)))
}
