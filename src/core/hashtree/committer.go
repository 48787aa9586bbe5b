// MIT License
//
// Copyright (c) 2024 sphinx-core
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package hashtree commits to an ordered list of values with a binary
// Merkle tree and produces single-leaf and batch inclusion proofs.
//
// Leaves are digests of the values; the list is padded up to a power of two
// with Sentinel, which is hashed like any other value. Parents are the
// digest of the left child's bytes followed by the right child's bytes.
package hashtree

import (
	"github.com/sphinx-core/hashsig/src/common"
	logger "github.com/sphinx-core/hashsig/src/log"
	"go.uber.org/zap"
)

// Committer holds every level of a built tree. It is immutable after Build
// and safe for concurrent use.
type Committer struct {
	alg    common.Algorithm
	size   int        // number of caller values, before padding
	levels [][][]byte // levels[0] holds the leaf digests, the last level holds the root
}

// NewCommitter builds a tree over values with sha256.
func NewCommitter(values [][]byte) (*Committer, error) {
	return Build(values, common.SHA256)
}

// Build pads values to the next power of two, hashes every leaf once and
// combines pairs until one node remains. values is not modified.
func Build(values [][]byte, alg common.Algorithm) (*Committer, error) {
	if len(values) == 0 {
		return nil, ErrEmptyInput
	}
	if _, err := common.Size(alg); err != nil {
		return nil, err
	}

	padded := nextPowerOfTwo(len(values))
	leaves := make([][]byte, padded)
	for i := range leaves {
		v := Sentinel
		if i < len(values) {
			v = values[i]
		}
		leaves[i] = common.MustChain(v, 1, alg)
	}

	levels := [][][]byte{leaves}
	for lvl := leaves; len(lvl) > 1; {
		next := make([][]byte, len(lvl)/2)
		for i := 0; i < len(lvl); i += 2 {
			next[i/2] = combine(lvl[i], lvl[i+1], alg)
		}
		levels = append(levels, next)
		lvl = next
	}

	logger.L().Debug("hash tree built",
		zap.Int("values", len(values)),
		zap.Int("padded", padded),
		zap.String("algorithm", string(alg)))

	return &Committer{alg: alg, size: len(values), levels: levels}, nil
}

// GetCommitment returns the root digest.
func (c *Committer) GetCommitment() []byte {
	return clone(c.levels[len(c.levels)-1][0])
}

// Algorithm returns the digest the tree was built with.
func (c *Committer) Algorithm() common.Algorithm { return c.alg }

// Size returns the number of committed values, excluding padding.
func (c *Committer) Size() int { return c.size }

// PaddedSize returns the number of leaves including padding.
func (c *Committer) PaddedSize() int { return len(c.levels[0]) }

// Height returns the number of levels above the leaves; it is also the
// length of every single-leaf proof.
func (c *Committer) Height() int { return len(c.levels) - 1 }

// Levels returns a copy of every level, leaves first.
func (c *Committer) Levels() [][][]byte {
	out := make([][][]byte, len(c.levels))
	for i, lvl := range c.levels {
		out[i] = make([][]byte, len(lvl))
		for j, d := range lvl {
			out[i][j] = clone(d)
		}
	}
	return out
}

// Leaf returns the digest stored at leaf position i.
func (c *Committer) Leaf(i int) ([]byte, error) {
	if err := c.checkIndex(i); err != nil {
		return nil, err
	}
	return clone(c.levels[0][i]), nil
}

func (c *Committer) checkIndex(i int) error {
	if i < 0 || i >= c.PaddedSize() {
		return indexError(i, c.PaddedSize())
	}
	return nil
}

// combine hashes left||right. alg must already be validated.
func combine(left, right []byte, alg common.Algorithm) []byte {
	buf := make([]byte, 0, len(left)+len(right))
	buf = append(buf, left...)
	buf = append(buf, right...)
	return common.MustChain(buf, 1, alg)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func isPowerOfTwo(n int) bool {
	return n >= 1 && n&(n-1) == 0
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
