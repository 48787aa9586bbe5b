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

package hashtree

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sphinx-core/hashsig/src/common"
)

// GenerateSeveralProof returns one proof covering every requested leaf.
// A sibling is emitted only when exactly one node of a pair lies on a
// requested path; siblings implied by other requested leaves are left out.
// Repeated indices are collapsed.
func (c *Committer) GenerateSeveralProof(indices ...int) (BatchProof, error) {
	if len(indices) == 0 {
		return nil, ErrNoKnownLeaves
	}

	active := make([]bool, c.PaddedSize())
	for _, j := range indices {
		if err := c.checkIndex(j); err != nil {
			return nil, err
		}
		active[j] = true
	}

	var proof BatchProof
	for rid, lvl := range c.levels[:c.Height()] {
		next := make([]bool, len(lvl)/2)
		for i := 0; i < len(lvl); i += 2 {
			switch {
			case !active[i] && active[i+1]:
				proof = append(proof, BatchProofNode{Round: rid, Position: i, Digest: clone(lvl[i])})
			case active[i] && !active[i+1]:
				proof = append(proof, BatchProofNode{Round: rid, Position: i + 1, Digest: clone(lvl[i+1])})
			}
			// A parent is on a requested path if either child is
			next[i/2] = active[i] || active[i+1]
		}
		active = next
	}
	return proof, nil
}

// ForwardSeveral rebuilds the root from a sparse set of leaves and a batch
// proof. Only known nodes are held at each level, so the work is bounded by
// the number of leaves and proof entries times the tree height rather than by
// paddedSize. Neither leaves nor proof are modified.
func ForwardSeveral(leaves []Leaf, paddedSize int, proof BatchProof, alg common.Algorithm) ([]byte, error) {
	if !isPowerOfTwo(paddedSize) {
		return nil, fmt.Errorf("%w: padded size %d is not a power of two", ErrParameterViolation, paddedSize)
	}
	if len(leaves) == 0 {
		return nil, ErrNoKnownLeaves
	}

	level := make(map[int]Node, len(leaves))
	for _, leaf := range leaves {
		if leaf.ID < 0 || leaf.ID >= paddedSize {
			return nil, indexError(leaf.ID, paddedSize)
		}
		if level[leaf.ID].IsKnown() {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLeaf, leaf.ID)
		}
		digest, err := common.Chain(leaf.Value, 1, alg)
		if err != nil {
			return nil, err
		}
		level[leaf.ID] = Known(digest)
	}

	// cursor is the next unconsumed proof entry
	cursor := 0
	take := func(rid, pos int) (Node, error) {
		if cursor >= len(proof) {
			return Node{}, fmt.Errorf("%w: missing entry for round %d position %d", ErrMalformedProof, rid, pos)
		}
		entry := proof[cursor]
		if entry.Round != rid || entry.Position != pos {
			return Node{}, fmt.Errorf("%w: expected round %d position %d, found round %d position %d",
				ErrMalformedProof, rid, pos, entry.Round, entry.Position)
		}
		cursor++
		return Known(entry.Digest), nil
	}

	for rid, width := 0, paddedSize; width > 1; rid, width = rid+1, width/2 {
		// Pairs are visited in ascending position so entries are consumed in order
		positions := make([]int, 0, len(level))
		for pos := range level {
			positions = append(positions, pos)
		}
		sort.Ints(positions)

		next := make(map[int]Node, (len(positions)+1)/2)
		for idx := 0; idx < len(positions); idx++ {
			i := positions[idx] &^ 1
			if positions[idx] == i && idx+1 < len(positions) && positions[idx+1] == i+1 {
				idx++
			}
			left, right := nodeAt(level, i), nodeAt(level, i+1)

			var err error
			switch {
			case !left.IsKnown() && right.IsKnown():
				left, err = take(rid, i)
			case left.IsKnown() && !right.IsKnown():
				right, err = take(rid, i+1)
			}
			if err != nil {
				return nil, err
			}
			next[i/2] = Known(combine(left.Digest(), right.Digest(), alg))
		}
		level = next
	}

	if cursor != len(proof) {
		return nil, fmt.Errorf("%w: %d unconsumed entries", ErrMalformedProof, len(proof)-cursor)
	}
	root := level[0]
	if !root.IsKnown() {
		return nil, ErrNoKnownLeaves
	}
	return root.Digest(), nil
}

func nodeAt(level map[int]Node, pos int) Node {
	if n, ok := level[pos]; ok {
		return n
	}
	return Unknown()
}

// VerifySeveral reports whether proof places every leaf under commitment.
// Malformed proofs yield false together with the reason.
func VerifySeveral(commitment []byte, leaves []Leaf, paddedSize int, proof BatchProof, alg common.Algorithm) (bool, error) {
	root, err := ForwardSeveral(leaves, paddedSize, proof, alg)
	if err != nil {
		return false, err
	}
	return bytes.Equal(root, commitment), nil
}
