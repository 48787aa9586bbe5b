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

	"github.com/sphinx-core/hashsig/src/common"
)

// GenerateProof returns the sibling path of leaf j, leaf level first.
func (c *Committer) GenerateProof(j int) (Proof, error) {
	if err := c.checkIndex(j); err != nil {
		return nil, err
	}

	proof := make(Proof, 0, c.Height())
	for _, lvl := range c.levels[:c.Height()] {
		if j%2 == 0 {
			proof = append(proof, SingleProofNode{Side: Right, Digest: clone(lvl[j+1])})
		} else {
			proof = append(proof, SingleProofNode{Side: Left, Digest: clone(lvl[j-1])})
		}
		j /= 2
	}
	return proof, nil
}

// Forward hashes value and folds in each proof node in order, returning the
// candidate root.
func Forward(value []byte, proof Proof, alg common.Algorithm) ([]byte, error) {
	val, err := common.Chain(value, 1, alg)
	if err != nil {
		return nil, err
	}
	for i, node := range proof {
		switch node.Side {
		case Left:
			val = combine(node.Digest, val, alg)
		case Right:
			val = combine(val, node.Digest, alg)
		default:
			return nil, fmt.Errorf("%w: node %d has side %v", ErrMalformedProof, i, node.Side)
		}
	}
	return val, nil
}

// Verify reports whether proof places value under commitment.
func Verify(commitment, value []byte, proof Proof, alg common.Algorithm) (bool, error) {
	root, err := Forward(value, proof, alg)
	if err != nil {
		return false, err
	}
	return bytes.Equal(root, commitment), nil
}

func indexError(i, size int) error {
	return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, size)
}
