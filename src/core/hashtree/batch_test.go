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
	"testing"

	"github.com/sphinx-core/hashsig/src/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leavesFor(vals [][]byte, ids ...int) []Leaf {
	out := make([]Leaf, len(ids))
	for i, id := range ids {
		v := Sentinel
		if id < len(vals) {
			v = vals[id]
		}
		out[i] = Leaf{ID: id, Value: v}
	}
	return out
}

func cloneBatch(p BatchProof) BatchProof {
	out := make(BatchProof, len(p))
	for i, n := range p {
		out[i] = BatchProofNode{Round: n.Round, Position: n.Position, Digest: clone(n.Digest)}
	}
	return out
}

func TestBatchProofScenario(t *testing.T) {
	vals := strs("a", "b", "c", "d")
	c, err := NewCommitter(vals)
	require.NoError(t, err)

	proof, err := c.GenerateSeveralProof(0, 2)
	require.NoError(t, err)
	assert.Equal(t, BatchProof{
		{Round: 0, Position: 1, Digest: h([]byte("b"))},
		{Round: 0, Position: 3, Digest: h([]byte("d"))},
	}, proof)

	valid, err := VerifySeveral(c.GetCommitment(), leavesFor(vals, 0, 2), 4, proof, common.SHA256)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBatchProofAllSubsets(t *testing.T) {
	for _, n := range []int{5, 8} {
		vals := values(n)
		c, err := NewCommitter(vals)
		require.NoError(t, err)
		root := c.GetCommitment()

		for mask := 1; mask < 1<<n; mask++ {
			var ids []int
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					ids = append(ids, i)
				}
			}
			proof, err := c.GenerateSeveralProof(ids...)
			require.NoError(t, err)

			valid, err := VerifySeveral(root, leavesFor(vals, ids...), c.PaddedSize(), proof, common.SHA256)
			require.NoError(t, err, "n=%d ids=%v", n, ids)
			assert.True(t, valid, "n=%d ids=%v", n, ids)
		}
	}
}

func TestBatchProofSharesSiblings(t *testing.T) {
	c, err := NewCommitter(values(8))
	require.NoError(t, err)

	proof, err := c.GenerateSeveralProof(0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{proof[0].Round, proof[1].Round})
	assert.Len(t, proof, 2)

	single0, err := c.GenerateProof(0)
	require.NoError(t, err)
	single1, err := c.GenerateProof(1)
	require.NoError(t, err)
	assert.Less(t, len(proof), len(single0)+len(single1))

	all, err := c.GenerateSeveralProof(0, 1, 2, 3, 4, 5, 6, 7)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestBatchProofOrdering(t *testing.T) {
	c, err := NewCommitter(values(13))
	require.NoError(t, err)
	proof, err := c.GenerateSeveralProof(11, 2, 7)
	require.NoError(t, err)
	for i := 1; i < len(proof); i++ {
		prev, cur := proof[i-1], proof[i]
		ordered := prev.Round < cur.Round || (prev.Round == cur.Round && prev.Position < cur.Position)
		assert.True(t, ordered, "entry %d out of order", i)
	}
}

func TestBatchDuplicateIndicesCollapse(t *testing.T) {
	c, err := NewCommitter(values(8))
	require.NoError(t, err)
	once, err := c.GenerateSeveralProof(3, 6)
	require.NoError(t, err)
	twice, err := c.GenerateSeveralProof(6, 3, 3, 6)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestBatchLeafOrderIrrelevant(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	proof, err := c.GenerateSeveralProof(1, 4, 6)
	require.NoError(t, err)

	valid, err := VerifySeveral(c.GetCommitment(), leavesFor(vals, 6, 1, 4), 8, proof, common.SHA256)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBatchSentinelValuedLeaf(t *testing.T) {
	vals := strs("a", "0", "c")
	c, err := NewCommitter(vals)
	require.NoError(t, err)

	proof, err := c.GenerateSeveralProof(1, 3)
	require.NoError(t, err)
	valid, err := VerifySeveral(c.GetCommitment(), leavesFor(vals, 1, 3), 4, proof, common.SHA256)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBatchTamperedValue(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	proof, err := c.GenerateSeveralProof(2, 5)
	require.NoError(t, err)

	leaves := leavesFor(vals, 2, 5)
	leaves[1].Value = []byte("forged")
	valid, err := VerifySeveral(c.GetCommitment(), leaves, 8, proof, common.SHA256)
	require.NoError(t, err)
	assert.False(t, valid)

	tampered := cloneBatch(proof)
	tampered[0].Digest[0] ^= 0x01
	valid, err = VerifySeveral(c.GetCommitment(), leavesFor(vals, 2, 5), 8, tampered, common.SHA256)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestBatchMalformedProofs(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	root := c.GetCommitment()
	leaves := leavesFor(vals, 0, 5)
	proof, err := c.GenerateSeveralProof(0, 5)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(proof), 3)

	cases := map[string]BatchProof{
		"dropped first": cloneBatch(proof[1:]),
		"dropped last":  cloneBatch(proof[:len(proof)-1]),
		"extra entry":   append(cloneBatch(proof), BatchProofNode{Round: 2, Position: 0, Digest: h([]byte("x"))}),
		"swapped":       append(BatchProof{proof[1], proof[0]}, cloneBatch(proof[2:])...),
	}
	wrongPos := cloneBatch(proof)
	wrongPos[0].Position++
	cases["wrong position"] = wrongPos
	wrongRound := cloneBatch(proof)
	wrongRound[0].Round++
	cases["wrong round"] = wrongRound

	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			valid, err := VerifySeveral(root, leaves, 8, p, common.SHA256)
			assert.ErrorIs(t, err, ErrMalformedProof)
			assert.False(t, valid)
		})
	}
}

func TestBatchParameterErrors(t *testing.T) {
	vals := values(4)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	root := c.GetCommitment()
	proof, err := c.GenerateSeveralProof(0, 1)
	require.NoError(t, err)

	_, err = VerifySeveral(root, leavesFor(vals, 0, 1), 6, proof, common.SHA256)
	assert.ErrorIs(t, err, ErrParameterViolation)
	_, err = VerifySeveral(root, leavesFor(vals, 0, 1), 0, proof, common.SHA256)
	assert.ErrorIs(t, err, ErrParameterViolation)

	_, err = VerifySeveral(root, nil, 4, proof, common.SHA256)
	assert.ErrorIs(t, err, ErrNoKnownLeaves)

	dup := []Leaf{{ID: 0, Value: vals[0]}, {ID: 0, Value: vals[0]}}
	_, err = VerifySeveral(root, dup, 4, proof, common.SHA256)
	assert.ErrorIs(t, err, ErrDuplicateLeaf)

	_, err = VerifySeveral(root, []Leaf{{ID: 4, Value: []byte("x")}}, 4, nil, common.SHA256)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = VerifySeveral(root, leavesFor(vals, 0, 1), 4, proof, "md5")
	assert.ErrorIs(t, err, common.ErrUnknownAlgorithm)

	_, err = c.GenerateSeveralProof()
	assert.ErrorIs(t, err, ErrNoKnownLeaves)
	_, err = c.GenerateSeveralProof(1, 9)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestBatchHugePaddedSize(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	root := c.GetCommitment()
	proof, err := c.GenerateSeveralProof(0, 3)
	require.NoError(t, err)

	for _, size := range []int{1 << 40, 1 << 62} {
		valid, err := VerifySeveral(root, leavesFor(vals, 0), size, nil, common.SHA256)
		assert.ErrorIs(t, err, ErrMalformedProof, "size %d", size)
		assert.False(t, valid)

		valid, err = VerifySeveral(root, leavesFor(vals, 0, 3), size, proof, common.SHA256)
		assert.ErrorIs(t, err, ErrMalformedProof, "size %d", size)
		assert.False(t, valid)
	}

	_, err = VerifySeveral(root, []Leaf{{ID: 1 << 50, Value: []byte("x")}}, 1<<40, nil, common.SHA256)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestBatchSparseLeavesInLargeTree(t *testing.T) {
	vals := values(1000)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	require.Equal(t, 1024, c.PaddedSize())

	ids := []int{0, 511, 512, 999, 1023}
	proof, err := c.GenerateSeveralProof(ids...)
	require.NoError(t, err)
	valid, err := VerifySeveral(c.GetCommitment(), leavesFor(vals, ids...), 1024, proof, common.SHA256)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestBatchWrongPaddedSize(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	proof, err := c.GenerateSeveralProof(2)
	require.NoError(t, err)

	valid, _ := VerifySeveral(c.GetCommitment(), leavesFor(vals, 2), 16, proof, common.SHA256)
	assert.False(t, valid)
}

func TestBatchDoesNotModifyInputs(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)
	proof, err := c.GenerateSeveralProof(1, 2, 7)
	require.NoError(t, err)

	leaves := leavesFor(vals, 1, 2, 7)
	proofBefore := cloneBatch(proof)
	leavesBefore := leavesFor(vals, 1, 2, 7)

	for i := 0; i < 2; i++ {
		valid, err := VerifySeveral(c.GetCommitment(), leaves, 8, proof, common.SHA256)
		require.NoError(t, err)
		assert.True(t, valid, "pass %d", i)
	}
	assert.Equal(t, proofBefore, proof)
	assert.Equal(t, leavesBefore, leaves)
}

func TestBatchSingleLeafMatchesSingleProof(t *testing.T) {
	vals := values(8)
	c, err := NewCommitter(vals)
	require.NoError(t, err)

	batch, err := c.GenerateSeveralProof(5)
	require.NoError(t, err)
	single, err := c.GenerateProof(5)
	require.NoError(t, err)
	require.Len(t, batch, len(single))
	for i := range single {
		assert.Equal(t, single[i].Digest, batch[i].Digest)
		assert.Equal(t, i, batch[i].Round)
	}
}
