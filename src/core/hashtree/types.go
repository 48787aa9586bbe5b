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
	"errors"
	"fmt"
)

// Sentinel is the literal value padding leaves are built from.
var Sentinel = []byte("0")

var (
	// ErrEmptyInput is returned when a tree is built over zero values.
	ErrEmptyInput = errors.New("hashtree: no values to commit")
	// ErrIndexOutOfRange is returned for leaf indices outside the padded tree.
	ErrIndexOutOfRange = errors.New("hashtree: leaf index out of range")
	// ErrMalformedProof is returned when proof entries are missing, do not
	// match the expected (round, position), or are left over.
	ErrMalformedProof = errors.New("hashtree: malformed proof")
	// ErrDuplicateLeaf is returned when a batch verification lists an ID twice.
	ErrDuplicateLeaf = errors.New("hashtree: duplicate leaf id")
	// ErrNoKnownLeaves is returned when a batch names no leaves at all.
	ErrNoKnownLeaves = errors.New("hashtree: no leaves requested")
	// ErrParameterViolation is returned for a padded size that is not a power of two.
	ErrParameterViolation = errors.New("hashtree: parameter violation")
)

// Side records where a proof sibling sits relative to the path value.
type Side int

const (
	Left  Side = iota // sibling is concatenated before the path value
	Right             // sibling is concatenated after the path value
)

// String returns "left" or "right".
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide is the inverse of String.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", ErrMalformedProof, s)
	}
}

// SingleProofNode is one step of a single-leaf inclusion proof.
type SingleProofNode struct {
	Side   Side
	Digest []byte
}

// Proof lists sibling digests from the leaf level up to, but excluding, the root.
type Proof []SingleProofNode

// BatchProofNode is a sibling digest needed by a batch proof. Position is
// the index of the node within its round; Round disambiguates levels.
type BatchProofNode struct {
	Round    int
	Position int
	Digest   []byte
}

// BatchProof is ordered by ascending Round, then ascending Position, and is
// consumed strictly in that order.
type BatchProof []BatchProofNode

// Leaf is a value claimed to sit at position ID of the committed list.
type Leaf struct {
	ID    int
	Value []byte
}

// Node is a tree value during batch reconstruction: either a known digest or
// a position no requested leaf depends on.
type Node struct {
	known  bool
	digest []byte
}

// Known wraps a digest.
func Known(digest []byte) Node { return Node{known: true, digest: digest} }

// Unknown marks a position whose value is not needed.
func Unknown() Node { return Node{} }

// IsKnown reports whether n carries a digest.
func (n Node) IsKnown() bool { return n.known }

// Digest returns the wrapped digest, or nil for Unknown.
func (n Node) Digest() []byte { return n.digest }
