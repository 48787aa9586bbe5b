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

// Package proof is the JSON wire form of hashtree proofs. Digests are hex
// encoded; the document records the digest algorithm and the padded leaf
// count so a verifier needs nothing beyond the commitment and the values.
package proof

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sphinx-core/hashsig/src/common"
	"github.com/sphinx-core/hashsig/src/core/hashtree"
)

// Document kinds.
const (
	KindSingle = "single"
	KindBatch  = "batch"
)

// ErrInvalidDocument is returned for documents that do not decode to a
// usable proof.
var ErrInvalidDocument = errors.New("proof: invalid document")

// Single is a single-leaf inclusion proof together with its tree parameters.
type Single struct {
	Algorithm  common.Algorithm
	PaddedSize int
	Proof      hashtree.Proof
}

// Batch is a batch inclusion proof together with its tree parameters.
type Batch struct {
	Algorithm  common.Algorithm
	PaddedSize int
	Proof      hashtree.BatchProof
}

type document struct {
	Kind       string           `json:"kind"`
	Algorithm  common.Algorithm `json:"algorithm"`
	PaddedSize int              `json:"paddedSize"`
	Nodes      json.RawMessage  `json:"nodes"`
}

type singleNode struct {
	Side   string `json:"side"`
	Digest string `json:"digest"`
}

type batchNode struct {
	Round    int    `json:"round"`
	Position int    `json:"position"`
	Digest   string `json:"digest"`
}

// EncodeSingle renders s as indented JSON.
func EncodeSingle(s *Single) ([]byte, error) {
	nodes := make([]singleNode, len(s.Proof))
	for i, n := range s.Proof {
		if n.Side != hashtree.Left && n.Side != hashtree.Right {
			return nil, fmt.Errorf("%w: node %d has side %v", ErrInvalidDocument, i, n.Side)
		}
		nodes[i] = singleNode{Side: n.Side.String(), Digest: common.Bytes2Hex(n.Digest)}
	}
	return encode(KindSingle, s.Algorithm, s.PaddedSize, nodes)
}

// EncodeBatch renders b as indented JSON.
func EncodeBatch(b *Batch) ([]byte, error) {
	nodes := make([]batchNode, len(b.Proof))
	for i, n := range b.Proof {
		nodes[i] = batchNode{Round: n.Round, Position: n.Position, Digest: common.Bytes2Hex(n.Digest)}
	}
	return encode(KindBatch, b.Algorithm, b.PaddedSize, nodes)
}

func encode(kind string, alg common.Algorithm, paddedSize int, nodes any) ([]byte, error) {
	raw, err := json.Marshal(nodes)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(document{Kind: kind, Algorithm: alg, PaddedSize: paddedSize, Nodes: raw}, "", "  ")
}

// Kind reports whether data holds a single or a batch proof.
func Kind(data []byte) (string, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	switch doc.Kind {
	case KindSingle, KindBatch:
		return doc.Kind, nil
	default:
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidDocument, doc.Kind)
	}
}

// DecodeSingle parses a document produced by EncodeSingle. The padded size
// must agree with the number of nodes.
func DecodeSingle(data []byte) (*Single, error) {
	doc, err := decode(data, KindSingle)
	if err != nil {
		return nil, err
	}

	var nodes []singleNode
	if err := json.Unmarshal(doc.Nodes, &nodes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(nodes) >= 31 || doc.PaddedSize != 1<<len(nodes) {
		return nil, fmt.Errorf("%w: %d nodes cannot prove a tree of %d leaves", ErrInvalidDocument, len(nodes), doc.PaddedSize)
	}

	out := &Single{Algorithm: doc.Algorithm, PaddedSize: doc.PaddedSize, Proof: make(hashtree.Proof, len(nodes))}
	for i, n := range nodes {
		side, err := hashtree.ParseSide(n.Side)
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidDocument, i, err)
		}
		digest, err := decodeDigest(i, n.Digest)
		if err != nil {
			return nil, err
		}
		out.Proof[i] = hashtree.SingleProofNode{Side: side, Digest: digest}
	}
	return out, nil
}

// DecodeBatch parses a document produced by EncodeBatch. Entry order is
// preserved; ordering is checked by the verifier.
func DecodeBatch(data []byte) (*Batch, error) {
	doc, err := decode(data, KindBatch)
	if err != nil {
		return nil, err
	}

	var nodes []batchNode
	if err := json.Unmarshal(doc.Nodes, &nodes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.PaddedSize < 1 || doc.PaddedSize&(doc.PaddedSize-1) != 0 {
		return nil, fmt.Errorf("%w: padded size %d is not a power of two", ErrInvalidDocument, doc.PaddedSize)
	}

	out := &Batch{Algorithm: doc.Algorithm, PaddedSize: doc.PaddedSize, Proof: make(hashtree.BatchProof, len(nodes))}
	for i, n := range nodes {
		digest, err := decodeDigest(i, n.Digest)
		if err != nil {
			return nil, err
		}
		out.Proof[i] = hashtree.BatchProofNode{Round: n.Round, Position: n.Position, Digest: digest}
	}
	return out, nil
}

func decode(data []byte, want string) (*document, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Kind != want {
		return nil, fmt.Errorf("%w: expected a %s proof, found %q", ErrInvalidDocument, want, doc.Kind)
	}
	if _, err := common.Size(doc.Algorithm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

func decodeDigest(i int, s string) ([]byte, error) {
	if s == "" || !common.IsValidHexString(s) {
		return nil, fmt.Errorf("%w: node %d digest %q is not hex", ErrInvalidDocument, i, s)
	}
	digest, err := common.Hex2Bytes(s)
	if err != nil {
		return nil, fmt.Errorf("%w: node %d: %v", ErrInvalidDocument, i, err)
	}
	return digest, nil
}
