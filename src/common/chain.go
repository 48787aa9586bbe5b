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

// go/src/common/chain.go
package common

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"sort"
	"sync"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a digest function usable by Chain.
type Algorithm string

// Registered digest algorithms.
const (
	SHA1       Algorithm = "sha1"        // 20 bytes, default for HORS signatures
	SHA256     Algorithm = "sha256"      // 32 bytes, default for hash trees
	SHA512     Algorithm = "sha512"      // 64 bytes
	SHA512_256 Algorithm = "sha512_256"  // 32 bytes
	SHA3_256   Algorithm = "sha3-256"    // 32 bytes
	SHA3_512   Algorithm = "sha3-512"    // 64 bytes
	SHAKE256   Algorithm = "shake256"    // 64 bytes read from the XOF
	BLAKE2b256 Algorithm = "blake2b-256" // 32 bytes
	RIPEMD160  Algorithm = "ripemd160"   // 20 bytes
	BLAKE3     Algorithm = "blake3"      // 32 bytes
	SpxHash    Algorithm = "spxhash"     // 32 bytes, registered by importing src/spxhash/hash
)

var (
	// ErrUnknownAlgorithm is returned when a digest name has not been registered.
	ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
	// ErrInvalidIterations is returned when Chain is asked for fewer than one round.
	ErrInvalidIterations = errors.New("chain iterations must be at least 1")
)

// algorithmEntry pairs a constructor with the digest size it produces.
type algorithmEntry struct {
	size int
	new  func() hash.Hash
}

var (
	registryMu sync.RWMutex
	registry   = map[Algorithm]algorithmEntry{
		SHA1:       {size: sha1.Size, new: sha1.New},
		SHA256:     {size: sha256.Size, new: sha256.New},
		SHA512:     {size: sha512.Size, new: sha512.New},
		SHA512_256: {size: sha512.Size256, new: sha512.New512_256},
		SHA3_256:   {size: 32, new: sha3.New256},
		SHA3_512:   {size: 64, new: sha3.New512},
		SHAKE256:   {size: 64, new: func() hash.Hash { return newShakeHash(64) }},
		BLAKE2b256: {size: blake2b.Size256, new: newBlake2b256},
		RIPEMD160:  {size: ripemd160.Size, new: ripemd160.New},
		BLAKE3:     {size: 32, new: func() hash.Hash { return blake3.New() }},
	}
)

// RegisterAlgorithm adds (or replaces) a named digest. size must match the
// length of what constructor's Sum produces.
func RegisterAlgorithm(name Algorithm, size int, constructor func() hash.Hash) error {
	if name == "" || size <= 0 || constructor == nil {
		return fmt.Errorf("invalid registration for algorithm %q", name)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = algorithmEntry{size: size, new: constructor}
	return nil
}

// Algorithms lists every registered algorithm name in sorted order.
func Algorithms() []Algorithm {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]Algorithm, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func lookup(alg Algorithm) (algorithmEntry, error) {
	registryMu.RLock()
	entry, ok := registry[alg]
	registryMu.RUnlock()
	if !ok {
		return algorithmEntry{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return entry, nil
}

// Size returns the digest length in bytes for alg.
func Size(alg Algorithm) (int, error) {
	entry, err := lookup(alg)
	if err != nil {
		return 0, err
	}
	return entry.size, nil
}

// NewHasher returns a fresh running digest for alg, used to feed message
// bytes incrementally before signing or verifying.
func NewHasher(alg Algorithm) (hash.Hash, error) {
	entry, err := lookup(alg)
	if err != nil {
		return nil, err
	}
	return entry.new(), nil
}

// Chain applies the digest alg to data iterations times and returns the
// final digest. data is never modified.
func Chain(data []byte, iterations int, alg Algorithm) ([]byte, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	entry, err := lookup(alg)
	if err != nil {
		return nil, err
	}

	// A single hasher is reset between rounds
	h := entry.new()
	out := data
	for i := 0; i < iterations; i++ {
		h.Reset()
		h.Write(out)
		out = h.Sum(nil)
	}
	return out, nil
}

// MustChain is Chain for callers that have already validated alg and
// iterations. It panics on error.
func MustChain(data []byte, iterations int, alg Algorithm) []byte {
	out, err := Chain(data, iterations, alg)
	if err != nil {
		panic(err)
	}
	return out
}

// shakeHash adapts a SHAKE256 XOF to hash.Hash with a fixed output length.
type shakeHash struct {
	sha3.ShakeHash
	size int
}

func newShakeHash(size int) *shakeHash {
	return &shakeHash{ShakeHash: sha3.NewShake256(), size: size}
}

// Sum reads size bytes from a clone so the running state is left untouched.
func (s *shakeHash) Sum(b []byte) []byte {
	out := make([]byte, s.size)
	s.ShakeHash.Clone().Read(out)
	return append(b, out...)
}

func (s *shakeHash) Size() int { return s.size }

func newBlake2b256() hash.Hash {
	// blake2b.New256 only fails for oversized keys
	h, _ := blake2b.New256(nil)
	return h
}
