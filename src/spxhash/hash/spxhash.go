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

package spxhash

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sphinx-core/hashsig/src/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
)

// SIPS-0001 https://github.com/sphinx-core/sips/wiki/SIPS-0001

// sharedCache is used by every SphinxHash built through New256.
var sharedCache = mustNewCache(DefaultCacheSize)

// Importing the package makes "spxhash" available to common.Chain.
func init() {
	if err := common.RegisterAlgorithm(common.SpxHash, DefaultBitSize/8, func() hash.Hash { return New256() }); err != nil {
		panic(err)
	}
}

func mustNewCache(size int) *digestCache {
	c, err := lru.New[[32]byte, []byte](size)
	if err != nil {
		panic(err)
	}
	return c
}

// NewSphinxHash creates a new SphinxHash with a specific bit size and its own
// cache of cacheSize entries. A cacheSize of zero or less uses the shared cache.
func NewSphinxHash(bitSize, cacheSize int) (*SphinxHash, error) {
	if bitSize != DefaultBitSize {
		return nil, ErrUnsupportedBitSize
	}
	cache := sharedCache
	if cacheSize > 0 {
		c, err := lru.New[[32]byte, []byte](cacheSize)
		if err != nil {
			return nil, err
		}
		cache = c
	}
	return &SphinxHash{bitSize: bitSize, cache: cache}, nil
}

// New256 returns a 256-bit SphinxHash backed by the shared cache.
func New256() *SphinxHash {
	return &SphinxHash{bitSize: DefaultBitSize, cache: sharedCache}
}

// Sum256 hashes data in one call.
func Sum256(data []byte) []byte {
	return New256().GetHash(data)
}

// Write adds data to the hash.
func (s *SphinxHash) Write(p []byte) (n int, err error) {
	s.data = append(s.data, p...) // Append new data to the existing data
	return len(p), nil            // Return the number of bytes written
}

// Sum appends the current hash to b and returns the resulting slice.
func (s *SphinxHash) Sum(b []byte) []byte {
	return append(b, s.GetHash(s.data)...)
}

// Reset discards buffered input.
func (s *SphinxHash) Reset() {
	s.data = s.data[:0]
}

// GetHash retrieves or calculates the hash of the given data. The returned
// slice is owned by the caller.
func (s *SphinxHash) GetHash(data []byte) []byte {
	// Fingerprint the whole input so short inputs and shared prefixes never collide in the cache
	key := sha256.Sum256(data)
	if cached, found := s.cache.Get(key); found {
		return append([]byte(nil), cached...)
	}

	digest := hashData(data)
	s.cache.Add(key, append([]byte(nil), digest...))
	return digest
}

// generateSalt derives a deterministic salt from the input using Argon2id.
func generateSalt(data []byte) []byte {
	return argon2.IDKey(data, data, iterations, memory, parallelism, saltSize)
}

// hashData calculates the combined hash of data using multiple hash functions.
func hashData(data []byte) []byte {
	salt := generateSalt(data)

	// Combine the input data with the salt for Argon2id.
	combined := make([]byte, 0, len(data)+len(salt))
	combined = append(combined, data...)
	combined = append(combined, salt...)
	// Key stretching using Argon2id, a memory-hard function.
	stretchedKey := argon2.IDKey(combined, salt, iterations, memory, parallelism, stretchSize)

	// Step 1: SHA-512/256 over the stretched key.
	sha2Hash := sha512.Sum512_256(stretchedKey)

	// Step 2: SHAKE256 over the stretched key, read to the output size.
	shakeHash := make([]byte, DefaultBitSize/8)
	sha3.ShakeSum256(shakeHash, stretchedKey)

	// Step 3: Combine both hashes.
	return sphinxHash(sha2Hash[:], shakeHash, prime32)
}

// sphinxHash combines two equal length digests using chaining
// (H∘(x) = H0(H1(x))) and concatenation (H|(x) = H0(x)|H1(x)), then runs the
// diffusion rounds and folds the prime constant into every 64-bit word.
func sphinxHash(hash1, hash2 []byte, primeConstant uint64) []byte {
	// Chain: SHA-512/256 of hash1, then SHAKE256 of that.
	chain1 := sha512.Sum512_256(hash1)
	chain2 := make([]byte, len(hash2))
	sha3.ShakeSum256(chain2, chain1[:])

	// Concatenate the chained results and hash once more.
	concat := make([]byte, 0, len(chain1)+len(chain2))
	concat = append(concat, chain1[:]...)
	concat = append(concat, chain2...)
	state := sha512.Sum512_256(concat)

	// Diffusion rounds: rotate and xor every byte, then re-hash.
	for round := 0; round < rounds; round++ {
		for i := range state {
			state[i] = (state[i] << 3) | (state[i] >> 5)
			state[i] ^= byte(primeConstant >> (round % 64))
		}
		state = sha512.Sum512_256(state[:])
	}

	// Add the prime constant to each little-endian 64-bit segment.
	out := state[:]
	for offset := 0; offset+8 <= len(out); offset += 8 {
		val := binary.LittleEndian.Uint64(out[offset : offset+8])
		binary.LittleEndian.PutUint64(out[offset:offset+8], val+primeConstant)
	}
	return out
}
