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

import "errors"

// SIPS-0001 https://github.com/sphinx-core/sips/wiki/SIPS-0001

// Define prime constants for hash calculations.
const (
	prime32  = 0x9e3779b9 // Mixing constant for the diffusion rounds
	saltSize = 16         // Size of salt in bytes (128 bits = 16 bytes)

	// Argon2id parameters. OWASP recommends m=37 MiB, t=1, p=1 as a minimum
	// for password storage; the stretch here only derives a per-input salt
	// and key, so a small memory cost keeps tree builds practical.
	memory      = 64 * 1024 // Memory cost in KiB
	iterations  = 2         // Number of Argon2id passes
	parallelism = 1         // Degree of parallelism
	stretchSize = 64        // Length of the stretched key in bytes

	rounds = 2000 // Diffusion rounds applied after the initial mix

	DefaultCacheSize = 1024 // Digests kept by the shared cache
	DefaultBitSize   = 256
)

// ErrUnsupportedBitSize is returned for any output size other than 256 bits.
var ErrUnsupportedBitSize = errors.New("spxhash: only 256-bit output is supported")

// Size returns the number of bytes in the hash.
func (s *SphinxHash) Size() int {
	return s.bitSize / 8
}

// BlockSize returns the SHA-512 block size, the largest block consumed by
// the underlying primitives.
func (s *SphinxHash) BlockSize() int {
	return 128
}
