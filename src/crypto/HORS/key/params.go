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

package hors

import (
	"errors"
	"fmt"

	"github.com/sphinx-core/hashsig/src/common"
)

// Default parameter values.
const (
	DefaultL = 10  // bytes per secret pool element
	DefaultK = 20  // pool elements revealed per signature
	DefaultT = 256 // pool size; one digest byte addresses the whole pool

	// MaxPoolSize is the largest pool a single digest byte can index without bias.
	MaxPoolSize = 256
)

var (
	// ErrParameterViolation is returned when k, l or t are inconsistent with
	// each other, with the digest, or between a key and a signature.
	ErrParameterViolation = errors.New("hors: parameter violation")
	// ErrSignatureMismatch is returned by Check when a revealed element does
	// not hash to the expected public value.
	ErrSignatureMismatch = errors.New("hors: signature mismatch")
)

// Params holds HORS parameters.
type Params struct {
	L         int              // Secret length in bytes
	K         int              // Signature length: number of revealed pool elements
	T         int              // Pool size, a power of two no larger than 256
	Algorithm common.Algorithm // Digest used for the message and the public values
}

// DefaultParams returns l=10, k=20, t=256 over sha1.
func DefaultParams() Params {
	return Params{L: DefaultL, K: DefaultK, T: DefaultT, Algorithm: common.SHA1}
}

// NewParams initializes HORS parameters over the default sha1 digest.
func NewParams(l, k, t int) (Params, error) {
	p := Params{L: l, K: k, T: t, Algorithm: common.SHA1}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate checks every parameter against the digest size.
func (p Params) Validate() error {
	size, err := common.Size(p.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParameterViolation, err)
	}
	if !validPoolSize(p.T) {
		return fmt.Errorf("%w: pool size t=%d must be a power of two in [1, %d]", ErrParameterViolation, p.T, MaxPoolSize)
	}
	if p.K < 1 || p.K > size {
		return fmt.Errorf("%w: k=%d exceeds the %d-byte %s digest", ErrParameterViolation, p.K, size, p.Algorithm)
	}
	if p.L < 1 || p.L > size {
		return fmt.Errorf("%w: l=%d must be in [1, %d]", ErrParameterViolation, p.L, size)
	}
	return nil
}

func validPoolSize(t int) bool {
	return t >= 1 && t <= MaxPoolSize && t&(t-1) == 0
}

// PoolIndex maps a digest byte to a pool position. t must be a valid pool
// size; for powers of two the mask equals b mod t and carries no bias.
func PoolIndex(b byte, t int) int {
	return int(b) & (t - 1)
}

// PoolIndexChecked is PoolIndex with the pool size asserted.
func PoolIndexChecked(b byte, t int) (int, error) {
	if !validPoolSize(t) {
		return 0, fmt.Errorf("%w: pool size %d is not a power of two in [1, %d]", ErrParameterViolation, t, MaxPoolSize)
	}
	return PoolIndex(b, t), nil
}
