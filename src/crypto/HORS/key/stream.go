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
	"hash"

	"github.com/sphinx-core/hashsig/src/common"
)

// Signer accumulates message bytes into a running digest; Sign finalises it.
// A Signer is not safe for concurrent use.
type Signer struct {
	sk *PrivateKey
	h  hash.Hash
}

// NewSigner returns a Signer for sk.
func NewSigner(sk *PrivateKey) (*Signer, error) {
	if sk == nil {
		return nil, errors.New("private key is nil")
	}
	h, err := common.NewHasher(sk.Params.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Signer{sk: sk, h: h}, nil
}

// Write feeds message bytes into the digest. It never fails.
func (s *Signer) Write(p []byte) (int, error) {
	return s.h.Write(p)
}

// Sign signs everything written so far.
func (s *Signer) Sign() (*Signature, error) {
	return signDigest(s.h.Sum(nil), s.sk)
}

// Verifier accumulates message bytes into a running digest; Verify
// finalises it. A Verifier is not safe for concurrent use.
type Verifier struct {
	pk *PublicKey
	h  hash.Hash
}

// NewVerifier returns a Verifier for pk.
func NewVerifier(pk *PublicKey) (*Verifier, error) {
	if pk == nil {
		return nil, errors.New("public key is nil")
	}
	h, err := common.NewHasher(pk.Params.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Verifier{pk: pk, h: h}, nil
}

// Write feeds message bytes into the digest. It never fails.
func (v *Verifier) Write(p []byte) (int, error) {
	return v.h.Write(p)
}

// Verify reports whether sig signs everything written so far.
func (v *Verifier) Verify(sig *Signature) (bool, error) {
	err := v.Check(sig)
	if errors.Is(err, ErrSignatureMismatch) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Check is Verify reporting a mismatch as ErrSignatureMismatch.
func (v *Verifier) Check(sig *Signature) error {
	return checkDigest(v.h.Sum(nil), v.pk, sig)
}
