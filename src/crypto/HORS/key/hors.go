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
	"bytes"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/sphinx-core/hashsig/src/common"
)

// GenerateKeyPair draws a fresh pool from crypto/rand.
func GenerateKeyPair(params Params) (*PrivateKey, *PublicKey, error) {
	return GenerateKeyPairFrom(rand.Reader, params)
}

// GenerateKeyPairFrom draws the secret pool from r. r must be a
// cryptographically secure source outside of tests.
func GenerateKeyPairFrom(r io.Reader, params Params) (*PrivateKey, *PublicKey, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	privKey := make([][]byte, params.T)
	pubKey := make([][]byte, params.T)
	for i := 0; i < params.T; i++ {
		privKey[i] = make([]byte, params.L)
		if _, err := io.ReadFull(r, privKey[i]); err != nil {
			return nil, nil, fmt.Errorf("failed to generate random private key: %w", err)
		}

		// V[i] = H(S[i]) truncated to l bytes
		digest, err := common.Chain(privKey[i], 1, params.Algorithm)
		if err != nil {
			return nil, nil, err
		}
		pubKey[i] = digest[:params.L]
	}

	return &PrivateKey{Params: params, Key: privKey},
		&PublicKey{Params: params, Key: pubKey},
		nil
}

// Sign signs message with sk. The key must not sign more messages than the
// few-time margin of its parameters allows.
func (sk *PrivateKey) Sign(message []byte) (*Signature, error) {
	s, err := NewSigner(sk)
	if err != nil {
		return nil, err
	}
	s.Write(message)
	return s.Sign()
}

// Verify reports whether sig is a valid signature of message under pk.
// Mismatches return (false, nil); errors are reserved for parameter
// violations. Checking stops at the first mismatching element and uses
// bytes.Equal, so verification time is not constant.
func (pk *PublicKey) Verify(message []byte, sig *Signature) (bool, error) {
	v, err := NewVerifier(pk)
	if err != nil {
		return false, err
	}
	v.Write(message)
	return v.Verify(sig)
}

// Check is Verify reporting a mismatch as ErrSignatureMismatch.
func (pk *PublicKey) Check(message []byte, sig *Signature) error {
	v, err := NewVerifier(pk)
	if err != nil {
		return err
	}
	v.Write(message)
	return v.Check(sig)
}

// signDigest selects one pool element per digest byte.
func signDigest(digest []byte, sk *PrivateKey) (*Signature, error) {
	k := sk.Params.K
	if k > len(digest) {
		return nil, fmt.Errorf("%w: k=%d exceeds digest length %d", ErrParameterViolation, k, len(digest))
	}
	t := len(sk.Key)
	if t != sk.Params.T || !validPoolSize(t) {
		return nil, fmt.Errorf("%w: private pool has %d elements, params declare t=%d", ErrParameterViolation, t, sk.Params.T)
	}

	sig := make([][]byte, k)
	for j := 0; j < k; j++ {
		n := PoolIndex(digest[j], t)
		sig[j] = append([]byte(nil), sk.Key[n]...)
	}
	return &Signature{Params: sk.Params, Sig: sig}, nil
}

// checkDigest re-hashes every revealed element and stops at the first one
// that does not match.
func checkDigest(digest []byte, pk *PublicKey, sig *Signature) error {
	if sig == nil {
		return fmt.Errorf("%w: nil signature", ErrParameterViolation)
	}
	if sig.Params != pk.Params {
		return fmt.Errorf("%w: signature parameters do not match public key parameters", ErrParameterViolation)
	}
	k := pk.Params.K
	if k > len(digest) {
		return fmt.Errorf("%w: k=%d exceeds digest length %d", ErrParameterViolation, k, len(digest))
	}
	if len(sig.Sig) != k {
		return fmt.Errorf("%w: signature has %d elements, want %d", ErrParameterViolation, len(sig.Sig), k)
	}
	t := len(pk.Key)
	if t != pk.Params.T || !validPoolSize(t) {
		return fmt.Errorf("%w: public pool has %d elements, params declare t=%d", ErrParameterViolation, t, pk.Params.T)
	}
	width := len(pk.Key[0])

	for j := 0; j < k; j++ {
		n := PoolIndex(digest[j], t)
		if len(pk.Key[n]) != width {
			return fmt.Errorf("%w: public element %d has length %d, want %d", ErrParameterViolation, n, len(pk.Key[n]), width)
		}
		cand, err := common.Chain(sig.Sig[j], 1, pk.Params.Algorithm)
		if err != nil {
			return err
		}
		if len(cand) < width || !bytes.Equal(cand[:width], pk.Key[n]) {
			return fmt.Errorf("%w: element %d", ErrSignatureMismatch, j)
		}
	}
	return nil
}
