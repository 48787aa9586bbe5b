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
	"crypto/rand"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	logger "github.com/sphinx-core/hashsig/src/log"
	"github.com/sphinx-core/hashsig/src/metrics"
)

// NewKeyManager initializes a KeyManager with a first key pair drawn from crypto/rand
func NewKeyManager(params Params) (*KeyManager, error) {
	return NewKeyManagerFrom(rand.Reader, params)
}

// NewKeyManagerFrom is NewKeyManager with an explicit random source.
func NewKeyManagerFrom(r io.Reader, params Params) (*KeyManager, error) {
	sk, pk, err := GenerateKeyPairFrom(r, params)
	if err != nil {
		return nil, fmt.Errorf("failed to generate initial key pair: %w", err)
	}
	return &KeyManager{
		Params:    params,
		CurrentSK: sk,
		CurrentPK: pk,
		KeyID:     uuid.New(),
		rand:      r,
	}, nil
}

// SignAndRotate signs message with the current key pair, then replaces it.
// It returns the signature, the public key that verifies it, and the public
// key that will verify the next signature.
func (km *KeyManager) SignAndRotate(message []byte) (*Signature, *PublicKey, *PublicKey, error) {
	km.mu.Lock()
	defer km.mu.Unlock()

	start := time.Now()
	sig, err := km.CurrentSK.Sign(message)
	km.Metrics.Observe(metrics.OpSign, start, err)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to sign message: %w", err)
	}

	currentPK := km.CurrentPK

	start = time.Now()
	newSK, newPK, err := GenerateKeyPairFrom(km.rand, km.Params)
	km.Metrics.Observe(metrics.OpKeyGen, start, err)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate new key pair: %w", err)
	}

	retired := km.KeyID
	km.CurrentSK = newSK
	km.CurrentPK = newPK
	km.NextPK = newPK
	km.KeyID = uuid.New()
	km.Metrics.IncRotations()
	logger.Debugf("HORS key %s retired after signing %d-byte message, next key %s (k=%d, t=%d)",
		retired, len(message), km.KeyID, km.Params.K, km.Params.T)

	return sig, currentPK, newPK, nil
}

// Verify checks sig against pk and records the outcome.
func (km *KeyManager) Verify(pk *PublicKey, message []byte, sig *Signature) (bool, error) {
	start := time.Now()
	valid, err := pk.Verify(message, sig)
	km.Metrics.ObserveVerify(metrics.OpVerify, start, valid, err)
	return valid, err
}
