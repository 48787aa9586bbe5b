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
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/sphinx-core/hashsig/src/metrics"
)

// PrivateKey represents a HORS private key
type PrivateKey struct {
	Params Params
	Key    [][]byte // t random values of length l
}

// PublicKey represents a HORS public key
type PublicKey struct {
	Params Params
	Key    [][]byte // t hashed values truncated to l bytes
}

// Signature represents a HORS signature
type Signature struct {
	Params Params
	Sig    [][]byte // k pool elements, one per digest byte position
}

// KeyManager rotates few-time key pairs: every signature is made with a
// fresh pair and the next public key is published alongside it.
type KeyManager struct {
	Params    Params
	CurrentSK *PrivateKey // Key used for the next signature
	CurrentPK *PublicKey  // Public half of CurrentSK
	NextPK    *PublicKey  // Public key announced by the last SignAndRotate
	KeyID     uuid.UUID   // Identifies CurrentSK in logs; changes on every rotation

	Metrics *metrics.Metrics // Optional; nil disables recording

	rand io.Reader
	mu   sync.Mutex
}
