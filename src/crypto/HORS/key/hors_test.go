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
	"crypto/sha1"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sphinx-core/hashsig/src/common"
	"github.com/sphinx-core/hashsig/src/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestSignVerifyDefaultParams(t *testing.T) {
	sk, pk, err := GenerateKeyPair(DefaultParams())
	require.NoError(t, err)
	require.Len(t, sk.Key, DefaultT)
	require.Len(t, pk.Key, DefaultT)

	message := []byte("Hello, HORS!")
	sig, err := sk.Sign(message)
	require.NoError(t, err)
	require.Len(t, sig.Sig, DefaultK)

	valid, err := pk.Verify(message, sig)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestPublicKeyIsTruncatedDigest(t *testing.T) {
	sk, pk, err := GenerateKeyPairFrom(seeded(7), DefaultParams())
	require.NoError(t, err)
	for i := range sk.Key {
		require.Len(t, sk.Key[i], DefaultL)
		full := sha1.Sum(sk.Key[i])
		assert.Equal(t, full[:DefaultL], pk.Key[i])
	}
}

func TestDeterministicSmallPool(t *testing.T) {
	params, err := NewParams(4, 4, 16)
	require.NoError(t, err)

	sk, pk, err := GenerateKeyPairFrom(seeded(42), params)
	require.NoError(t, err)

	message := []byte("The quick brown fox jumps over the lazy dog")
	sig, err := sk.Sign(message)
	require.NoError(t, err)

	// sha1(message) starts 2f d4 e1 c6, selecting pool elements 15, 4, 1, 6
	expected := []string{"709b0758", "5b1484f2", "b164bf1b", "343e92ba"}
	require.Len(t, sig.Sig, len(expected))
	for j, want := range expected {
		assert.Equal(t, want, hex.EncodeToString(sig.Sig[j]), "element %d", j)
	}
	assert.Equal(t, "18628472", hex.EncodeToString(pk.Key[15]))
	assert.Equal(t, "0919a1e9", hex.EncodeToString(pk.Key[6]))

	// The same seed reproduces the same signature
	sk2, _, err := GenerateKeyPairFrom(seeded(42), params)
	require.NoError(t, err)
	sig2, err := sk2.Sign(message)
	require.NoError(t, err)
	assert.Equal(t, sig.Sig, sig2.Sig)

	valid, err := pk.Verify(message, sig)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestSignatureDoesNotAliasPrivateKey(t *testing.T) {
	params, err := NewParams(4, 4, 16)
	require.NoError(t, err)
	sk, _, err := GenerateKeyPairFrom(seeded(3), params)
	require.NoError(t, err)

	before := make([][]byte, len(sk.Key))
	for i := range sk.Key {
		before[i] = append([]byte(nil), sk.Key[i]...)
	}

	sig, err := sk.Sign([]byte("msg"))
	require.NoError(t, err)
	for _, el := range sig.Sig {
		el[0] ^= 0xff
	}
	assert.Equal(t, before, sk.Key)
}

func TestVerifyRejectsOtherMessage(t *testing.T) {
	sk, pk, err := GenerateKeyPairFrom(seeded(11), DefaultParams())
	require.NoError(t, err)

	sig, err := sk.Sign([]byte("Hello, HORS!"))
	require.NoError(t, err)

	valid, err := pk.Verify([]byte("Hello, HORS?"), sig)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyRejectsModifiedSignature(t *testing.T) {
	sk, pk, err := GenerateKeyPairFrom(seeded(12), DefaultParams())
	require.NoError(t, err)

	message := []byte("payload")
	sig, err := sk.Sign(message)
	require.NoError(t, err)

	for j := range sig.Sig {
		modified := &Signature{Params: sig.Params, Sig: make([][]byte, len(sig.Sig))}
		for i := range sig.Sig {
			modified.Sig[i] = append([]byte(nil), sig.Sig[i]...)
		}
		modified.Sig[j][0] ^= 0x01

		valid, err := pk.Verify(message, modified)
		require.NoError(t, err)
		assert.False(t, valid, "element %d", j)

		err = pk.Check(message, modified)
		assert.ErrorIs(t, err, ErrSignatureMismatch)
	}
}

func TestForgeryAcrossMessages(t *testing.T) {
	sk, pk, err := GenerateKeyPairFrom(seeded(99), DefaultParams())
	require.NoError(t, err)

	sig, err := sk.Sign([]byte("message A"))
	require.NoError(t, err)
	for i := 0; i < 64; i++ {
		other := []byte{'B', byte(i)}
		valid, err := pk.Verify(other, sig)
		require.NoError(t, err)
		assert.False(t, valid)
	}
}

func TestParameterViolations(t *testing.T) {
	_, err := NewParams(10, 21, 256)
	assert.ErrorIs(t, err, ErrParameterViolation, "k above sha1 digest length")

	_, err = NewParams(10, 20, 100)
	assert.ErrorIs(t, err, ErrParameterViolation, "t not a power of two")

	_, err = NewParams(10, 20, 512)
	assert.ErrorIs(t, err, ErrParameterViolation, "t above one byte")

	_, err = NewParams(0, 20, 256)
	assert.ErrorIs(t, err, ErrParameterViolation, "empty secrets")

	_, err = NewParams(21, 20, 256)
	assert.ErrorIs(t, err, ErrParameterViolation, "l above digest length")

	_, _, err = GenerateKeyPair(Params{L: 10, K: 20, T: 256, Algorithm: "md4"})
	assert.ErrorIs(t, err, ErrParameterViolation)
	assert.ErrorIs(t, err, common.ErrUnknownAlgorithm)
}

func TestSignRejectsOversizedK(t *testing.T) {
	sk, _, err := GenerateKeyPairFrom(seeded(5), DefaultParams())
	require.NoError(t, err)

	// Bypass Validate to reach the check in the signing path
	sk.Params.K = 21
	_, err = sk.Sign([]byte("m"))
	assert.ErrorIs(t, err, ErrParameterViolation)
}

func TestVerifyRejectsInconsistentKeys(t *testing.T) {
	params, err := NewParams(4, 4, 16)
	require.NoError(t, err)
	sk, pk, err := GenerateKeyPairFrom(seeded(6), params)
	require.NoError(t, err)
	message := []byte("m")
	sig, err := sk.Sign(message)
	require.NoError(t, err)

	other := DefaultParams()
	_, err = pk.Verify(message, &Signature{Params: other, Sig: sig.Sig})
	assert.ErrorIs(t, err, ErrParameterViolation, "parameter mismatch")

	_, err = pk.Verify(message, &Signature{Params: params, Sig: sig.Sig[:3]})
	assert.ErrorIs(t, err, ErrParameterViolation, "short signature")

	broken := &PublicKey{Params: params, Key: pk.Key[:12]}
	_, err = broken.Verify(message, sig)
	assert.ErrorIs(t, err, ErrParameterViolation, "pool not a power of two")

	// A power-of-two pool that disagrees with the declared t
	truncated := &PublicKey{Params: params, Key: pk.Key[:8]}
	_, err = truncated.Verify(message, sig)
	assert.ErrorIs(t, err, ErrParameterViolation, "public pool shorter than t")

	full, _, err := GenerateKeyPairFrom(seeded(6), DefaultParams())
	require.NoError(t, err)
	shortSK := &PrivateKey{Params: full.Params, Key: full.Key[:16]}
	_, err = shortSK.Sign(message)
	assert.ErrorIs(t, err, ErrParameterViolation, "private pool shorter than t")

	_, err = pk.Verify(message, nil)
	assert.ErrorIs(t, err, ErrParameterViolation)
}

func TestStreamingMatchesOneShot(t *testing.T) {
	sk, pk, err := GenerateKeyPairFrom(seeded(21), DefaultParams())
	require.NoError(t, err)

	message := bytes.Repeat([]byte("chunk-"), 100)
	oneShot, err := sk.Sign(message)
	require.NoError(t, err)

	signer, err := NewSigner(sk)
	require.NoError(t, err)
	for i := 0; i < len(message); i += 7 {
		end := i + 7
		if end > len(message) {
			end = len(message)
		}
		signer.Write(message[i:end])
	}
	streamed, err := signer.Sign()
	require.NoError(t, err)
	assert.Equal(t, oneShot.Sig, streamed.Sig)

	verifier, err := NewVerifier(pk)
	require.NoError(t, err)
	verifier.Write(message[:50])
	verifier.Write(message[50:])
	valid, err := verifier.Verify(streamed)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestAlternativeDigest(t *testing.T) {
	params := Params{L: 16, K: 32, T: 256, Algorithm: common.SHA256}
	sk, pk, err := GenerateKeyPairFrom(seeded(8), params)
	require.NoError(t, err)

	sig, err := sk.Sign([]byte("sha256 pool"))
	require.NoError(t, err)
	require.Len(t, sig.Sig, 32)

	valid, err := pk.Verify([]byte("sha256 pool"), sig)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestShortRandomSource(t *testing.T) {
	_, _, err := GenerateKeyPairFrom(bytes.NewReader(make([]byte, 15)), DefaultParams())
	assert.Error(t, err)
}

func TestPoolIndex(t *testing.T) {
	for _, size := range []int{1, 2, 16, 128, 256} {
		for b := 0; b < 256; b++ {
			assert.Equal(t, b%size, PoolIndex(byte(b), size))
		}
	}
	_, err := PoolIndexChecked(0x10, 48)
	assert.ErrorIs(t, err, ErrParameterViolation)
	n, err := PoolIndexChecked(0xff, 16)
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestKeyManagerSignAndRotate(t *testing.T) {
	km, err := NewKeyManagerFrom(seeded(1), DefaultParams())
	require.NoError(t, err)
	km.Metrics = metrics.NewMetrics()
	firstID := km.KeyID
	assert.NotEqual(t, uuid.Nil, firstID)

	message := []byte("first")
	sig, currentPK, nextPK, err := km.SignAndRotate(message)
	require.NoError(t, err)
	require.NotNil(t, nextPK)
	assert.NotEqual(t, firstID, km.KeyID)
	assert.NotEqual(t, currentPK.Key, nextPK.Key)
	assert.Same(t, nextPK, km.CurrentPK)

	valid, err := km.Verify(currentPK, message, sig)
	require.NoError(t, err)
	assert.True(t, valid)

	second := []byte("second")
	sig2, currentPK2, _, err := km.SignAndRotate(second)
	require.NoError(t, err)
	assert.Same(t, nextPK, currentPK2)

	valid, err = km.Verify(currentPK2, second, sig2)
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = km.Verify(currentPK, second, sig2)
	require.NoError(t, err)
	assert.False(t, valid)

	assert.Equal(t, 2.0, testutil.ToFloat64(km.Metrics.Rotations))
	assert.Equal(t, 2.0, testutil.ToFloat64(km.Metrics.Operations.WithLabelValues(metrics.OpSign, metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(km.Metrics.Operations.WithLabelValues(metrics.OpVerify, metrics.OutcomeRejected)))
}
