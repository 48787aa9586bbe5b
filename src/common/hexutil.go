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

// go/src/common/hexutil.go
package common

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
)

// Encoding selects the text form used when printing digests.
type Encoding string

const (
	EncodingHex    Encoding = "hex"
	EncodingBase58 Encoding = "base58"
)

// Bytes2Hex converts bytes to hexadecimal string
func Bytes2Hex(b []byte) string {
	return hex.EncodeToString(b)
}

// Hex2Bytes converts hexadecimal string to bytes
func Hex2Bytes(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// HexToBytesWithoutPrefix converts hex string (with or without prefix) to bytes
func HexToBytesWithoutPrefix(hexStr string) ([]byte, error) {
	// Remove "0x" prefix if present
	cleanHex := strings.TrimPrefix(hexStr, "0x")
	return hex.DecodeString(cleanHex)
}

// IsValidHexString checks if a string is valid hexadecimal
func IsValidHexString(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// ParseEncoding validates an encoding name coming from flags or config.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case "", EncodingHex:
		return EncodingHex, nil
	case EncodingBase58:
		return EncodingBase58, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (want hex or base58)", s)
	}
}

// EncodeDigest renders a digest in the requested encoding.
func EncodeDigest(b []byte, enc Encoding) string {
	if enc == EncodingBase58 {
		return base58.Encode(b)
	}
	return hex.EncodeToString(b)
}

// DecodeDigest parses a digest printed by EncodeDigest.
func DecodeDigest(s string, enc Encoding) ([]byte, error) {
	if enc == EncodingBase58 {
		// base58.Decode signals bad input with an empty result
		b := base58.Decode(s)
		if len(b) == 0 && len(s) != 0 {
			return nil, fmt.Errorf("invalid base58 digest: %s", s)
		}
		return b, nil
	}
	b, err := HexToBytesWithoutPrefix(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex digest: %w", err)
	}
	return b, nil
}
