// MIT License
//
// # Copyright (c) 2024 sphinx-core
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

// go/src/common/config.go
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the defaults the command line tool starts from. Every field
// can be overridden by a flag.
type Config struct {
	// HORS few-time signature parameters
	SecretLength  int       `json:"secret_length"`  // l: bytes per pool element
	SignatureSize int       `json:"signature_size"` // k: revealed elements per signature
	PoolSize      int       `json:"pool_size"`      // t: pool elements, power of two <= 256
	SignAlgorithm Algorithm `json:"sign_algorithm"`

	// Hash tree digest
	TreeAlgorithm Algorithm `json:"tree_algorithm"`

	// Output
	Encoding Encoding `json:"encoding"`
	LogLevel string   `json:"log_level"`
}

// DefaultConfig returns the stock parameter set: l=10, k=20, t=256 over
// sha1 for signatures and sha256 for trees.
func DefaultConfig() *Config {
	return &Config{
		SecretLength:  10,
		SignatureSize: 20,
		PoolSize:      256,
		SignAlgorithm: SHA1,
		TreeAlgorithm: SHA256,
		Encoding:      EncodingHex,
		LogLevel:      "info",
	}
}

// LoadConfig reads a JSON config file. Missing fields keep their defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the algorithms and encoding are known. Numeric HORS
// parameters are checked by the signature package itself.
func (c *Config) Validate() error {
	if _, err := Size(c.SignAlgorithm); err != nil {
		return fmt.Errorf("sign_algorithm: %w", err)
	}
	if _, err := Size(c.TreeAlgorithm); err != nil {
		return fmt.Errorf("tree_algorithm: %w", err)
	}
	if _, err := ParseEncoding(string(c.Encoding)); err != nil {
		return err
	}
	return nil
}

// WriteConfig stores cfg as indented JSON, creating parent directories.
func WriteConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
