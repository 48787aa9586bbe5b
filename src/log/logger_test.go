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

package logger

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLevelFiltering(t *testing.T) {
	SetOutput(io.Discard)
	ResetLogs()
	SetLevel(WARN)
	defer SetLevel(INFO)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Error("also shown")

	logs := GetLogs()
	assert.NotContains(t, logs, "hidden 1")
	assert.Contains(t, logs, "shown 2")
	assert.Contains(t, logs, "WARN")
	assert.Contains(t, logs, "also shown")
}

func TestStructuredFields(t *testing.T) {
	SetOutput(io.Discard)
	ResetLogs()
	SetLevel(DEBUG)
	defer SetLevel(INFO)

	L().Debug("tree built", zap.Int("leaves", 4))
	assert.Contains(t, GetLogs(), "tree built")
	assert.Contains(t, GetLogs(), `"leaves": 4`)
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("ERROR")
	require.NoError(t, err)
	assert.Equal(t, "ERROR", lvl.String())

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
