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

// go/src/cli/cli/cli.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sphinx-core/hashsig/src/common"
	"github.com/sphinx-core/hashsig/src/core/hashtree"
	"github.com/sphinx-core/hashsig/src/core/proof"
	hors "github.com/sphinx-core/hashsig/src/crypto/HORS/key"
	logger "github.com/sphinx-core/hashsig/src/log"
	"github.com/sphinx-core/hashsig/src/metrics"
	_ "github.com/sphinx-core/hashsig/src/spxhash/hash"
)

// Exit codes.
const (
	exitOK      = 0
	exitInvalid = 1 // a proof or signature did not verify
	exitError   = 2
)

// errInvalid makes Execute exit with exitInvalid.
var errInvalid = errors.New("verification failed")

const usage = `usage: hashsig [global flags] <command> [flags]

commands:
  commit   build a hash tree over -values and print its root
  prove    print a JSON inclusion proof for -index or -indices
  verify   check a proof file against -root
  sign     sign -message with a fresh HORS key pair and verify it

global flags:
`

// env is what every command needs after the global flags are parsed.
type env struct {
	cfg     *common.Config
	enc     common.Encoding
	out     io.Writer
	errOut  io.Writer
	metrics *metrics.Metrics
}

type command func(e *env, args []string) error

var commands = map[string]command{
	"commit": cmdCommit,
	"prove":  cmdProve,
	"verify": cmdVerify,
	"sign":   cmdSign,
}

// Execute parses global flags, dispatches to a command and maps its result to
// an exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	logger.SetOutput(stderr)

	global := flag.NewFlagSet("hashsig", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "JSON config file with default parameters")
	encoding := global.String("encoding", "", "digest encoding: hex or base58 (overrides config)")
	logLevel := global.String("log-level", "", "debug, info, warn or error (overrides config)")
	showMetrics := global.Bool("metrics", false, "print operation counters to stderr on exit")
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return exitError
	}

	cfg := common.DefaultConfig()
	if *configPath != "" {
		loaded, err := common.LoadConfig(*configPath)
		if err != nil {
			logger.Errorf("%v", err)
			return exitError
		}
		cfg = loaded
	}
	if *encoding != "" {
		cfg.Encoding = common.Encoding(*encoding)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	enc, err := common.ParseEncoding(string(cfg.Encoding))
	if err != nil {
		logger.Errorf("%v", err)
		return exitError
	}
	lvl, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Errorf("%v", err)
		return exitError
	}
	logger.SetLevel(lvl)

	if global.NArg() == 0 {
		global.Usage()
		return exitError
	}
	name, rest := global.Arg(0), global.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		logger.Errorf("unknown command %q", name)
		global.Usage()
		return exitError
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics()
	if err := m.Register(reg); err != nil {
		logger.Errorf("failed to register metrics: %v", err)
		return exitError
	}

	err = cmd(&env{cfg: cfg, enc: enc, out: stdout, errOut: stderr, metrics: m}, rest)

	if *showMetrics {
		if derr := dumpMetrics(stderr, reg); derr != nil {
			logger.Warnf("failed to gather metrics: %v", derr)
		}
	}
	_ = logger.Sync()

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalid):
		return exitInvalid
	case errors.Is(err, flag.ErrHelp):
		return exitError
	default:
		logger.Errorf("%s: %v", name, err)
		return exitError
	}
}

// newFlagSet reports parse errors and -h output on the command's stderr.
func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.errOut)
	return fs
}

func cmdCommit(e *env, args []string) error {
	fs := newFlagSet(e, "commit")
	values := fs.String("values", "", "comma-separated values to commit to")
	alg := fs.String("alg", string(e.cfg.TreeAlgorithm), algorithmUsage("tree digest algorithm"))
	if err := fs.Parse(args); err != nil {
		return err
	}

	tree, err := buildTree(e, *values, common.Algorithm(*alg))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, common.EncodeDigest(tree.GetCommitment(), e.enc))
	return nil
}

func cmdProve(e *env, args []string) error {
	fs := newFlagSet(e, "prove")
	values := fs.String("values", "", "comma-separated values to commit to")
	alg := fs.String("alg", string(e.cfg.TreeAlgorithm), algorithmUsage("tree digest algorithm"))
	index := fs.Int("index", -1, "leaf to prove")
	indices := fs.String("indices", "", "comma-separated leaves for a batch proof")
	out := fs.String("out", "", "write the proof to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*index >= 0) == (*indices != "") {
		return errors.New("exactly one of -index or -indices is required")
	}

	tree, err := buildTree(e, *values, common.Algorithm(*alg))
	if err != nil {
		return err
	}

	var doc []byte
	start := time.Now()
	if *index >= 0 {
		var p hashtree.Proof
		p, err = tree.GenerateProof(*index)
		e.metrics.Observe(metrics.OpProve, start, err)
		if err != nil {
			return err
		}
		doc, err = proof.EncodeSingle(&proof.Single{Algorithm: tree.Algorithm(), PaddedSize: tree.PaddedSize(), Proof: p})
	} else {
		var ids []int
		if ids, err = parseInts(*indices); err != nil {
			return err
		}
		var p hashtree.BatchProof
		p, err = tree.GenerateSeveralProof(ids...)
		e.metrics.Observe(metrics.OpProveBatch, start, err)
		if err != nil {
			return err
		}
		doc, err = proof.EncodeBatch(&proof.Batch{Algorithm: tree.Algorithm(), PaddedSize: tree.PaddedSize(), Proof: p})
	}
	if err != nil {
		return err
	}

	if *out == "" {
		_, err = fmt.Fprintln(e.out, string(doc))
		return err
	}
	if err := os.WriteFile(*out, doc, 0644); err != nil {
		return fmt.Errorf("failed to write proof: %w", err)
	}
	logger.Infof("Proof written to %s", *out)
	return nil
}

func cmdVerify(e *env, args []string) error {
	fs := newFlagSet(e, "verify")
	rootStr := fs.String("root", "", "commitment printed by commit")
	value := fs.String("value", "", "value claimed by a single proof")
	leaves := fs.String("leaves", "", "id=value pairs claimed by a batch proof, comma-separated")
	proofPath := fs.String("proof", "", "proof file written by prove")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *rootStr == "" || *proofPath == "" {
		return errors.New("-root and -proof are required")
	}

	root, err := common.DecodeDigest(*rootStr, e.enc)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*proofPath)
	if err != nil {
		return fmt.Errorf("failed to read proof: %w", err)
	}
	kind, err := proof.Kind(data)
	if err != nil {
		return err
	}

	var valid bool
	start := time.Now()
	switch kind {
	case proof.KindSingle:
		p, err := proof.DecodeSingle(data)
		if err != nil {
			return err
		}
		valid, err = hashtree.Verify(root, []byte(*value), p.Proof, p.Algorithm)
		e.metrics.ObserveVerify(metrics.OpVerifyProof, start, valid, err)
		if err != nil {
			return err
		}
	case proof.KindBatch:
		p, err := proof.DecodeBatch(data)
		if err != nil {
			return err
		}
		claimed, err := parseLeaves(*leaves)
		if err != nil {
			return err
		}
		valid, err = hashtree.VerifySeveral(root, claimed, p.PaddedSize, p.Proof, p.Algorithm)
		e.metrics.ObserveVerify(metrics.OpVerifyBatch, start, valid, err)
		if err != nil {
			return err
		}
	}

	if !valid {
		fmt.Fprintln(e.out, "invalid")
		return errInvalid
	}
	fmt.Fprintln(e.out, "valid")
	return nil
}

func cmdSign(e *env, args []string) error {
	fs := newFlagSet(e, "sign")
	message := fs.String("message", "", "message to sign")
	l := fs.Int("l", e.cfg.SecretLength, "secret length in bytes")
	k := fs.Int("k", e.cfg.SignatureSize, "revealed elements per signature")
	t := fs.Int("t", e.cfg.PoolSize, "pool size, a power of two up to 256")
	alg := fs.String("alg", string(e.cfg.SignAlgorithm), algorithmUsage("signature digest algorithm"))
	if err := fs.Parse(args); err != nil {
		return err
	}

	params := hors.Params{L: *l, K: *k, T: *t, Algorithm: common.Algorithm(*alg)}
	if err := params.Validate(); err != nil {
		return err
	}

	start := time.Now()
	km, err := hors.NewKeyManager(params)
	e.metrics.Observe(metrics.OpKeyGen, start, err)
	if err != nil {
		return err
	}
	km.Metrics = e.metrics

	sig, pk, _, err := km.SignAndRotate([]byte(*message))
	if err != nil {
		return err
	}
	valid, err := km.Verify(pk, []byte(*message), sig)
	if err != nil {
		return err
	}
	if !valid {
		return errInvalid
	}

	for _, el := range sig.Sig {
		fmt.Fprintln(e.out, common.EncodeDigest(el, e.enc))
	}
	logger.Infof("Signed %d-byte message with k=%d elements from a pool of %d", len(*message), params.K, params.T)
	return nil
}

// algorithmUsage appends the registered digest names to a flag description.
func algorithmUsage(desc string) string {
	names := make([]string, 0, len(common.Algorithms()))
	for _, alg := range common.Algorithms() {
		names = append(names, string(alg))
	}
	return desc + ": " + strings.Join(names, ", ")
}

// buildTree commits to a comma-separated list and records the build.
func buildTree(e *env, values string, alg common.Algorithm) (*hashtree.Committer, error) {
	if values == "" {
		return nil, hashtree.ErrEmptyInput
	}
	parts := strings.Split(values, ",")
	vals := make([][]byte, len(parts))
	for i, p := range parts {
		vals[i] = []byte(p)
	}

	start := time.Now()
	tree, err := hashtree.Build(vals, alg)
	e.metrics.Observe(metrics.OpCommit, start, err)
	return tree, err
}

func parseInts(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid index %q", p)
		}
		out[i] = n
	}
	return out, nil
}

// parseLeaves reads "0=a,2=c".
func parseLeaves(s string) ([]hashtree.Leaf, error) {
	if s == "" {
		return nil, hashtree.ErrNoKnownLeaves
	}
	parts := strings.Split(s, ",")
	out := make([]hashtree.Leaf, len(parts))
	for i, p := range parts {
		id, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("leaf %q is not id=value", p)
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, fmt.Errorf("invalid leaf id %q", id)
		}
		out[i] = hashtree.Leaf{ID: n, Value: []byte(value)}
	}
	return out, nil
}

// dumpMetrics writes every gathered family in the Prometheus text format.
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
