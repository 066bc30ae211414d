package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invariant-sdk/kernel/codec"
	"github.com/invariant-sdk/kernel/crystal"
	"github.com/invariant-sdk/kernel/identity"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDigestCmd(t *testing.T) {
	out, err := run(t, "", "digest", "cat", "dog")
	require.NoError(t, err)
	assert.Equal(t,
		identity.TokenDigestString("cat")+"\tcat\n"+identity.TokenDigestString("dog")+"\tdog\n",
		out)

	out, err = run(t, "", "digest", "--short", "cat")
	require.NoError(t, err)
	assert.Equal(t, identity.Hash16Hex([]byte("cat"))+"\tcat\n", out)

	_, err = run(t, "", "digest")
	assert.Error(t, err)
}

func TestBondCmd(t *testing.T) {
	out, err := run(t, "", "bond", "a", "b", "IMP")
	require.NoError(t, err)
	assert.Equal(t, identity.BondDigest("a", "b", "IMP")+"\n", out)
}

func TestMetricsCmd(t *testing.T) {
	out, err := run(t, "", "metrics", "cat")
	require.NoError(t, err)

	var doc metricsDoc
	require.NoError(t, codec.JSON{}.Unmarshal([]byte(out), &doc))
	assert.Equal(t, metricsDoc{Token: "cat", Weight: 6, Depth: 3, Leaves: 4, ShapeHash: identity.ComputeMetrics([]byte("cat"), true).ShapeHash}, doc)

	out, err = run(t, "", "metrics", "--bit", "cat")
	require.NoError(t, err)
	require.NoError(t, codec.JSON{}.Unmarshal([]byte(out), &doc))
	assert.Equal(t, uint32(51), doc.Weight)
}

func TestCrystallizeCmdJSON(t *testing.T) {
	out, err := run(t, "[[1,0],[1,0],[0,1]]", "crystallize", "--threshold", "0.5")
	require.NoError(t, err)

	var edges []crystal.Edge
	require.NoError(t, codec.JSON{}.Unmarshal([]byte(out), &edges))
	assert.Equal(t, []crystal.Edge{{Source: 0, Target: 1, Score: 1}}, edges)

	out, err = run(t, "[[1,0],[0,1]]", "crystallize", "--threshold", "0.5")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestCrystallizeCmdApproxFrame(t *testing.T) {
	out, err := run(t, "[[1,0],[1,0],[0,1]]",
		"crystallize", "--mode", "approx", "--top-k", "1", "--threshold", "0.5",
		"--seed", "1", "--workers", "1", "--format", "frame", "--compression", "lz4")
	require.NoError(t, err)

	edges, err := codec.DecodeEdges([]byte(out))
	require.NoError(t, err)
	canon := crystal.Canonicalize(edges)
	require.Len(t, canon, 1)
	assert.Equal(t, 0, canon[0].Source)
	assert.Equal(t, 1, canon[0].Target)
}

func TestCrystallizeCmdConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kernel.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("threshold: 0.9\nlog: {level: error}\n"), 0o600))
	vecPath := filepath.Join(dir, "vectors.json")
	require.NoError(t, os.WriteFile(vecPath, []byte("[[1,0],[0.8,0.6]]"), 0o600))

	out, err := run(t, "", "crystallize", "--config", cfgPath, vecPath)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	// Flags override the file.
	out, err = run(t, "", "crystallize", "--config", cfgPath, "--threshold", "0.5", vecPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"source":0`)
}

func TestCrystallizeCmdErrors(t *testing.T) {
	_, err := run(t, "[[1,0],[1]]", "crystallize")
	assert.ErrorContains(t, err, "dimension mismatch")

	_, err = run(t, "not json", "crystallize")
	assert.ErrorContains(t, err, "decode vectors")

	_, err = run(t, "[]", "crystallize", "--mode", "fuzzy")
	assert.Error(t, err)

	_, err = run(t, "[]", "crystallize", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestBlocksCmd(t *testing.T) {
	out, err := run(t, "Hello world.\n\n\n\nSecond  block here", "blocks")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "0\t"))
	assert.True(t, strings.HasSuffix(lines[0], "\t2"))
	assert.True(t, strings.HasSuffix(lines[1], "\t3"))
}
