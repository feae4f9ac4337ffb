package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avpp/core/events"
	"github.com/kilianp07/avpp/infra/logger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		cfgPath, treePath, outDir, horizon, serveMetrics, progress = "", "", "", 0, false, false
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAbstractCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "abstract", "--tree", "testdata/tree.yaml", "--out", dir, "--horizon", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "1 AVPPs")
	assert.Contains(t, out, "avpp general={[30 200]} holes={} steps=4 converged=true")

	for _, name := range []string{"avpp.dat", "avpp_positive.csv", "avpp_negative.csv", "abstraction.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestAbstractCommandProgress(t *testing.T) {
	out, err := execute(t, "abstract", "--tree", "testdata/tree.yaml", "--out", t.TempDir(), "--progress")
	require.NoError(t, err)
	assert.Contains(t, out, "avpp general=")
}

func TestLogProgress(t *testing.T) {
	var buf bytes.Buffer
	sub := make(chan events.Event, 2)
	sub <- events.NodeEvent{RunID: "r", Node: "avpp", Steps: 4, Converged: true}
	sub <- events.RunEvent{RunID: "r", Nodes: 1}
	close(sub)
	<-logProgress(sub, logger.NewWithWriter("test", &buf, "info"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "abstracted avpp: 4 steps, converged=true")
	assert.Contains(t, lines[1], "run r finished: 1 AVPPs")
}

func TestAbstractCommandWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	tree, err := filepath.Abs("testdata/tree.yaml")
	require.NoError(t, err)
	data := "tree: " + tree + "\nexport:\n  dir: " + filepath.Join(dir, "res") + "\n  formats: [json]\n"
	require.NoError(t, os.WriteFile(cfg, []byte(data), 0o644))

	_, err = execute(t, "--config", cfg, "abstract")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "res", "abstraction.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "res", "avpp.dat"))
	assert.True(t, os.IsNotExist(err))
}

func TestAbstractCommandErrors(t *testing.T) {
	_, err := execute(t, "abstract")
	assert.Error(t, err)

	_, err = execute(t, "abstract", "--tree", "testdata/missing.yaml", "--out", t.TempDir())
	assert.Error(t, err)
}

func TestTreeCommand(t *testing.T) {
	out, err := execute(t, "tree", "testdata/tree.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "avpp\n")
	assert.Contains(t, out, "  CPP1 [10 100] Bounds,GraduallyOff,FixedChange(20),ForceOn\n")
}
