package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/plant"
	"github.com/kilianp07/avpp/core/pwl"
)

func rampFunction(t *testing.T) *pwl.Function {
	t.Helper()
	f, err := pwl.New([]float64{50, 100}, []float64{100, 150})
	require.NoError(t, err)
	return f
}

func TestIntervalSet(t *testing.T) {
	assert.Equal(t, "{}", IntervalSet(nil))
	assert.Equal(t, "{<0,0>, <15,101.5>}", IntervalSet(interval.Set{interval.Zero(), interval.New(15.0, 101.5)}))
}

func TestIntervalSetsPadding(t *testing.T) {
	steps := []interval.Set{{interval.New(35.0, 105.0)}, {interval.New(30.0, 140.0)}}
	assert.Equal(t, "[{<35,105>}, {<30,140>}, {}, {}]", IntervalSets(steps, 4))
	assert.Equal(t, "[{<35,105>}, {<30,140>}]", IntervalSets(steps, 1))
}

func TestWritePWL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePWL(&buf, DefaultPWLNames, rampFunction(t)))
	want := "n=2;\nfirstIn=50;\nfAtFirst=100;\nbreakpoint=[50, 100];\nslope=[0, 1, 0];\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, WritePWL(&buf, Prefixed("deltaPlus"), rampFunction(t)))
	assert.Contains(t, buf.String(), "deltaPlusN=2;\n")
	assert.Contains(t, buf.String(), "deltaPlusSlope=[0, 1, 0];\n")

	buf.Reset()
	require.NoError(t, WritePWL(&buf, DefaultPWLNames, nil))
	assert.Empty(t, buf.String())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rampFunction(t)))
	assert.Equal(t, "50;100\n100;150\n", buf.String())
}

func abstractedTree(t *testing.T) *plant.Tree {
	t.Helper()
	tree := plant.NewTree()
	root, err := tree.Add(plant.NewAggregate("avpp"), plant.None)
	require.NoError(t, err)
	_, err = tree.Add(plant.NewPlant("CPP1", 50, 100), root)
	require.NoError(t, err)

	n, err := tree.Node(root)
	require.NoError(t, err)
	n.FeasibleRegions = interval.Set{interval.Zero(), interval.New(50.0, 100.0)}
	n.Holes = n.FeasibleRegions.Holes()
	n.Steps = []interval.Set{{interval.New(50.0, 100.0)}}
	n.StepHoles = []interval.Set{{}}
	n.PositiveDelta = rampFunction(t)
	n.NegativeDelta = rampFunction(t)
	n.Initial.Power = 50
	return tree
}

func TestWriteCPLEX(t *testing.T) {
	tree := abstractedTree(t)
	n, err := tree.Lookup("avpp")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCPLEX(&buf, n, 2))
	out := buf.String()
	assert.Contains(t, out, "generalBounds = {<0,0>, <50,100>};\n")
	assert.Contains(t, out, "generalHoles = {<0,50>};\n")
	assert.Contains(t, out, "temporalBounds = [{<50,100>}, {}];\n")
	assert.Contains(t, out, "deltaPlusFirstIn=50;\n")
	assert.Contains(t, out, "deltaNegBreakpoint=[50, 100];\n")
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	tree := abstractedTree(t)

	written, err := WriteFiles(dir, tree, 3, Formats)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "avpp.dat"),
		filepath.Join(dir, "avpp_positive.csv"),
		filepath.Join(dir, "avpp_negative.csv"),
		filepath.Join(dir, "abstraction.json"),
	}, written)

	data, err := os.ReadFile(filepath.Join(dir, "abstraction.json"))
	require.NoError(t, err)
	var summaries []Summary
	require.NoError(t, json.Unmarshal(data, &summaries))
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, "avpp", s.Name)
	assert.Equal(t, []string{"CPP1"}, s.Children)
	assert.Equal(t, 50.0, s.InitialPower)
	assert.Equal(t, interval.Set{interval.Zero(), interval.New(50.0, 100.0)}, s.General)
	assert.Equal(t, []pwl.Pair{{In: 50, Out: 100}, {In: 100, Out: 150}}, s.PositiveDelta)
}

func TestWriteFilesSelectedFormats(t *testing.T) {
	dir := t.TempDir()
	written, err := WriteFiles(dir, abstractedTree(t), 3, []string{FormatJSON})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "abstraction.json")}, written)
}
