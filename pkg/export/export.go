// Package export writes abstraction results in the formats consumed by the
// solver side: CPLEX data literals, semicolon separated ramp samples and a
// JSON summary per AVPP.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/core/plant"
	"github.com/kilianp07/avpp/core/pwl"
)

// Supported output formats.
const (
	FormatCPLEX = "cplex"
	FormatCSV   = "csv"
	FormatJSON  = "json"
)

// Formats lists every supported format.
var Formats = []string{FormatCPLEX, FormatCSV, FormatJSON}

// PWLNames are the data element names of one piecewise-linear block.
type PWLNames struct {
	N          string
	FirstIn    string
	FAtFirst   string
	Breakpoint string
	Slope      string
}

// DefaultPWLNames is the unprefixed naming scheme.
var DefaultPWLNames = PWLNames{N: "n", FirstIn: "firstIn", FAtFirst: "fAtFirst", Breakpoint: "breakpoint", Slope: "slope"}

// Prefixed returns names of the form prefix+"N", prefix+"FirstIn" and so on.
func Prefixed(prefix string) PWLNames {
	if prefix == "" {
		return DefaultPWLNames
	}
	return PWLNames{
		N:          prefix + "N",
		FirstIn:    prefix + "FirstIn",
		FAtFirst:   prefix + "FAtFirst",
		Breakpoint: prefix + "Breakpoint",
		Slope:      prefix + "Slope",
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func floatArray(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = formatFloat(f)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IntervalSet renders s as a CPLEX tuple set, e.g. {<0,0>, <15,101>}.
func IntervalSet(s interval.Set) string {
	parts := make([]string, len(s))
	for i, iv := range s {
		parts[i] = "<" + formatFloat(iv.Min) + "," + formatFloat(iv.Max) + ">"
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// IntervalSets renders one set per step, padded with empty sets up to
// horizon.
func IntervalSets(steps []interval.Set, horizon int) string {
	parts := make([]string, 0, max(horizon, len(steps)))
	for _, s := range steps {
		parts = append(parts, IntervalSet(s))
	}
	for len(parts) < horizon {
		parts = append(parts, "{}")
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// WritePWL writes f as a CPLEX piecewise-linear data block. An empty
// function writes nothing.
func WritePWL(w io.Writer, names PWLNames, f *pwl.Function) error {
	if f.IsEmpty() {
		return nil
	}
	_, err := fmt.Fprintf(w, "%s=%d;\n%s=%s;\n%s=%s;\n%s=%s;\n%s=%s;\n",
		names.N, f.N(),
		names.FirstIn, formatFloat(f.FirstIn()),
		names.FAtFirst, formatFloat(f.FirstOut()),
		names.Breakpoint, floatArray(f.Breakpoints()),
		names.Slope, floatArray(f.Slopes()))
	return err
}

// WriteCPLEX writes the abstraction of node as CPLEX data. Temporal sets are
// padded to horizon.
func WriteCPLEX(w io.Writer, node *plant.Data, horizon int) error {
	if _, err := fmt.Fprintf(w, "// %s\ngeneralBounds = %s;\ngeneralHoles = %s;\ntemporalBounds = %s;\ntemporalHoles = %s;\n",
		node.Name,
		IntervalSet(node.FeasibleRegions),
		IntervalSet(node.Holes),
		IntervalSets(node.Steps, horizon),
		IntervalSets(node.StepHoles, horizon)); err != nil {
		return err
	}
	if err := WritePWL(w, Prefixed("deltaPlus"), node.PositiveDelta); err != nil {
		return err
	}
	return WritePWL(w, Prefixed("deltaNeg"), node.NegativeDelta)
}

// WriteCSV writes the samples of f as "in;out" rows without header.
func WriteCSV(w io.Writer, f *pwl.Function) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if f != nil {
		for _, p := range f.Pairs() {
			if err := cw.Write([]string{formatFloat(p.In), formatFloat(p.Out)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary is the JSON view of one abstracted AVPP.
type Summary struct {
	Name          string         `json:"name"`
	Children      []string       `json:"children,omitempty"`
	InitialPower  float64        `json:"initial_power"`
	General       interval.Set   `json:"general"`
	Holes         interval.Set   `json:"holes"`
	Steps         []interval.Set `json:"steps"`
	StepHoles     []interval.Set `json:"step_holes"`
	PositiveDelta []pwl.Pair     `json:"positive_delta,omitempty"`
	NegativeDelta []pwl.Pair     `json:"negative_delta,omitempty"`
}

// NewSummary collects the abstraction results of node. Child names are
// resolved through tree when it is not nil.
func NewSummary(tree *plant.Tree, node *plant.Data) Summary {
	s := Summary{
		Name:         node.Name,
		InitialPower: node.Initial.Power,
		General:      node.FeasibleRegions,
		Holes:        node.Holes,
		Steps:        node.Steps,
		StepHoles:    node.StepHoles,
	}
	if tree != nil {
		if children, err := tree.Children(node.ID); err == nil {
			for _, c := range children {
				s.Children = append(s.Children, c.Name)
			}
		}
	}
	if node.PositiveDelta != nil {
		s.PositiveDelta = node.PositiveDelta.Pairs()
	}
	if node.NegativeDelta != nil {
		s.NegativeDelta = node.NegativeDelta.Pairs()
	}
	return s
}

// WriteJSON writes the summaries as an indented JSON array.
func WriteJSON(w io.Writer, summaries []Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summaries)
}

// WriteFiles writes the selected formats for every abstracted AVPP of tree
// into dir and returns the paths written:
//
//	<name>.dat                  cplex
//	<name>_positive.csv         csv
//	<name>_negative.csv         csv
//	abstraction.json            json, all AVPPs
func WriteFiles(dir string, tree *plant.Tree, horizon int, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	enabled := make(map[string]bool, len(formats))
	for _, f := range formats {
		enabled[f] = true
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			_ = f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	var summaries []Summary
	for _, n := range tree.Nodes() {
		if !n.Aggregate || len(n.Children) == 0 {
			continue
		}
		if enabled[FormatCPLEX] {
			if err := write(n.Name+".dat", func(w io.Writer) error { return WriteCPLEX(w, n, horizon) }); err != nil {
				return written, err
			}
		}
		if enabled[FormatCSV] && n.PositiveDelta != nil {
			if err := write(n.Name+"_positive.csv", func(w io.Writer) error { return WriteCSV(w, n.PositiveDelta) }); err != nil {
				return written, err
			}
			if err := write(n.Name+"_negative.csv", func(w io.Writer) error { return WriteCSV(w, n.NegativeDelta) }); err != nil {
				return written, err
			}
		}
		summaries = append(summaries, NewSummary(tree, n))
	}
	if enabled[FormatJSON] {
		if err := write("abstraction.json", func(w io.Writer) error { return WriteJSON(w, summaries) }); err != nil {
			return written, err
		}
	}
	return written, nil
}
