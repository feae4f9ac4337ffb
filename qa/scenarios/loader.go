package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/avpp/core/interval"
	"github.com/kilianp07/avpp/infra/treefile"
)

// Ranges is a list of [min, max] pairs.
type Ranges [][]float64

// Set converts the ranges into an interval set.
func (r Ranges) Set() (interval.Set, error) {
	s := make(interval.Set, 0, len(r))
	for _, v := range r {
		if len(v) != 2 {
			return nil, fmt.Errorf("range %v: want two values", v)
		}
		s = append(s, interval.New(v[0], v[1]))
	}
	return s, nil
}

// Expected lists the results checked for one AVPP. Empty fields are not
// checked.
type Expected struct {
	General   Ranges   `yaml:"general,omitempty"`
	Holes     Ranges   `yaml:"holes,omitempty"`
	Steps     []Ranges `yaml:"steps,omitempty"`
	Converged *bool    `yaml:"converged,omitempty"`
	// Positive and Negative are [in, out] samples of the ramp functions.
	Positive Ranges `yaml:"positive,omitempty"`
	Negative Ranges `yaml:"negative,omitempty"`
}

type Scenario struct {
	Name             string              `yaml:"name"`
	Description      string              `yaml:"description,omitempty"`
	DeltaTimeMinutes float64             `yaml:"delta_time_minutes,omitempty"`
	Horizon          int                 `yaml:"horizon,omitempty"`
	Tree             treefile.File       `yaml:"tree"`
	Expected         map[string]Expected `yaml:"expected,omitempty"`
	// ExpectError is a substring of the error the run must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario without name", path)
	}
	return &sc, nil
}
