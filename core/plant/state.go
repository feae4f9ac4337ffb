package plant

import (
	"fmt"

	"github.com/kilianp07/avpp/core/constraint"
	"github.com/kilianp07/avpp/core/interval"
)

// State is the per-step simulation state of a concrete plant during temporal
// abstraction. Power and running flags are envelopes over every reachable
// trajectory, not single values.
type State struct {
	Data         *Data
	Power        interval.Float
	Running      interval.Bool
	ConsRunning  interval.Interval[int]
	ConsStopping interval.Interval[int]
	Step         int
}

// NewState initializes a state from the plant's initial values.
func NewState(d *Data) *State {
	on := d.Initial.Running()
	return &State{
		Data:         d,
		Power:        interval.Point(d.Initial.Power),
		Running:      interval.Bool{Min: on, Max: on},
		ConsRunning:  interval.Point(d.Initial.ConsRunning),
		ConsStopping: interval.Point(d.Initial.ConsStopping),
	}
}

// Snapshot returns the view constraints are evaluated against.
func (s *State) Snapshot() constraint.State {
	cs := constraint.State{
		Power:        s.Power,
		Running:      s.Running,
		ConsRunning:  s.ConsRunning,
		ConsStopping: s.ConsStopping,
	}
	if s.Data.Boundaries != nil {
		cs.Boundaries = *s.Data.Boundaries
	}
	return cs
}

// UpdateRunning advances the running envelope and the consecutive
// running/stopping counters by one step. minOn is true if the plant must be
// on next step, maxOn is false if it must be off.
func (s *State) UpdateRunning(minOn, maxOn bool) {
	if maxOn {
		if s.Running.Max {
			s.ConsRunning.Max++
		} else {
			s.ConsRunning.Max = 1
			s.ConsStopping.Max = 0
		}
	} else {
		s.ConsStopping.Max++
	}

	if !minOn {
		if !s.Running.Min {
			s.ConsStopping.Min++
		} else {
			s.ConsRunning.Min = 0
			s.ConsStopping.Min = 1
		}
	} else {
		s.ConsRunning.Min++
	}
	s.Running = interval.Bool{Min: minOn, Max: maxOn}
}

// Copy returns an independent state sharing the plant data.
func (s *State) Copy() *State {
	c := *s
	return &c
}

func (s *State) String() string {
	return fmt.Sprintf("%s running=%v power=%v consRunning=%v consStopping=%v",
		s.Data.Name, s.Running, s.Power, s.ConsRunning, s.ConsStopping)
}
