package constraint

import (
	"fmt"
	"math"
	"strings"

	"github.com/kilianp07/avpp/core/interval"
)

// ReferenceStepMinutes is the step length that change limits are expressed in.
const ReferenceStepMinutes = 15.0

// Kind identifies a constraint variant.
type Kind int

const (
	KindBounds Kind = iota
	KindRateOfChange
	KindFixedChange
	KindForceOn
	KindGraduallyOff
	KindStartWithMin
	KindStopTime
)

var kindNames = map[Kind]string{
	KindBounds:       "Bounds",
	KindRateOfChange: "RateOfChange",
	KindFixedChange:  "FixedChange",
	KindForceOn:      "ForceOn",
	KindGraduallyOff: "GraduallyOff",
	KindStartWithMin: "StartWithMin",
	KindStopTime:     "StopTime",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a kind from its name, case-insensitively. Snake case
// names such as "rate_of_change" are accepted as well.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for k, n := range kindNames {
		if strings.ToLower(n) == norm {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown constraint kind %q", s)
}

// State is the part of a plant's simulation state that constraints read.
type State struct {
	Power        interval.Float
	Running      interval.Bool
	ConsRunning  interval.Interval[int]
	ConsStopping interval.Interval[int]
	// Boundaries is the nameplate range of the plant.
	Boundaries interval.Float
}

// Evaluator bounds the next step of a plant given its current state and the
// step length in minutes.
type Evaluator interface {
	// Minimize returns the lowest power reachable in the next step.
	Minimize(s State, deltaTime float64) float64
	// Maximize returns the highest power reachable in the next step.
	Maximize(s State, deltaTime float64) float64
	// MinimizeBool returns true if the plant must be running in the next step.
	MinimizeBool(s State, deltaTime float64) bool
	// MaximizeBool returns false if the plant must be stopped in the next step.
	MaximizeBool(s State, deltaTime float64) bool
}

// Constraint is one rule attached to a plant. Only the parameters of its
// Kind are meaningful.
type Constraint struct {
	Kind   Kind
	Soft   bool
	Weight int
	// ID is a running number per kind and plant, assigned on attachment.
	ID int

	// Limits overrides the plant boundaries for KindBounds.
	Limits *interval.Float
	// Rate is the relative change per reference step for KindRateOfChange.
	Rate float64
	// MaxChange is the absolute change per reference step for KindFixedChange.
	MaxChange float64
	// MinOnTime and MinOffTime are step counts for KindStopTime.
	MinOnTime  int
	MinOffTime int
}

var _ Evaluator = Constraint{}

// Bounds keeps production within the plant boundaries.
func Bounds() Constraint { return Constraint{Kind: KindBounds} }

// BoundsWithin keeps production within [min, max] instead of the plant boundaries.
func BoundsWithin(min, max float64) Constraint {
	l := interval.New(min, max)
	return Constraint{Kind: KindBounds, Limits: &l}
}

// RateOfChange limits the relative change of production per reference step.
func RateOfChange(rate float64) Constraint {
	return Constraint{Kind: KindRateOfChange, Rate: rate}
}

// FixedChange limits the absolute change of production per reference step.
func FixedChange(maxChange float64) Constraint {
	return Constraint{Kind: KindFixedChange, MaxChange: maxChange}
}

// ForceOn keeps a plant running at all times.
func ForceOn() Constraint { return Constraint{Kind: KindForceOn} }

// GraduallyOff requires a plant to pass its minimum before it may stop.
func GraduallyOff() Constraint { return Constraint{Kind: KindGraduallyOff} }

// StartWithMin starts a stopped plant at its minimum production.
func StartWithMin() Constraint { return Constraint{Kind: KindStartWithMin} }

// StopTime enforces minimum running and stopped durations in steps.
func StopTime(minOnTime, minOffTime int) Constraint {
	return Constraint{Kind: KindStopTime, MinOnTime: minOnTime, MinOffTime: minOffTime}
}

// Ident returns a unique identifier for the constraint on the named plant.
func (c Constraint) Ident(plant string) string {
	return fmt.Sprintf("%s%s_%d", plant, c.Kind, c.ID)
}

func (c Constraint) stepFactor(deltaTime float64) float64 {
	return deltaTime / ReferenceStepMinutes
}

func (c Constraint) Minimize(s State, deltaTime float64) float64 {
	switch c.Kind {
	case KindBounds:
		if c.Limits != nil {
			return c.Limits.Min
		}
		return s.Boundaries.Min
	case KindRateOfChange:
		if !s.Running.Max {
			break
		}
		return (1.0 - c.Rate*c.stepFactor(deltaTime)) * s.Power.Min
	case KindFixedChange:
		if !s.Running.Max {
			break
		}
		return s.Power.Min - c.MaxChange*c.stepFactor(deltaTime)
	}
	return math.Inf(-1)
}

func (c Constraint) Maximize(s State, deltaTime float64) float64 {
	switch c.Kind {
	case KindBounds:
		if c.Limits != nil {
			return c.Limits.Max
		}
		return s.Boundaries.Max
	case KindRateOfChange:
		if !s.Running.Max {
			break
		}
		return (1.0 + c.Rate*c.stepFactor(deltaTime)) * s.Power.Max
	case KindFixedChange:
		if !s.Running.Max {
			break
		}
		return s.Power.Max + c.MaxChange*c.stepFactor(deltaTime)
	case KindStartWithMin:
		if s.Running.OnlyOff() {
			return s.Boundaries.Min
		}
	}
	return math.Inf(1)
}

func (c Constraint) MinimizeBool(s State, _ float64) bool {
	switch c.Kind {
	case KindForceOn:
		return true
	case KindGraduallyOff:
		// still above minimum, so it cannot be off next step
		return s.Power.Min > s.Boundaries.Min
	case KindStopTime:
		if !s.Running.Min {
			return false
		}
		return s.ConsRunning.Min < c.MinOnTime
	}
	return false
}

func (c Constraint) MaximizeBool(s State, _ float64) bool {
	switch c.Kind {
	case KindStopTime:
		return s.Running.Max || s.ConsStopping.Max >= c.MinOffTime
	}
	return true
}

func (c Constraint) String() string {
	switch c.Kind {
	case KindRateOfChange:
		return fmt.Sprintf("%s(%g)", c.Kind, c.Rate)
	case KindFixedChange:
		return fmt.Sprintf("%s(%g)", c.Kind, c.MaxChange)
	case KindStopTime:
		return fmt.Sprintf("%s(on=%d,off=%d)", c.Kind, c.MinOnTime, c.MinOffTime)
	}
	return c.Kind.String()
}
