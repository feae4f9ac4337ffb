// Package abstraction derives the surrogate of an AVPP from its children.
//
// General abstraction answers which total outputs the children can produce
// at any single instant: every child contributes its feasible interval set
// (a concrete plant its boundaries plus zero if it may be switched off) and
// the sets are combined by the merge engine.
//
// Temporal abstraction simulates the next steps of every concrete child
// under its hard constraints. Power and running flags are tracked as
// envelopes, so each step bounds all reachable trajectories at once. The
// loop stops at the horizon, when a step yields no region, or when a step
// region matches the general region within the configured tolerance.
//
// The ramp delta functions bound how far the group's output can rise or
// fall within one step, as piecewise-linear functions of the current output.
package abstraction
