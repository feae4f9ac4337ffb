// Package plant models concrete power plants and AVPPs, the tree that
// aggregates them and the per-step state used by temporal abstraction.
package plant
