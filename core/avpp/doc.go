// Package avpp runs the abstraction engine over a whole tree of plants and
// aggregated virtual power plants.
//
// Every AVPP is abstracted after all of its children: first the general
// (static) feasible region, then the temporal step regions, then the ramp
// delta functions. Results are attached to the nodes of the tree, so a parent
// sees the abstractions of its sub-AVPPs exactly as it sees plants.
package avpp
