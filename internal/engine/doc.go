// Package engine wires the scene registry, geometry builder, controller
// and hierarchy propagator into the surface-facing API: load a project or
// entity, generate the objects of an aspect, and apply streamed per-step
// positions.
//
// A project switch builds into a staging registry and swaps it in whole,
// so lookups never see a half-built scene.
package engine
