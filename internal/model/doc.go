// Package model holds the simulation model hierarchy the scene is built from.
//
// A loaded project is a forest of [Entity] nodes. Each entity owns ordered
// [Aspect] children, nested entities and [Connection] edges to other
// entities. Every aspect carries exactly one visualization tree made of
// [VisualizationNode] values:
//
//   - [Particle]: a single point
//   - [Sphere]: a sphere with a radius
//   - [Cylinder]: a tapered segment between two points
//   - [ImportedMesh]: an opaque mesh payload parsed by a collaborator
//   - [Composite]: an ordered group of further nodes
//
// Instance paths are globally unique and never reassigned. After load the
// topology of a visualization tree is fixed; streaming updates only mutate
// leaf positions.
//
// Connections reference their target entity by instance path. They are
// resolved through an [Index] and never hold the target directly.
package model
