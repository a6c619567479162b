// Package scene holds renderable objects and the registry that maps model
// instance paths to them.
//
// Geometry is kept in object-local space; an Object's Position and Rotation
// place it in the scene. Objects folded into a merged batch stay registered
// under their own path and carry a binding to the vertex range they occupy,
// so a per-step position update moves the right vertices of the batch
// without a rebuild.
//
// The Registry owns scene membership. Builders register, the engine
// attaches, and every later lookup, update or removal goes through it.
package scene
