// Package factory builds scene objects from visualization trees.
//
// A Builder turns one leaf into one object (Build), walks a tree collecting
// objects in depth-first order (Collect) and batches same-kind objects into
// a single draw object (Merge). Above a complexity threshold cylinders are
// drawn as line segments unless the caller forces a LineMode.
//
// Imported meshes are handed to a MeshParser looked up by format name. No
// parsers are registered by default.
package factory
