// Package storage persists recorded leaf positions so a run can be
// replayed into the scene later. Each run is a directory holding
// metadata.json and frames.csv with one row per step and path.
package storage
