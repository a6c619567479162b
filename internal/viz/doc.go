// Package viz draws the scene in the terminal.
//
// Scene objects are reduced to a wireframe, projected through an orbit
// [Camera] and plotted on a braille [Canvas]. Ghosted objects go to the
// canvas's dim layer so a selection stands out.
//
//   - [LiveModel]: replays recorded steps from a playback.Player
//   - [Explorer]: browses the entity tree and drives selection,
//     visibility and representation changes
//   - [PlotUpdates]: asciigraph chart of objects moved per step
//   - [WriteSVG]: the projected wireframe as an SVG file
//
// # Key Bindings
//
//	Space   - Pause/Resume replay
//	L       - Loop from step 0
//	Arrows  - Orbit the camera
//	+/-     - Zoom
//	T       - Cycle colour themes
//	Q       - Quit
package viz
