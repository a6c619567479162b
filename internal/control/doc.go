// Package control issues targeted visual commands against registered scene
// objects.
//
// A [Controller] addresses objects by instance path through a
// [scene.Registry]:
//
//   - visibility, opacity and colour: Show, Hide, SetOpacity, SetColor
//   - selection highlighting: Select, Deselect
//   - ghosting of everything not selected: SetGhostEffect, GhostEffect
//   - connection highlighting and lines: ShowConnections, ShowConnectionLines
//   - camera framing: ZoomTo
//
// # Usage
//
//	ctl := control.New(reg, control.DefaultOptions(), logger)
//	ctl.SetGhostEffect(true)
//	ctl.Select("net.a.electrical")
//
// Geometry switches (SetGeometryType) are delegated to a [Rebuilder],
// normally the engine.
package control
