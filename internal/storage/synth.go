package storage

import (
	"cogentcore.org/core/math32"

	"github.com/san-kum/vizsync/internal/model"
)

// synthPeriod is the number of steps in one oscillation.
const synthPeriod = 20

// Synthesize records steps frames in which every leaf of p bobs along Y
// around its current position with the given amplitude. Leaves are phase
// shifted so neighbours move apart. Frame 0 is the unmodified project.
func Synthesize(p *model.Project, steps int, amplitude float32) []Frame {
	base := Capture(0, p)
	paths := base.Paths()

	frames := make([]Frame, 0, steps)
	for s := 0; s < steps; s++ {
		f := Frame{Step: s, Positions: make(map[string]math32.Vector3, len(paths))}
		for i, path := range paths {
			phase := float32(i) * 0.7
			angle := 2*math32.Pi*float32(s)/synthPeriod + phase
			dy := amplitude * (math32.Sin(angle) - math32.Sin(phase))
			f.Positions[path] = base.Positions[path].Add(math32.Vec3(0, dy, 0))
		}
		frames = append(frames, f)
	}
	return frames
}
