package factory

// LineMode selects between line and solid rendering of volumetric leaves.
type LineMode int

const (
	// LinesAuto renders lines once the scene complexity passes the threshold.
	LinesAuto LineMode = iota
	LinesOn
	LinesOff
)

func (m LineMode) String() string {
	switch m {
	case LinesOn:
		return "lines"
	case LinesOff:
		return "solid"
	default:
		return "auto"
	}
}

// Resolve reports whether lines are drawn for the given scene complexity.
func (m LineMode) Resolve(complexity, threshold int) bool {
	switch m {
	case LinesOn:
		return true
	case LinesOff:
		return false
	default:
		return complexity > threshold
	}
}

type Options struct {
	LineThreshold      int
	SphereSegments     int
	LineSphereSegments int
	CylinderSegments   int
	Shininess          float32
	ImportedShininess  float32
	ParticleSize       float32
	DefaultColor       uint32
	DefaultOpacity     float32
}

func DefaultOptions() Options {
	return Options{
		LineThreshold:      2000,
		SphereSegments:     20,
		LineSphereSegments: 8,
		CylinderSegments:   6,
		Shininess:          10,
		ImportedShininess:  40,
		ParticleSize:       5,
		DefaultColor:       0x6495ed,
		DefaultOpacity:     1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LineThreshold <= 0 {
		o.LineThreshold = d.LineThreshold
	}
	if o.SphereSegments < 3 {
		o.SphereSegments = d.SphereSegments
	}
	if o.LineSphereSegments < 3 {
		o.LineSphereSegments = d.LineSphereSegments
	}
	if o.CylinderSegments < 3 {
		o.CylinderSegments = d.CylinderSegments
	}
	if o.Shininess <= 0 {
		o.Shininess = d.Shininess
	}
	if o.ImportedShininess <= 0 {
		o.ImportedShininess = d.ImportedShininess
	}
	if o.ParticleSize <= 0 {
		o.ParticleSize = d.ParticleSize
	}
	if o.DefaultOpacity <= 0 || o.DefaultOpacity > 1 {
		o.DefaultOpacity = d.DefaultOpacity
	}
	return o
}
