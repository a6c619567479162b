package scene

type MaterialKind int

const (
	MaterialPhong MaterialKind = iota + 1
	MaterialLine
	MaterialParticle
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialPhong:
		return "phong"
	case MaterialLine:
		return "line"
	case MaterialParticle:
		return "particle"
	default:
		return "unknown"
	}
}

// Material holds the render style of an object. DefaultColor and
// DefaultOpacity are restored after transient effects such as selection
// highlighting and ghosting.
type Material struct {
	Kind           MaterialKind
	Color          uint32
	DefaultColor   uint32
	Opacity        float32
	DefaultOpacity float32
	Transparent    bool

	Linewidth float32
	Shininess float32
	Size      float32
	Additive  bool
	DepthTest bool
}

func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Style groups the three materials handed to the geometry builder for one
// aspect.
type Style struct {
	Mesh     *Material
	Line     *Material
	Particle *Material
}
