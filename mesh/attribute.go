package mesh

import "golang.org/x/image/math/f32"

// AttributeKind describes the semantic role of an attribute.
type AttributeKind uint8

const (
	// Position is the 3D position attribute. Exactly one is required for
	// adjacency construction and stripification.
	Position AttributeKind = iota
	// Normal is a per-point normal vector.
	Normal
	// Color is a per-point color.
	Color
	// TexCoord is a per-point texture coordinate.
	TexCoord
	// Generic is any other per-point data.
	Generic
)

// String returns a human-readable name for the attribute kind.
func (k AttributeKind) String() string {
	switch k {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case Color:
		return "Color"
	case TexCoord:
		return "TexCoord"
	case Generic:
		return "Generic"
	default:
		return "Unknown"
	}
}

// Attribute holds float32 attribute data for the points of a mesh.
//
// Values are stored as a flat array of numValues * components floats. By
// default point i maps to value i; an explicit point-to-value map can be set
// when several points share one value (the typical layout produced by OBJ
// style inputs, where positions are shared across seams).
type Attribute struct {
	// Kind is the semantic role of the attribute.
	Kind AttributeKind
	// Name is an optional label, used by generic attributes.
	Name string

	components   int
	values       []float32
	pointToValue []int32
}

// NewAttribute creates an attribute from flat value data. The length of
// values must be a multiple of components.
func NewAttribute(kind AttributeKind, components int, values []float32) *Attribute {
	return &Attribute{Kind: kind, components: components, values: values}
}

// NumComponents returns the number of components per value.
func (a *Attribute) NumComponents() int { return a.components }

// NumValues returns the number of distinct values stored by the attribute.
func (a *Attribute) NumValues() int {
	if a.components == 0 {
		return 0
	}
	return len(a.values) / a.components
}

// Values returns the flat value data.
func (a *Attribute) Values() []float32 { return a.values }

// SetPointMap sets an explicit point-to-value mapping. Entry i is the value
// index of point i. A nil map restores the identity mapping.
func (a *Attribute) SetPointMap(pointToValue []int32) {
	a.pointToValue = pointToValue
}

// PointMap returns the explicit point-to-value mapping, or nil when the
// mapping is the identity.
func (a *Attribute) PointMap() []int32 { return a.pointToValue }

// ValueIndex returns the value index for the given point.
func (a *Attribute) ValueIndex(p PointIndex) int32 {
	if a.pointToValue != nil {
		return a.pointToValue[p]
	}
	return int32(p)
}

// Value returns the components of the value with the given index as a
// subslice of the underlying data.
func (a *Attribute) Value(i int32) []float32 {
	off := int(i) * a.components
	return a.values[off : off+a.components]
}

// PointValue returns the components of the value mapped to the given point.
func (a *Attribute) PointValue(p PointIndex) []float32 {
	return a.Value(a.ValueIndex(p))
}

// Vec3 returns the first three components of the value mapped to the given
// point. It is the conventional accessor for position and normal data.
func (a *Attribute) Vec3(p PointIndex) f32.Vec3 {
	v := a.PointValue(p)
	return f32.Vec3{v[0], v[1], v[2]}
}
