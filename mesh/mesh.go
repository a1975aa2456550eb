package mesh

// PointIndex identifies a point of a mesh. A point is a unique combination
// of attribute values; several points may map to the same position value.
type PointIndex int32

// CornerIndex identifies a (face, vertex) incidence in a corner table.
// The corners of face f are 3f, 3f+1 and 3f+2.
type CornerIndex int32

// FaceIndex identifies a triangular face of a mesh.
type FaceIndex int32

// Invalid index values. All index types use -1 as their invalid marker so
// that validity can be tested with a plain "< 0" comparison.
const (
	InvalidPointIndex  PointIndex  = -1
	InvalidCornerIndex CornerIndex = -1
	InvalidFaceIndex   FaceIndex   = -1
)

// Face is a triangle described by three point indices in counter-clockwise
// winding order.
type Face [3]PointIndex

// Mesh is a triangle mesh: a pool of points referenced by faces, with
// attribute data attached. A mesh with zero faces is a point cloud.
//
// A Mesh is not safe for concurrent mutation. Encoding and stripification
// treat it as immutable for the duration of a run.
type Mesh struct {
	numPoints  int
	faces      []Face
	attributes []*Attribute
}

// New creates an empty mesh with the given number of points.
func New(numPoints int) *Mesh {
	return &Mesh{numPoints: numPoints}
}

// NumPoints returns the number of points in the mesh.
func (m *Mesh) NumPoints() int { return m.numPoints }

// NumFaces returns the number of faces in the mesh.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Face returns the face with the given index.
func (m *Mesh) Face(f FaceIndex) Face { return m.faces[f] }

// AddFace appends a face to the mesh.
func (m *Mesh) AddFace(f Face) { m.faces = append(m.faces, f) }

// CornerToPointID returns the point referenced by the given corner.
func (m *Mesh) CornerToPointID(c CornerIndex) PointIndex {
	return m.faces[c/3][c%3]
}

// AddAttribute attaches an attribute to the mesh and returns its id.
func (m *Mesh) AddAttribute(a *Attribute) int {
	m.attributes = append(m.attributes, a)
	return len(m.attributes) - 1
}

// NumAttributes returns the number of attributes attached to the mesh.
func (m *Mesh) NumAttributes() int { return len(m.attributes) }

// Attribute returns the attribute with the given id.
func (m *Mesh) Attribute(id int) *Attribute { return m.attributes[id] }

// NamedAttribute returns the first attribute of the given kind, or nil if
// the mesh has none.
func (m *Mesh) NamedAttribute(kind AttributeKind) *Attribute {
	for _, a := range m.attributes {
		if a.Kind == kind {
			return a
		}
	}
	return nil
}
