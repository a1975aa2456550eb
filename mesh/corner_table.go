package mesh

import (
	"errors"
	"fmt"
)

// Adjacency construction failures. These are the only fatal conditions in
// the stripification pipeline: once a corner table exists, a run cannot
// fail.
var (
	// ErrNoPositionAttribute reports a mesh without a usable position
	// attribute (missing, or fewer than three components).
	ErrNoPositionAttribute = errors.New("mesh: no position attribute with at least 3 components")

	// ErrInvalidPointIndex reports a face referencing a point outside the
	// mesh's point range or an attribute value outside the value range.
	ErrInvalidPointIndex = errors.New("mesh: face references point out of range")

	// ErrNonManifold reports an edge shared by more than two faces or by
	// two faces with the same winding.
	ErrNonManifold = errors.New("mesh: non-manifold edge")
)

// CornerTable is an array-indexed adjacency structure over the corners of a
// mesh. Corner 3f+i is the i-th corner of face f; vertices are position
// value indices, deduplicated by position so that attribute seams do not
// break adjacency.
//
// For every corner c with a valid opposite, Opposite(Opposite(c)) == c.
type CornerTable struct {
	opposite     []CornerIndex
	cornerVertex []int32
	numFaces     int
}

type directedEdge struct {
	from, to int32
}

// BuildCornerTable derives a corner table from the mesh's position
// attribute. It fails when the position data cannot be indexed or when the
// connectivity is non-manifold.
func BuildCornerTable(m *Mesh) (*CornerTable, error) {
	pos := m.NamedAttribute(Position)
	if pos == nil || pos.NumComponents() < 3 {
		return nil, ErrNoPositionAttribute
	}

	numCorners := 3 * m.NumFaces()
	ct := &CornerTable{
		opposite:     make([]CornerIndex, numCorners),
		cornerVertex: make([]int32, numCorners),
		numFaces:     m.NumFaces(),
	}

	// Assign position-deduplicated vertex ids to every point. Points whose
	// position values compare equal land on the same vertex even when they
	// are distinct points (attribute seams).
	pointVertex := make([]int32, m.NumPoints())
	byPosition := make(map[[3]float32]int32, m.NumPoints())
	numValues := int32(pos.NumValues())
	for p := 0; p < m.NumPoints(); p++ {
		vi := pos.ValueIndex(PointIndex(p))
		if vi < 0 || vi >= numValues {
			return nil, fmt.Errorf("%w: point %d maps to position value %d of %d",
				ErrInvalidPointIndex, p, vi, numValues)
		}
		v := pos.Value(vi)
		key := [3]float32{v[0], v[1], v[2]}
		id, ok := byPosition[key]
		if !ok {
			id = int32(len(byPosition))
			byPosition[key] = id
		}
		pointVertex[p] = id
	}

	numPoints := PointIndex(m.NumPoints())
	for c := CornerIndex(0); c < CornerIndex(numCorners); c++ {
		p := m.CornerToPointID(c)
		if p < 0 || p >= numPoints {
			return nil, fmt.Errorf("%w: face %d references point %d of %d",
				ErrInvalidPointIndex, c/3, p, numPoints)
		}
		ct.cornerVertex[c] = pointVertex[p]
	}

	// Match corners across shared edges. The edge of corner c runs from
	// Vertex(Next(c)) to Vertex(Previous(c)); its opposite corner carries
	// the reversed edge. A repeated directed edge means more than two faces
	// meet there or two faces disagree on winding.
	edges := make(map[directedEdge]CornerIndex, numCorners)
	for c := CornerIndex(0); c < CornerIndex(numCorners); c++ {
		e := directedEdge{
			from: ct.cornerVertex[ct.Next(c)],
			to:   ct.cornerVertex[ct.Previous(c)],
		}
		if e.from == e.to {
			// Degenerate edge; leave it unconnected.
			ct.opposite[c] = InvalidCornerIndex
			continue
		}
		if prev, ok := edges[e]; ok {
			return nil, fmt.Errorf("%w: corners %d and %d share directed edge (%d, %d)",
				ErrNonManifold, prev, c, e.from, e.to)
		}
		edges[e] = c
	}
	for c := CornerIndex(0); c < CornerIndex(numCorners); c++ {
		e := directedEdge{
			from: ct.cornerVertex[ct.Next(c)],
			to:   ct.cornerVertex[ct.Previous(c)],
		}
		if e.from == e.to {
			continue
		}
		if o, ok := edges[directedEdge{from: e.to, to: e.from}]; ok {
			ct.opposite[c] = o
		} else {
			ct.opposite[c] = InvalidCornerIndex
		}
	}

	return ct, nil
}

// NumFaces returns the number of faces covered by the table.
func (ct *CornerTable) NumFaces() int { return ct.numFaces }

// NumCorners returns the number of corners covered by the table.
func (ct *CornerTable) NumCorners() int { return 3 * ct.numFaces }

// Next returns the next corner of the same face in winding order.
func (ct *CornerTable) Next(c CornerIndex) CornerIndex {
	if c < 0 {
		return InvalidCornerIndex
	}
	if c%3 == 2 {
		return c - 2
	}
	return c + 1
}

// Previous returns the previous corner of the same face in winding order.
func (ct *CornerTable) Previous(c CornerIndex) CornerIndex {
	if c < 0 {
		return InvalidCornerIndex
	}
	if c%3 == 0 {
		return c + 2
	}
	return c - 1
}

// Opposite returns the corner across the edge opposite to c, or
// [InvalidCornerIndex] when the edge lies on a boundary.
func (ct *CornerTable) Opposite(c CornerIndex) CornerIndex {
	if c < 0 {
		return InvalidCornerIndex
	}
	return ct.opposite[c]
}

// Face returns the face containing the given corner.
func (ct *CornerTable) Face(c CornerIndex) FaceIndex {
	if c < 0 {
		return InvalidFaceIndex
	}
	return FaceIndex(c / 3)
}

// FirstCorner returns the first corner of the given face.
func (ct *CornerTable) FirstCorner(f FaceIndex) CornerIndex {
	return CornerIndex(3 * f)
}

// Vertex returns the position-deduplicated vertex id of the given corner.
func (ct *CornerTable) Vertex(c CornerIndex) int32 {
	return ct.cornerVertex[c]
}
