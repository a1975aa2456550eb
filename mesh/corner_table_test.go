package mesh

import (
	"errors"
	"testing"
)

// =============================================================================
// Test Mesh Builders
// =============================================================================

// buildMesh creates a mesh with one position attribute. With a nil pointMap
// point i uses position value i.
func buildMesh(t *testing.T, positions []float32, pointMap []int32, faces ...Face) *Mesh {
	t.Helper()
	numPoints := len(positions) / 3
	if pointMap != nil {
		numPoints = len(pointMap)
	}
	m := New(numPoints)
	pos := NewAttribute(Position, 3, positions)
	pos.SetPointMap(pointMap)
	m.AddAttribute(pos)
	for _, f := range faces {
		m.AddFace(f)
	}
	return m
}

// quadMesh is two triangles sharing the edge between points 1 and 2.
func quadMesh(t *testing.T) *Mesh {
	t.Helper()
	return buildMesh(t, []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		1, 1, 0,
	}, nil,
		Face{0, 1, 2},
		Face{2, 1, 3},
	)
}

// seamQuadMesh is the quad with the shared edge broken by a seam: point 3
// has the same position as point 1 but is a distinct point.
func seamQuadMesh(t *testing.T) *Mesh {
	t.Helper()
	return buildMesh(t, []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		1, 1, 0,
	}, []int32{0, 1, 2, 1, 3},
		Face{0, 1, 2},
		Face{2, 3, 4},
	)
}

// =============================================================================
// Corner Navigation
// =============================================================================

func TestCornerTableNextPrevious(t *testing.T) {
	ct := &CornerTable{numFaces: 2}

	tests := []struct {
		name     string
		c        CornerIndex
		next     CornerIndex
		previous CornerIndex
	}{
		{"first corner", 0, 1, 2},
		{"middle corner", 1, 2, 0},
		{"last corner", 2, 0, 1},
		{"second face", 4, 5, 3},
		{"invalid corner", InvalidCornerIndex, InvalidCornerIndex, InvalidCornerIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ct.Next(tt.c); got != tt.next {
				t.Errorf("Next(%d) = %d, want %d", tt.c, got, tt.next)
			}
			if got := ct.Previous(tt.c); got != tt.previous {
				t.Errorf("Previous(%d) = %d, want %d", tt.c, got, tt.previous)
			}
		})
	}
}

func TestCornerTableFace(t *testing.T) {
	ct := &CornerTable{numFaces: 3}
	for c := CornerIndex(0); c < 9; c++ {
		if got, want := ct.Face(c), FaceIndex(c/3); got != want {
			t.Errorf("Face(%d) = %d, want %d", c, got, want)
		}
	}
	if got := ct.Face(InvalidCornerIndex); got != InvalidFaceIndex {
		t.Errorf("Face(invalid) = %d, want %d", got, InvalidFaceIndex)
	}
	if got := ct.FirstCorner(2); got != 6 {
		t.Errorf("FirstCorner(2) = %d, want 6", got)
	}
}

// =============================================================================
// Adjacency Construction
// =============================================================================

func TestCornerTableOppositeInvolution(t *testing.T) {
	ct, err := BuildCornerTable(quadMesh(t))
	if err != nil {
		t.Fatalf("BuildCornerTable: %v", err)
	}

	connected := 0
	for c := CornerIndex(0); c < CornerIndex(ct.NumCorners()); c++ {
		o := ct.Opposite(c)
		if o < 0 {
			continue
		}
		connected++
		if back := ct.Opposite(o); back != c {
			t.Errorf("Opposite(Opposite(%d)) = %d, want %d", c, back, c)
		}
	}
	// Exactly one interior edge, so exactly two connected corners.
	if connected != 2 {
		t.Errorf("connected corners = %d, want 2", connected)
	}
}

func TestCornerTableBoundary(t *testing.T) {
	m := buildMesh(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, Face{0, 1, 2})
	ct, err := BuildCornerTable(m)
	if err != nil {
		t.Fatalf("BuildCornerTable: %v", err)
	}
	for c := CornerIndex(0); c < 3; c++ {
		if o := ct.Opposite(c); o != InvalidCornerIndex {
			t.Errorf("Opposite(%d) = %d, want invalid (boundary)", c, o)
		}
	}
}

func TestCornerTableSeamSharesVertex(t *testing.T) {
	// Points 1 and 3 carry the same position, so adjacency must treat them
	// as one vertex and still connect the two faces.
	ct, err := BuildCornerTable(seamQuadMesh(t))
	if err != nil {
		t.Fatalf("BuildCornerTable: %v", err)
	}

	// Corner 1 is point 1 in face 0; corner 4 is point 3 in face 1.
	if ct.Vertex(1) != ct.Vertex(4) {
		t.Errorf("Vertex(1) = %d, Vertex(4) = %d, want equal (same position)",
			ct.Vertex(1), ct.Vertex(4))
	}
	if o := ct.Opposite(0); o != 5 {
		t.Errorf("Opposite(0) = %d, want 5 (faces connected across seam)", o)
	}
}

func TestCornerTableErrors(t *testing.T) {
	tests := []struct {
		name string
		mesh *Mesh
		want error
	}{
		{
			name: "no position attribute",
			mesh: func() *Mesh {
				m := New(3)
				m.AddFace(Face{0, 1, 2})
				return m
			}(),
			want: ErrNoPositionAttribute,
		},
		{
			name: "too few components",
			mesh: func() *Mesh {
				m := New(3)
				m.AddAttribute(NewAttribute(Position, 2, []float32{0, 0, 1, 0, 0, 1}))
				m.AddFace(Face{0, 1, 2})
				return m
			}(),
			want: ErrNoPositionAttribute,
		},
		{
			name: "face references point out of range",
			mesh: buildMesh(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil, Face{0, 1, 5}),
			want: ErrInvalidPointIndex,
		},
		{
			name: "point map references value out of range",
			mesh: buildMesh(t, []float32{0, 0, 0}, []int32{0, 9, 0}, Face{0, 1, 2}),
			want: ErrInvalidPointIndex,
		},
		{
			name: "same winding across shared edge",
			mesh: buildMesh(t, []float32{
				0, 0, 0,
				1, 0, 0,
				0, 1, 0,
				1, 1, 0,
			}, nil,
				Face{0, 1, 2},
				Face{1, 2, 3},
			),
			want: ErrNonManifold,
		},
		{
			name: "edge shared by three faces",
			mesh: buildMesh(t, []float32{
				0, 0, 0,
				1, 0, 0,
				0, 1, 0,
				1, 1, 0,
				0, 0, 1,
			}, nil,
				Face{0, 1, 2},
				Face{2, 1, 3},
				Face{2, 1, 4},
			),
			want: ErrNonManifold,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildCornerTable(tt.mesh)
			if !errors.Is(err, tt.want) {
				t.Errorf("BuildCornerTable error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCornerTableDegenerateEdge(t *testing.T) {
	// A face with a repeated point produces a degenerate edge, which stays
	// unconnected instead of poisoning the edge map.
	m := buildMesh(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil,
		Face{0, 1, 1},
	)
	ct, err := BuildCornerTable(m)
	if err != nil {
		t.Fatalf("BuildCornerTable: %v", err)
	}
	// Corner 0 sees the edge 1->1.
	if o := ct.Opposite(0); o != InvalidCornerIndex {
		t.Errorf("Opposite(0) = %d, want invalid (degenerate edge)", o)
	}
}
