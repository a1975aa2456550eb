package mesh

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

const testRestart uint32 = 0xFFFFFFFF

// =============================================================================
// Helpers
// =============================================================================

func generateRestart(t *testing.T, m *Mesh) (*Stripifier, []uint32) {
	t.Helper()
	s := NewStripifier()
	var w IndexSliceWriter
	if err := s.GenerateWithPrimitiveRestart(m, testRestart, &w); err != nil {
		t.Fatalf("GenerateWithPrimitiveRestart: %v", err)
	}
	return s, w.Indices
}

func generateDegenerate(t *testing.T, m *Mesh) (*Stripifier, []uint32) {
	t.Helper()
	s := NewStripifier()
	var w IndexSliceWriter
	if err := s.GenerateWithDegenerateTriangles(m, &w); err != nil {
		t.Fatalf("GenerateWithDegenerateTriangles: %v", err)
	}
	return s, w.Indices
}

// canonical rotates a face so its smallest point index comes first, keeping
// the winding. Strips reproduce faces up to such a rotation.
func canonical(f Face) Face {
	min := 0
	for i := 1; i < 3; i++ {
		if f[i] < f[min] {
			min = i
		}
	}
	return Face{f[min], f[(min+1)%3], f[(min+2)%3]}
}

func sortedFaces(faces []Face) []Face {
	out := make([]Face, len(faces))
	for i, f := range faces {
		out[i] = canonical(f)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		for k := 0; k < 3; k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	return out
}

func meshFaces(m *Mesh) []Face {
	out := make([]Face, m.NumFaces())
	for f := range out {
		out[f] = m.Face(FaceIndex(f))
	}
	return out
}

// gridMesh triangulates a w by h quad grid, two triangles per cell.
func gridMesh(t *testing.T, w, h int) *Mesh {
	t.Helper()
	positions := make([]float32, 0, 3*(w+1)*(h+1))
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			positions = append(positions, float32(x), float32(y), 0)
		}
	}
	at := func(x, y int) PointIndex { return PointIndex(y*(w+1) + x) }
	var faces []Face
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			faces = append(faces, Face{at(x, y), at(x+1, y), at(x, y+1)})
			faces = append(faces, Face{at(x, y+1), at(x+1, y), at(x+1, y+1)})
		}
	}
	return buildMesh(t, positions, nil, faces...)
}

// ladderMesh is a run of n triangles forming one long strip over points
// 0..n+1.
func ladderMesh(t *testing.T, n int) *Mesh {
	t.Helper()
	positions := make([]float32, 0, 3*(n+2))
	for i := 0; i < n+2; i++ {
		positions = append(positions, float32(i), float32(i%2), 0)
	}
	var faces []Face
	for i := 0; i < n; i++ {
		p := PointIndex(i)
		if i%2 == 0 {
			faces = append(faces, Face{p, p + 1, p + 2})
		} else {
			faces = append(faces, Face{p + 1, p, p + 2})
		}
	}
	return buildMesh(t, positions, nil, faces...)
}

// =============================================================================
// Exact Output
// =============================================================================

func TestStripifyQuad(t *testing.T) {
	s, indices := generateRestart(t, quadMesh(t))

	want := []uint32{0, 1, 2, 3}
	if !reflect.DeepEqual(indices, want) {
		t.Errorf("indices = %v, want %v", indices, want)
	}
	if s.NumStrips() != 1 {
		t.Errorf("NumStrips = %d, want 1", s.NumStrips())
	}
}

func TestStripifyDisjointWithRestart(t *testing.T) {
	m := buildMesh(t, []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		5, 0, 0, 6, 0, 0, 5, 1, 0,
	}, nil,
		Face{0, 1, 2},
		Face{3, 4, 5},
	)
	s, indices := generateRestart(t, m)

	want := []uint32{0, 1, 2, testRestart, 3, 4, 5}
	if !reflect.DeepEqual(indices, want) {
		t.Errorf("indices = %v, want %v", indices, want)
	}
	if s.NumStrips() != 2 {
		t.Errorf("NumStrips = %d, want 2", s.NumStrips())
	}
}

func TestStripifyDisjointWithDegenerateTriangles(t *testing.T) {
	m := buildMesh(t, []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0,
		5, 0, 0, 6, 0, 0, 5, 1, 0,
	}, nil,
		Face{0, 1, 2},
		Face{3, 4, 5},
	)
	s, indices := generateDegenerate(t, m)

	// The first strip ends after one face, so the splice needs the extra
	// duplicate of the new start point to keep the winding upright.
	want := []uint32{0, 1, 2, 2, 3, 3, 3, 4, 5}
	if !reflect.DeepEqual(indices, want) {
		t.Errorf("indices = %v, want %v", indices, want)
	}
	if s.NumStrips() != 2 {
		t.Errorf("NumStrips = %d, want 2", s.NumStrips())
	}
}

func TestStripifySeamBreaksStrip(t *testing.T) {
	// Both faces share a position edge but disagree on the point indices
	// across it, so the strip must not cross.
	s, indices := generateRestart(t, seamQuadMesh(t))

	want := []uint32{0, 1, 2, testRestart, 2, 3, 4}
	if !reflect.DeepEqual(indices, want) {
		t.Errorf("indices = %v, want %v", indices, want)
	}
	if s.NumStrips() != 2 {
		t.Errorf("NumStrips = %d, want 2", s.NumStrips())
	}
}

func TestStripifyLadder(t *testing.T) {
	for _, n := range []int{1, 2, 3, 6, 11} {
		s, indices := generateRestart(t, ladderMesh(t, n))

		want := make([]uint32, n+2)
		for i := range want {
			want[i] = uint32(i)
		}
		if !reflect.DeepEqual(indices, want) {
			t.Errorf("n=%d: indices = %v, want %v", n, indices, want)
		}
		if s.NumStrips() != 1 {
			t.Errorf("n=%d: NumStrips = %d, want 1", n, s.NumStrips())
		}
	}
}

// =============================================================================
// Coverage and Determinism
// =============================================================================

func TestStripifyCoversEveryFace(t *testing.T) {
	meshes := map[string]*Mesh{
		"quad":   quadMesh(t),
		"seam":   seamQuadMesh(t),
		"ladder": ladderMesh(t, 9),
		"grid":   gridMesh(t, 7, 5),
	}
	for name, m := range meshes {
		t.Run(name, func(t *testing.T) {
			want := sortedFaces(meshFaces(m))

			_, restartIndices := generateRestart(t, m)
			var fromRestart []Face
			UnpackStrips(restartIndices, testRestart, func(f Face) {
				fromRestart = append(fromRestart, f)
			})
			if got := sortedFaces(fromRestart); !reflect.DeepEqual(got, want) {
				t.Errorf("restart strips unpack to %v, want %v", got, want)
			}

			_, degenIndices := generateDegenerate(t, m)
			var fromDegen []Face
			UnpackStrips(degenIndices, testRestart, func(f Face) {
				fromDegen = append(fromDegen, f)
			})
			if got := sortedFaces(fromDegen); !reflect.DeepEqual(got, want) {
				t.Errorf("degenerate strips unpack to %v, want %v", got, want)
			}
		})
	}
}

func TestStripifyDeterministic(t *testing.T) {
	m := gridMesh(t, 6, 4)

	_, first := generateRestart(t, m)
	s := NewStripifier()
	var w IndexSliceWriter
	if err := s.GenerateWithPrimitiveRestart(m, testRestart, &w); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, w.Indices) {
		t.Error("two runs over the same mesh produced different strips")
	}

	// A reused stripifier must behave like a fresh one.
	var w2 IndexSliceWriter
	if err := s.GenerateWithPrimitiveRestart(m, testRestart, &w2); err != nil {
		t.Fatalf("reused run: %v", err)
	}
	if !reflect.DeepEqual(first, w2.Indices) {
		t.Error("reused stripifier produced different strips")
	}
}

func TestStripifyStripCountMatchesSeparators(t *testing.T) {
	m := gridMesh(t, 5, 5)
	s, indices := generateRestart(t, m)

	separators := 0
	for _, v := range indices {
		if v == testRestart {
			separators++
		}
	}
	if s.NumStrips() != separators+1 {
		t.Errorf("NumStrips = %d, want %d (separators + 1)", s.NumStrips(), separators+1)
	}
}

// =============================================================================
// Edge Cases and Errors
// =============================================================================

func TestStripifyZeroFaces(t *testing.T) {
	m := buildMesh(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	s, indices := generateRestart(t, m)
	if len(indices) != 0 {
		t.Errorf("indices = %v, want empty", indices)
	}
	if s.NumStrips() != 0 {
		t.Errorf("NumStrips = %d, want 0", s.NumStrips())
	}
}

func TestStripifyErrors(t *testing.T) {
	noPos := New(3)
	noPos.AddFace(Face{0, 1, 2})

	nonManifold := buildMesh(t, []float32{
		0, 0, 0, 1, 0, 0, 0, 1, 0, 1, 1, 0,
	}, nil,
		Face{0, 1, 2},
		Face{1, 2, 3},
	)

	tests := []struct {
		name string
		mesh *Mesh
		want error
	}{
		{"no position attribute", noPos, ErrNoPositionAttribute},
		{"non-manifold connectivity", nonManifold, ErrNonManifold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStripifier()
			var w IndexSliceWriter
			err := s.GenerateWithPrimitiveRestart(tt.mesh, testRestart, &w)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if len(w.Indices) != 0 {
				t.Errorf("output written before error: %v", w.Indices)
			}

			err = s.GenerateWithDegenerateTriangles(tt.mesh, &w)
			if !errors.Is(err, tt.want) {
				t.Errorf("degenerate error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestStripifyAfterErrorRecovers(t *testing.T) {
	s := NewStripifier()
	noPos := New(3)
	noPos.AddFace(Face{0, 1, 2})
	var w IndexSliceWriter
	if err := s.GenerateWithPrimitiveRestart(noPos, testRestart, &w); err == nil {
		t.Fatal("expected error for mesh without positions")
	}

	var w2 IndexSliceWriter
	if err := s.GenerateWithPrimitiveRestart(quadMesh(t), testRestart, &w2); err != nil {
		t.Fatalf("generation after error: %v", err)
	}
	if want := []uint32{0, 1, 2, 3}; !reflect.DeepEqual(w2.Indices, want) {
		t.Errorf("indices = %v, want %v", w2.Indices, want)
	}
}
