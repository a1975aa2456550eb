package mesh

import "fmt"

// IndexWriter is the output sink contract of the stripifier: an append-only
// consumer of point index values. In most cases the values land in a buffer
// that can be used directly on the GPU.
type IndexWriter interface {
	WriteIndex(v uint32)
}

// IndexSliceWriter is an IndexWriter that appends to a slice.
type IndexSliceWriter struct {
	Indices []uint32
}

// WriteIndex appends v to the slice.
func (w *IndexSliceWriter) WriteIndex(v uint32) {
	w.Indices = append(w.Indices, v)
}

// Stripifier generates triangle strips from mesh connectivity. Strips are a
// memory efficient encoding of triangle connectivity that can be consumed
// directly by a rendering API: after the first triangle, every additional
// triangle costs roughly one index.
//
// Finding the optimal set of strips is NP-complete, so the generator uses a
// greedy heuristic: it always commits the longest strip that covers the
// next unprocessed face, selected among the three candidate strips through
// that face (one per corner). The result is locally, not globally, optimal.
//
// A Stripifier may be reused across meshes; every generation run fully
// resets its state. It is not safe for concurrent use.
type Stripifier struct {
	mesh *Mesh
	ct   *CornerTable

	// Candidate chains for the three strip directions through the current
	// seed face, rebuilt for every seed. The backing arrays are reused.
	stripFaces [3][]FaceIndex
	stripStart [3]CornerIndex

	visited []bool

	// chainStamp marks faces included in the candidate chain currently
	// being grown, so a chain that loops back onto itself terminates
	// without touching the visited set.
	chainStamp []uint32
	stamp      uint32

	numStrips       int
	numEncodedFaces int
	lastPoint       PointIndex
}

// NewStripifier creates a stripifier.
func NewStripifier() *Stripifier {
	return &Stripifier{lastPoint: InvalidPointIndex}
}

// NumStrips returns the number of strips generated by the last successful
// generation run.
func (s *Stripifier) NumStrips() int { return s.numStrips }

// GenerateWithPrimitiveRestart generates triangle strips for the mesh and
// writes the resulting point indices to w. Disjoint strips are separated by
// restartIndex, which the caller must choose outside the mesh's point index
// range (typically the maximum value representable in the target index
// width).
//
// On error no output has been written. A mesh with zero faces succeeds with
// zero strips and zero output.
func (s *Stripifier) GenerateWithPrimitiveRestart(m *Mesh, restartIndex uint32, w IndexWriter) error {
	if err := s.prepare(m); err != nil {
		return err
	}

	// Generate a strip from every face not covered by a previous strip.
	for f := FaceIndex(0); int(f) < m.NumFaces(); f++ {
		if s.visited[f] {
			continue
		}
		dir := s.findLongestStrip(f)

		if s.numStrips > 0 {
			w.WriteIndex(restartIndex)
		}
		s.storeStrip(dir, w)
	}
	return nil
}

// GenerateWithDegenerateTriangles is like GenerateWithPrimitiveRestart but
// splices disjoint strips with degenerate (zero area) triangles instead of
// a restart index. The output is slightly longer, but is accepted by all
// hardware and APIs, including ones without primitive restart support.
func (s *Stripifier) GenerateWithDegenerateTriangles(m *Mesh, w IndexWriter) error {
	if err := s.prepare(m); err != nil {
		return err
	}

	for f := FaceIndex(0); int(f) < m.NumFaces(); f++ {
		if s.visited[f] {
			continue
		}
		dir := s.findLongestStrip(f)

		if s.numStrips > 0 {
			// Duplicate the last encoded point (first degenerate face) and
			// connect it to the start point of the new strip (second
			// degenerate face).
			w.WriteIndex(uint32(s.lastPoint))
			startPoint := s.pointID(s.stripStart[dir])
			w.WriteIndex(uint32(startPoint))
			s.numEncodedFaces += 2
			// With an odd number of encoded faces the start point has to be
			// duplicated once more, otherwise the next strip would come out
			// with inverted winding.
			if s.numEncodedFaces&1 == 1 {
				w.WriteIndex(uint32(startPoint))
				s.numEncodedFaces++
			}
			// The final degenerate face is implicit: storeStrip re-emits the
			// start point as the first index of the new strip.
		}
		s.storeStrip(dir, w)
	}
	return nil
}

// prepare resets all run-scoped state and builds the adjacency structure.
// This is the only failure path of a generation run.
func (s *Stripifier) prepare(m *Mesh) error {
	s.mesh = m
	s.numStrips = 0
	s.numEncodedFaces = 0
	s.lastPoint = InvalidPointIndex

	ct, err := BuildCornerTable(m)
	if err != nil {
		return fmt.Errorf("stripifier: %w", err)
	}
	s.ct = ct

	s.visited = make([]bool, m.NumFaces())
	s.chainStamp = make([]uint32, m.NumFaces())
	s.stamp = 0
	return nil
}

func (s *Stripifier) pointID(c CornerIndex) PointIndex {
	return s.mesh.CornerToPointID(c)
}

// crossSeam returns the corner opposite to c, or InvalidCornerIndex when
// the edge lies on a boundary or the two incident triangles disagree on the
// point indices of the shared edge (an attribute seam). Strips never cross
// either.
func (s *Stripifier) crossSeam(c CornerIndex) CornerIndex {
	o := s.ct.Opposite(c)
	if o < 0 {
		return InvalidCornerIndex
	}
	if s.pointID(s.ct.Next(c)) != s.pointID(s.ct.Previous(o)) {
		return InvalidCornerIndex
	}
	if s.pointID(s.ct.Previous(c)) != s.pointID(s.ct.Next(o)) {
		return InvalidCornerIndex
	}
	return o
}

// findLongestStrip grows the three candidate strips containing face f and
// returns the direction id of the longest one. Ties resolve to the lowest
// direction id.
func (s *Stripifier) findLongestStrip(f FaceIndex) int {
	first := s.ct.FirstCorner(f)
	longestDir := -1
	longestLen := 0
	for i := 0; i < 3; i++ {
		s.growChain(i, first+CornerIndex(i))
		if n := len(s.stripFaces[i]); n > longestLen {
			longestLen = n
			longestDir = i
		}
	}
	return longestDir
}

// growChain grows the candidate strip that starts at the given corner,
// recording its face sequence in stripFaces[dir]. The chain follows the
// same zig-zag alternation that storeStrip traverses, so the recorded faces
// are exactly the ones a committed strip would cover. Growth stops at a
// boundary or seam, at a face committed to a previous strip, or when the
// chain returns to a face it already contains.
func (s *Stripifier) growChain(dir int, start CornerIndex) {
	faces := s.stripFaces[dir][:0]
	s.stripStart[dir] = start
	s.stamp++

	c := start
	for i := 0; c >= 0; i++ {
		f := s.ct.Face(c)
		if s.visited[f] || s.chainStamp[f] == s.stamp {
			break
		}
		s.chainStamp[f] = s.stamp
		faces = append(faces, f)

		if i > 0 {
			if i&1 == 1 {
				c = s.ct.Previous(c)
			} else {
				c = s.ct.Next(c)
			}
		}
		c = s.crossSeam(c)
	}
	s.stripFaces[dir] = faces
}

// storeStrip commits the candidate strip with the given direction id to the
// output stream, marking its faces visited. The first face emits three
// indices; every following face emits exactly one.
func (s *Stripifier) storeStrip(dir int, w IndexWriter) {
	s.numStrips++

	faces := s.stripFaces[dir]
	c := s.stripStart[dir]
	for i, f := range faces {
		s.visited[f] = true
		s.numEncodedFaces++

		if i == 0 {
			w.WriteIndex(uint32(s.pointID(c)))
			w.WriteIndex(uint32(s.pointID(s.ct.Next(c))))
			s.lastPoint = s.pointID(s.ct.Previous(c))
			w.WriteIndex(uint32(s.lastPoint))
		} else {
			s.lastPoint = s.pointID(c)
			w.WriteIndex(uint32(s.lastPoint))

			// Step to the source corner of the edge shared with the next
			// face, alternating sides to continue the zig-zag.
			if i&1 == 1 {
				c = s.ct.Previous(c)
			} else {
				c = s.ct.Next(c)
			}
		}
		c = s.ct.Opposite(c)
	}
}
