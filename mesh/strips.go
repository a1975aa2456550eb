package mesh

// UnpackStrips re-triangulates a strip index stream produced by
// [Stripifier], calling emit for every non-degenerate triangle in its
// original winding order. Occurrences of restart split the stream into
// independent strips; triangles with a repeated index (the degenerate
// splice triangles) are discarded.
func UnpackStrips(indices []uint32, restart uint32, emit func(Face)) {
	start := 0
	for i := 0; i <= len(indices); i++ {
		if i == len(indices) || indices[i] == restart {
			unpackStrip(indices[start:i], emit)
			start = i + 1
		}
	}
}

// unpackStrip applies the standard strip rule: triangle k uses indices k,
// k+1, k+2, with the first two swapped for odd k to restore winding.
func unpackStrip(strip []uint32, emit func(Face)) {
	for k := 0; k+2 < len(strip); k++ {
		a, b, c := strip[k], strip[k+1], strip[k+2]
		if k&1 == 1 {
			a, b = b, a
		}
		if a == b || b == c || a == c {
			continue
		}
		emit(Face{PointIndex(a), PointIndex(b), PointIndex(c)})
	}
}
