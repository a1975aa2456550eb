// Package mesh provides the triangle mesh data model used throughout
// meshcodec, together with the corner-table adjacency structure and the
// triangle-strip generator built on top of it.
//
// # Data Model
//
// A [Mesh] is a set of points referenced by triangular faces. A point is a
// unique combination of attribute values: two points may share the same
// position but differ in, say, texture coordinates. Such points produce
// attribute seams, edges whose incident triangles agree on geometry but not
// on attribute identity. Attribute data itself lives in [Attribute] values
// attached to the mesh.
//
// # Adjacency
//
// [BuildCornerTable] derives an array-indexed corner table from the mesh's
// position attribute. A corner is a (face, vertex) incidence; corners of
// face f are 3f, 3f+1 and 3f+2, so all navigation (Next, Previous,
// Opposite, Face) is O(1) integer arithmetic over flat arrays. Vertices are
// deduplicated by position value, which keeps triangles that only disagree
// on non-position attributes topologically adjacent.
//
// # Triangle Strips
//
// [Stripifier] converts mesh connectivity into GPU-ready triangle strips.
// Finding the minimal set of strips covering a mesh is NP-complete, so the
// generator uses a greedy heuristic: for every not-yet-covered face it grows
// the three candidate strips through that face (one per corner) and commits
// the longest one. Independent strips are spliced with either a primitive
// restart index or a parity-correct run of degenerate triangles.
package mesh
