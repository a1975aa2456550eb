// Package objfile reads and writes Wavefront OBJ geometry for the
// meshpack command and the examples.
//
// Every distinct v/vt/vn index triple becomes one mesh point, so meshes
// loaded from OBJ naturally carry the attribute seams the codec has to
// respect: positions shared across a UV seam stay one position value
// referenced by several points.
package objfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gogpu/meshcodec/mesh"
)

// ErrMalformed reports OBJ input the parser cannot interpret.
var ErrMalformed = errors.New("objfile: malformed input")

// vertexRef is a parsed v/vt/vn triple, zero-based; -1 marks an absent
// component.
type vertexRef struct {
	v, vt, vn int32
}

// Load parses OBJ data into a mesh. Faces with more than three vertices
// are triangulated as fans. Texture coordinate and normal attributes are
// attached only when every face vertex carries them.
func Load(r io.Reader) (*mesh.Mesh, error) {
	var (
		positions []float32 // 3 per v
		texCoords []float32 // 2 per vt
		normals   []float32 // 3 per vn
		faces     [][3]vertexRef
	)
	allTex, allNorm := true, true

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if err := parseFloats(fields[1:], 3, &positions); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
		case "vt":
			if err := parseFloats(fields[1:], 2, &texCoords); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
		case "vn":
			if err := parseFloats(fields[1:], 3, &normals); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face with %d vertices", ErrMalformed, lineNo, len(fields)-1)
			}
			refs := make([]vertexRef, 0, len(fields)-1)
			for _, fld := range fields[1:] {
				ref, err := parseVertexRef(fld, len(positions)/3, len(texCoords)/2, len(normals)/3)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				if ref.vt < 0 {
					allTex = false
				}
				if ref.vn < 0 {
					allNorm = false
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				faces = append(faces, [3]vertexRef{refs[0], refs[i], refs[i+1]})
			}
		}
		// Other directives (o, g, s, usemtl, mtllib) carry no geometry.
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return buildMesh(positions, texCoords, normals, faces,
		allTex && len(texCoords) > 0, allNorm && len(normals) > 0)
}

func buildMesh(positions, texCoords, normals []float32, faces [][3]vertexRef, useTex, useNorm bool) (*mesh.Mesh, error) {
	pointOf := make(map[vertexRef]mesh.PointIndex, 3*len(faces))
	var posMap, texMap, normMap []int32

	meshFaces := make([]mesh.Face, 0, len(faces))
	for _, f := range faces {
		var face mesh.Face
		for i, ref := range f {
			if !useTex {
				ref.vt = -1
			}
			if !useNorm {
				ref.vn = -1
			}
			p, ok := pointOf[ref]
			if !ok {
				p = mesh.PointIndex(len(posMap))
				pointOf[ref] = p
				posMap = append(posMap, ref.v)
				if useTex {
					texMap = append(texMap, ref.vt)
				}
				if useNorm {
					normMap = append(normMap, ref.vn)
				}
			}
			face[i] = p
		}
		meshFaces = append(meshFaces, face)
	}

	out := mesh.New(len(posMap))
	for _, face := range meshFaces {
		out.AddFace(face)
	}

	pos := mesh.NewAttribute(mesh.Position, 3, positions)
	pos.SetPointMap(posMap)
	out.AddAttribute(pos)
	if useTex {
		tc := mesh.NewAttribute(mesh.TexCoord, 2, texCoords)
		tc.SetPointMap(texMap)
		out.AddAttribute(tc)
	}
	if useNorm {
		n := mesh.NewAttribute(mesh.Normal, 3, normals)
		n.SetPointMap(normMap)
		out.AddAttribute(n)
	}
	return out, nil
}

// Save writes the mesh as OBJ. Attribute values are written as shared v/vt/vn
// pools and faces reference them through the point maps.
func Save(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	pos := m.NamedAttribute(mesh.Position)
	if pos == nil {
		return fmt.Errorf("objfile: mesh has no position attribute")
	}
	tex := m.NamedAttribute(mesh.TexCoord)
	norm := m.NamedAttribute(mesh.Normal)

	writeValues(bw, "v", pos)
	if tex != nil {
		writeValues(bw, "vt", tex)
	}
	if norm != nil {
		writeValues(bw, "vn", norm)
	}

	for f := 0; f < m.NumFaces(); f++ {
		face := m.Face(mesh.FaceIndex(f))
		fmt.Fprint(bw, "f")
		for _, p := range face {
			fmt.Fprintf(bw, " %d", pos.ValueIndex(p)+1)
			if tex != nil {
				fmt.Fprintf(bw, "/%d", tex.ValueIndex(p)+1)
				if norm != nil {
					fmt.Fprintf(bw, "/%d", norm.ValueIndex(p)+1)
				}
			} else if norm != nil {
				fmt.Fprintf(bw, "//%d", norm.ValueIndex(p)+1)
			}
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}

func writeValues(w *bufio.Writer, directive string, a *mesh.Attribute) {
	nc := a.NumComponents()
	for i := 0; i < a.NumValues(); i++ {
		v := a.Value(int32(i))
		fmt.Fprint(w, directive)
		for c := 0; c < nc; c++ {
			fmt.Fprintf(w, " %g", v[c])
		}
		fmt.Fprintln(w)
	}
}

func parseFloats(fields []string, n int, dst *[]float32) error {
	if len(fields) < n {
		return fmt.Errorf("want %d components, have %d", n, len(fields))
	}
	for _, fld := range fields[:n] {
		v, err := strconv.ParseFloat(fld, 32)
		if err != nil {
			return err
		}
		*dst = append(*dst, float32(v))
	}
	return nil
}

// parseVertexRef parses "v", "v/vt", "v//vn" or "v/vt/vn". OBJ indices are
// one-based; negative values count back from the current pool end.
func parseVertexRef(s string, numV, numVT, numVN int) (vertexRef, error) {
	ref := vertexRef{v: -1, vt: -1, vn: -1}
	parts := strings.Split(s, "/")
	if len(parts) > 3 {
		return ref, fmt.Errorf("vertex %q has %d components", s, len(parts))
	}
	counts := [3]int{numV, numVT, numVN}
	idx := [3]*int32{&ref.v, &ref.vt, &ref.vn}
	for i, part := range parts {
		if part == "" {
			if i == 0 {
				return ref, fmt.Errorf("vertex %q misses position index", s)
			}
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return ref, err
		}
		switch {
		case v > 0:
			v--
		case v < 0:
			v += counts[i]
		default:
			return ref, fmt.Errorf("vertex %q uses index 0", s)
		}
		if v < 0 || v >= counts[i] {
			return ref, fmt.Errorf("vertex %q out of range", s)
		}
		*idx[i] = int32(v)
	}
	if ref.v < 0 {
		return ref, fmt.Errorf("vertex %q misses position index", s)
	}
	return ref, nil
}
