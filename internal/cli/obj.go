package cli

import (
	"bufio"
	"fmt"
	"io"

	"github.com/parti-cad/parti/pkg/kernel"
)

// writeOBJ serializes meshes as a Wavefront OBJ file with one named
// object per mesh. Vertex normals are emitted alongside positions and
// referenced per face. OBJ indices are global across objects and
// 1-based.
func writeOBJ(w io.Writer, meshes []*kernel.Mesh) error {
	bw := bufio.NewWriter(w)

	offset := uint32(1)
	for _, m := range meshes {
		if m.IsEmpty() {
			continue
		}
		if _, err := fmt.Fprintf(bw, "o %s\n", m.Name); err != nil {
			return err
		}
		for i := 0; i+2 < len(m.Vertices); i += 3 {
			if _, err := fmt.Fprintf(bw, "v %g %g %g\n",
				m.Vertices[i], m.Vertices[i+1], m.Vertices[i+2]); err != nil {
				return err
			}
		}
		for i := 0; i+2 < len(m.Normals); i += 3 {
			if _, err := fmt.Fprintf(bw, "vn %g %g %g\n",
				m.Normals[i], m.Normals[i+1], m.Normals[i+2]); err != nil {
				return err
			}
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := m.Indices[i] + offset
			b := m.Indices[i+1] + offset
			c := m.Indices[i+2] + offset
			if _, err := fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
				return err
			}
		}
		offset += uint32(m.VertexCount())
	}

	return bw.Flush()
}
