// Package tessellate walks a massing study and produces triangle meshes
// using a geometry kernel. One mesh is produced per built mass.
package tessellate

import (
	"fmt"

	"github.com/parti-cad/parti/pkg/kernel"
	"github.com/parti-cad/parti/pkg/study"
)

// Tessellate meshes every built mass in the study through the provided
// geometry kernel. Records without geometry are skipped; the study's
// warnings already name them. The tessellator is read-only and never
// mutates the study.
func Tessellate(st *study.Study, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if st == nil {
		return nil, nil
	}

	var meshes []*kernel.Mesh
	for _, rec := range st.Records() {
		if !rec.Built() {
			continue
		}
		mesh, err := k.ToMesh(rec.Result.Mass)
		if err != nil {
			return nil, fmt.Errorf("tessellate: mesh for mass %q: %w", rec.Name, err)
		}
		if rec.Name != "" {
			mesh.Name = rec.Name
		} else {
			mesh.Name = rec.ID.String()
		}
		meshes = append(meshes, mesh)
	}

	return meshes, nil
}
