package model

import (
	"fmt"

	"github.com/Faultbox/meshview/pkg/formats"
)

// BuildOBJMesh expands every face corner of obj into a standalone vertex.
// Quads are split into two triangles sharing the first corner; winding and
// declaration order are preserved. Any index that does not resolve into its
// pool fails the whole build.
func BuildOBJMesh(obj *formats.OBJ) (*Mesh, error) {
	vertices := make([]Vertex, 0, obj.TriangleCount()*3)
	bounds := Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}

	for _, face := range obj.Faces {
		tris := face.Triangles()
		if tris == nil {
			return nil, fmt.Errorf("line %d: %w: got %d corners", face.Line, formats.ErrOBJMalformedFace, len(face.Corners))
		}
		for _, tri := range tris {
			for _, corner := range tri {
				v, err := resolveCorner(obj, corner)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", face.Line, err)
				}
				updateBounds(&bounds, v.Position)
				vertices = append(vertices, v)
			}
		}
	}

	if len(vertices) == 0 {
		bounds = Bounds{}
	}

	return &Mesh{
		Vertices: vertices,
		Bounds:   bounds,
	}, nil
}

func resolveCorner(obj *formats.OBJ, c formats.OBJCorner) (Vertex, error) {
	pos, err := obj.Position(c.Position)
	if err != nil {
		return Vertex{}, err
	}
	uv, err := obj.TexCoord(c.TexCoord)
	if err != nil {
		return Vertex{}, err
	}
	normal, err := obj.Normal(c.Normal)
	if err != nil {
		return Vertex{}, err
	}
	return Vertex{Position: pos, TexCoord: uv, Normal: normal}, nil
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
