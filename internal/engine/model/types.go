// Package model builds renderer-ready meshes from Wavefront OBJ data.
package model

import "unsafe"

// Vertex is one expanded face corner. Field order is the GPU buffer layout:
// position (3 floats), texture coordinate (2), normal (3).
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// Vertex buffer layout.
const (
	VertexStride   = int32(unsafe.Sizeof(Vertex{}))          // 32 bytes
	PositionOffset = int(unsafe.Offsetof(Vertex{}.Position)) // 0
	TexCoordOffset = int(unsafe.Offsetof(Vertex{}.TexCoord)) // 12
	NormalOffset   = int(unsafe.Offsetof(Vertex{}.Normal))   // 20
)

// Floats returns the vertex as 8 interleaved floats.
func (v Vertex) Floats() [8]float32 {
	return [8]float32{
		v.Position[0], v.Position[1], v.Position[2],
		v.TexCoord[0], v.TexCoord[1],
		v.Normal[0], v.Normal[1], v.Normal[2],
	}
}

// Mesh holds non-indexed triangles ready for GPU upload.
// Every three consecutive vertices form one triangle.
type Mesh struct {
	Vertices []Vertex
	Bounds   Bounds
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Floats flattens the vertex buffer into interleaved floats.
func (m *Mesh) Floats() []float32 {
	out := make([]float32, 0, len(m.Vertices)*8)
	for _, v := range m.Vertices {
		f := v.Floats()
		out = append(out, f[:]...)
	}
	return out
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the middle of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Size returns the extent of the box on each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{
		b.Max[0] - b.Min[0],
		b.Max[1] - b.Min[1],
		b.Max[2] - b.Min[2],
	}
}
