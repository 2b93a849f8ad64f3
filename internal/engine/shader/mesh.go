package shader

import (
	_ "embed"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/meshview/internal/engine/material"
)

// MeshVertexShader transforms the interleaved position/texcoord/normal layout.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades with the Phong model and three material maps.
//
//go:embed mesh.frag
var MeshFragmentShader string

// Texture units used by SetMaterial.
const (
	AmbientUnit  = 0
	DiffuseUnit  = 1
	SpecularUnit = 2
)

// Uniform names of the mesh program.
const (
	UniformTransform   = "uTransform"
	UniformCameraPos   = "uCameraPos"
	UniformAmbient     = "uMaterial.ambient"
	UniformDiffuse     = "uMaterial.diffuse"
	UniformSpecular    = "uMaterial.specular"
	UniformShininess   = "uMaterial.shininess"
	UniformAmbientMap  = "uAmbientMap"
	UniformDiffuseMap  = "uDiffuseMap"
	UniformSpecularMap = "uSpecularMap"
)

// NewMeshProgram builds the mesh program and binds its samplers to their units.
func NewMeshProgram() (*Program, error) {
	p, err := NewProgram(MeshVertexShader, MeshFragmentShader)
	if err != nil {
		return nil, err
	}
	if err := p.Require(
		UniformTransform, UniformCameraPos,
		UniformAmbient, UniformDiffuse, UniformSpecular, UniformShininess,
		UniformAmbientMap, UniformDiffuseMap, UniformSpecularMap,
	); err != nil {
		p.Delete()
		return nil, err
	}

	p.Use()
	p.SetInt(UniformAmbientMap, AmbientUnit)
	p.SetInt(UniformDiffuseMap, DiffuseUnit)
	p.SetInt(UniformSpecularMap, SpecularUnit)
	return p, nil
}

// SetMaterial uploads the material coefficients and binds its maps.
// The program must be current.
func (p *Program) SetMaterial(m *material.Material) {
	p.SetVec3(UniformAmbient, m.Ambient)
	p.SetVec3(UniformDiffuse, m.Diffuse)
	p.SetVec3(UniformSpecular, m.Specular)
	p.SetFloat(UniformShininess, m.Shininess)

	for unit, h := range m.Maps() {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, uint32(h))
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

// SetCamera uploads the combined projection-view transform and eye position.
func (p *Program) SetCamera(transform mgl32.Mat4, eye mgl32.Vec3) {
	p.SetMat4(UniformTransform, transform)
	p.SetVec3(UniformCameraPos, eye)
}
