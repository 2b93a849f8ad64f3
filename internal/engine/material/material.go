// Package material resolves Wavefront material library entries into
// renderer-ready materials with uploaded textures.
package material

import "github.com/Faultbox/meshview/internal/engine/texture"

// Material holds Phong shading coefficients and texture maps.
// A material returned by Resolver always has all three maps set.
type Material struct {
	Name      string
	Ambient   [3]float32
	Diffuse   [3]float32
	Specular  [3]float32
	Shininess float32

	AmbientMap  texture.Handle
	DiffuseMap  texture.Handle
	SpecularMap texture.Handle
}

// Coefficients is the numeric part of a material.
type Coefficients struct {
	Ambient   [3]float32 `yaml:"ambient"`
	Diffuse   [3]float32 `yaml:"diffuse"`
	Specular  [3]float32 `yaml:"specular"`
	Shininess float32    `yaml:"shininess"`
}

// BlockDefaults apply to statements missing from a material block that
// exists in the library.
var BlockDefaults = Coefficients{
	Ambient:   [3]float32{0, 0, 0},
	Diffuse:   [3]float32{1, 1, 1},
	Specular:  [3]float32{1, 1, 1},
	Shininess: 0,
}

// FallbackDefaults describe a material whose block could not be found.
var FallbackDefaults = Coefficients{
	Ambient:   [3]float32{0.1, 0.1, 0.1},
	Diffuse:   [3]float32{0.8, 0.8, 0.8},
	Specular:  [3]float32{0.5, 0.5, 0.5},
	Shininess: 32,
}

// Coefficients returns the numeric part of the material.
func (m *Material) Coefficients() Coefficients {
	return Coefficients{
		Ambient:   m.Ambient,
		Diffuse:   m.Diffuse,
		Specular:  m.Specular,
		Shininess: m.Shininess,
	}
}

// Maps returns the ambient, diffuse and specular handles in that order.
func (m *Material) Maps() [3]texture.Handle {
	return [3]texture.Handle{m.AmbientMap, m.DiffuseMap, m.SpecularMap}
}

func fromCoefficients(name string, c Coefficients) *Material {
	return &Material{
		Name:      name,
		Ambient:   c.Ambient,
		Diffuse:   c.Diffuse,
		Specular:  c.Specular,
		Shininess: c.Shininess,
	}
}
