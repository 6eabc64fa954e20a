package models

import (
	"image/color"
	"math"
)

// Material holds the subset of MTL/PBR properties the renderer uses.
// Colors are linear RGB in 0-1.
type Material struct {
	Name      string
	Diffuse   [3]float64 // Kd, or glTF baseColorFactor
	Ambient   [3]float64 // Ka
	Specular  [3]float64 // Ks
	Shininess float64    // Ns
	Dissolve  float64    // d, 1 = opaque

	// DiffuseMap is the key into Mesh.Textures, empty for none.
	DiffuseMap string
}

// DefaultMaterial returns an opaque white material.
func DefaultMaterial(name string) *Material {
	return &Material{
		Name:     name,
		Diffuse:  [3]float64{1, 1, 1},
		Dissolve: 1,
	}
}

// Color packs the diffuse color and dissolve into RGBA.
func (m *Material) Color() color.RGBA {
	return color.RGBA{
		R: unit8(m.Diffuse[0]),
		G: unit8(m.Diffuse[1]),
		B: unit8(m.Diffuse[2]),
		A: unit8(m.Dissolve),
	}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
