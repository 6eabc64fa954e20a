// Package models provides mesh representation and loading for the renderer.
package models

import (
	"errors"
	"fmt"
	"image"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// NoIndex marks an absent texcoord or normal index in a Face.
const NoIndex = -1

// ErrIndexRange is returned by Validate when a face references an element
// that does not exist.
var ErrIndexRange = errors.New("index out of range")

// Mesh owns geometry, materials and textures. It is read-only while being
// rendered and may be shared between renderers.
type Mesh[T scalar.Number[T]] struct {
	Name      string
	Positions []math3d.Vec3[T]
	TexCoords []math3d.Vec2[T]
	Normals   []math3d.Vec3[T]
	Faces     []Face
	Materials map[string]*Material
	Textures  map[string]image.Image

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3[T]
	BoundsMax math3d.Vec3[T]
}

// Face is a triangle. T and N hold NoIndex when the mesh has no texcoords or
// normals for it.
type Face struct {
	V        [3]int // Indices into Mesh.Positions
	T        [3]int // Indices into Mesh.TexCoords
	N        [3]int // Indices into Mesh.Normals
	Material string // Key into Mesh.Materials, empty for none
}

// NewFace creates a face with only position indices.
func NewFace(v0, v1, v2 int) Face {
	return Face{
		V: [3]int{v0, v1, v2},
		T: [3]int{NoIndex, NoIndex, NoIndex},
		N: [3]int{NoIndex, NoIndex, NoIndex},
	}
}

// HasTexCoords reports whether every corner has a texcoord index.
func (f Face) HasTexCoords() bool {
	return f.T[0] >= 0 && f.T[1] >= 0 && f.T[2] >= 0
}

// HasNormals reports whether every corner has a normal index.
func (f Face) HasNormals() bool {
	return f.N[0] >= 0 && f.N[1] >= 0 && f.N[2] >= 0
}

// NewMesh creates an empty mesh.
func NewMesh[T scalar.Number[T]](name string) *Mesh[T] {
	return &Mesh[T]{
		Name:      name,
		Materials: make(map[string]*Material),
		Textures:  make(map[string]image.Image),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh[T]) CalculateBounds() {
	if len(m.Positions) == 0 {
		return
	}

	m.BoundsMin = m.Positions[0]
	m.BoundsMax = m.Positions[0]

	for _, p := range m.Positions[1:] {
		m.BoundsMin = m.BoundsMin.Min(p)
		m.BoundsMax = m.BoundsMax.Max(p)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh[T]) Center() math3d.Vec3[T] {
	return m.BoundsMin.Add(m.BoundsMax).Scale(scalar.Half[T]())
}

// Size returns the dimensions of the bounding box.
func (m *Mesh[T]) Size() math3d.Vec3[T] {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh[T]) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of positions.
func (m *Mesh[T]) VertexCount() int {
	return len(m.Positions)
}

// FaceNormal returns the unit normal of face i from its counter-clockwise
// winding.
func (m *Mesh[T]) FaceNormal(i int) math3d.Vec3[T] {
	f := m.Faces[i]
	v0 := m.Positions[f.V[0]]
	edge1 := m.Positions[f.V[1]].Sub(v0)
	edge2 := m.Positions[f.V[2]].Sub(v0)
	return edge1.Cross(edge2).Normalize()
}

// CalculateSmoothNormals replaces the normal set with one area-weighted
// normal per position and points every face at it.
func (m *Mesh[T]) CalculateSmoothNormals() {
	normals := make([]math3d.Vec3[T], len(m.Positions))

	for _, f := range m.Faces {
		v0 := m.Positions[f.V[0]]
		edge1 := m.Positions[f.V[1]].Sub(v0)
		edge2 := m.Positions[f.V[2]].Sub(v0)
		n := edge1.Cross(edge2) // Don't normalize yet

		for _, vi := range f.V {
			normals[vi] = normals[vi].Add(n)
		}
	}

	for i := range normals {
		normals[i] = normals[i].Normalize()
	}

	m.Normals = normals
	for i := range m.Faces {
		m.Faces[i].N = m.Faces[i].V
	}
}

// Transform bakes mat into positions and normals.
func (m *Mesh[T]) Transform(mat math3d.Mat4[T]) {
	for i := range m.Positions {
		m.Positions[i] = mat.MulVec3(m.Positions[i])
	}
	nm := math3d.NormalMatrix(mat)
	for i := range m.Normals {
		m.Normals[i] = nm.MulVec3(m.Normals[i]).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the geometry and materials. Texture images
// are shared.
func (m *Mesh[T]) Clone() *Mesh[T] {
	clone := &Mesh[T]{
		Name:      m.Name,
		Positions: append([]math3d.Vec3[T](nil), m.Positions...),
		TexCoords: append([]math3d.Vec2[T](nil), m.TexCoords...),
		Normals:   append([]math3d.Vec3[T](nil), m.Normals...),
		Faces:     append([]Face(nil), m.Faces...),
		Materials: make(map[string]*Material, len(m.Materials)),
		Textures:  make(map[string]image.Image, len(m.Textures)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	for k, v := range m.Materials {
		mat := *v
		clone.Materials[k] = &mat
	}
	for k, v := range m.Textures {
		clone.Textures[k] = v
	}
	return clone
}

// Material returns the named material, or nil.
func (m *Mesh[T]) Material(name string) *Material {
	if name == "" {
		return nil
	}
	return m.Materials[name]
}

// DiffuseTexture returns the diffuse texture of the named material, or nil
// when the material has none or its image was not loaded.
func (m *Mesh[T]) DiffuseTexture(material string) (string, image.Image) {
	mat := m.Material(material)
	if mat == nil || mat.DiffuseMap == "" {
		return "", nil
	}
	return mat.DiffuseMap, m.Textures[mat.DiffuseMap]
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh[T]) GetBounds() (lo, hi math3d.Vec3[T]) {
	return m.BoundsMin, m.BoundsMax
}

// Validate checks every face index against the mesh arrays.
func (m *Mesh[T]) Validate() error {
	check := func(face, idx, n int, what string) error {
		if idx < 0 || idx >= n {
			return fmt.Errorf("face %d: %s index %d of %d: %w", face, what, idx, n, ErrIndexRange)
		}
		return nil
	}

	for i, f := range m.Faces {
		for k := range 3 {
			if err := check(i, f.V[k], len(m.Positions), "position"); err != nil {
				return err
			}
			if f.T[k] != NoIndex {
				if err := check(i, f.T[k], len(m.TexCoords), "texcoord"); err != nil {
					return err
				}
			}
			if f.N[k] != NoIndex {
				if err := check(i, f.N[k], len(m.Normals), "normal"); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
