package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// ErrUnsupportedFormat is returned for files or accessors the loaders
// cannot read.
var ErrUnsupportedFormat = errors.New("unsupported format")

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader[T scalar.Number[T]] struct {
	// Options
	CalculateNormals bool
	SkipTextures     bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader[T scalar.Number[T]]() *GLTFLoader[T] {
	return &GLTFLoader[T]{CalculateNormals: true}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF[T scalar.Number[T]](path string) (*Mesh[T], error) {
	return NewGLTFLoader[T]().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader[T]) Load(path string) (*Mesh[T], error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.FromDocument(doc, filepath.Base(path), filepath.Dir(path))
}

// FromDocument converts an already decoded document. dir resolves image
// URIs that are not embedded.
func (l *GLTFLoader[T]) FromDocument(doc *gltf.Document, name, dir string) (*Mesh[T], error) {
	mesh := NewMesh[T](name)

	for i, mat := range doc.Materials {
		m := l.material(doc, i, mat)
		mesh.Materials[m.Name] = m
	}
	if !l.SkipTextures {
		for _, m := range mesh.Materials {
			if m.DiffuseMap == "" {
				continue
			}
			img, err := l.image(doc, m.DiffuseMap, dir)
			if err != nil {
				return nil, fmt.Errorf("material %s: %w", m.Name, err)
			}
			mesh.Textures[m.DiffuseMap] = img
		}
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("gltf %s: %w", name, err)
	}
	if l.CalculateNormals && len(mesh.Normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

func materialName(i int, mat *gltf.Material) string {
	if mat.Name != "" {
		return mat.Name
	}
	return "material" + strconv.Itoa(i)
}

func (l *GLTFLoader[T]) material(doc *gltf.Document, i int, mat *gltf.Material) *Material {
	m := DefaultMaterial(materialName(i, mat))
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return m
	}
	if f := pbr.BaseColorFactor; f != nil {
		m.Diffuse = [3]float64{f[0], f[1], f[2]}
		m.Dissolve = f[3]
	}
	if tex := pbr.BaseColorTexture; tex != nil && tex.Index < len(doc.Textures) {
		if src := doc.Textures[tex.Index].Source; src != nil {
			m.DiffuseMap = "image" + strconv.Itoa(*src)
		}
	}
	return m
}

// image decodes the image keyed "imageN".
func (l *GLTFLoader[T]) image(doc *gltf.Document, key, dir string) (image.Image, error) {
	idx, err := strconv.Atoi(key[len("image"):])
	if err != nil || idx >= len(doc.Images) {
		return nil, fmt.Errorf("image %s: %w", key, ErrUnsupportedFormat)
	}
	img := doc.Images[idx]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if end := bv.ByteOffset + bv.ByteLength; end <= len(buf.Data) {
			data = buf.Data[bv.ByteOffset:end]
		}
	case img.URI != "":
		data, err = os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("image %s has no data: %w", key, ErrUnsupportedFormat)
	}
	return DecodeImage(bytes.NewReader(data), img.URI)
}

// processMesh extracts geometry from a GLTF mesh.
func (l *GLTFLoader[T]) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh[T]) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readFloats(doc, posIdx, gltf.AccessorVec3)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals, uvs [][]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readFloats(doc, idx, gltf.AccessorVec3); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readFloats(doc, idx, gltf.AccessorVec2); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		material := ""
		if prim.Material != nil && *prim.Material < len(doc.Materials) {
			material = materialName(*prim.Material, doc.Materials[*prim.Material])
		}

		base := len(mesh.Positions)
		hasN := len(normals) == len(positions) && len(mesh.Normals) == base
		hasT := len(uvs) == len(positions) && len(mesh.TexCoords) == base

		for i, p := range positions {
			mesh.Positions = append(mesh.Positions, math3d.V3f[T](float64(p[0]), float64(p[1]), float64(p[2])))
			if hasN {
				n := normals[i]
				mesh.Normals = append(mesh.Normals, math3d.V3f[T](float64(n[0]), float64(n[1]), float64(n[2])))
			}
			if hasT {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				mesh.TexCoords = append(mesh.TexCoords, math3d.V2f[T](float64(uvs[i][0]), 1-float64(uvs[i][1])))
			}
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		// GLTF front faces are counter-clockwise, same as the renderer.
		for i := 0; i+2 < len(indices); i += 3 {
			f := NewFace(base+indices[i], base+indices[i+1], base+indices[i+2])
			f.Material = material
			if hasN {
				f.N = f.V
			}
			if hasT {
				f.T = f.V
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readFloats reads a float VEC2/VEC3 accessor.
func readFloats(doc *gltf.Document, accessorIdx int, want gltf.AccessorType) ([][]float32, error) {
	if accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexRange)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != want || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("accessor %d is %v/%v: %w", accessorIdx, accessor.Type, accessor.ComponentType, ErrUnsupportedFormat)
	}

	n := 2
	if want == gltf.AccessorVec3 {
		n = 3
	}
	data, stride, err := accessorBytes(doc, accessor, n*4)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, accessor.Count)
	for i := range out {
		row := make([]float32, n)
		for j := range n {
			off := i*stride + j*4
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		}
		out[i] = row
	}
	return out, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrIndexRange)
	}
	accessor := doc.Accessors[accessorIdx]

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("index type %v: %w", accessor.ComponentType, ErrUnsupportedFormat)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, accessor.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		case 4:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

// accessorBytes returns the accessor's byte range and element stride,
// checking that every element fits in the buffer.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view: %w", ErrUnsupportedFormat)
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data: %w", ErrUnsupportedFormat)
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, fmt.Errorf("accessor reads past buffer end (%d > %d): %w", end, len(buffer.Data), ErrIndexRange)
		}
	}
	return buffer.Data[start:], stride, nil
}
