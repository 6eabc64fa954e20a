package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrender/pkg/config"
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scalar"
)

// loadMesh loads a model by file extension and fits it into a 2-unit cube
// centered on the origin.
func loadMesh[T scalar.Number[T]](path string) (*models.Mesh[T], error) {
	var (
		mesh *models.Mesh[T]
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = models.LoadOBJ[T](path)
	case ".gltf", ".glb":
		mesh, err = models.LoadGLTF[T](path)
	default:
		return nil, fmt.Errorf("load %s: %w (use .obj, .gltf or .glb)", path, models.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	fit(mesh)
	return mesh, nil
}

// fit centers the mesh and scales its largest dimension to 2.
func fit[T scalar.Number[T]](mesh *models.Mesh[T]) {
	mesh.CalculateBounds()
	size := mesh.Size()
	maxDim := scalar.Max3(size.X, size.Y, size.Z)
	if scalar.Sign(maxDim) <= 0 {
		return
	}
	s := scalar.Int[T](2).Div(maxDim)
	mesh.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(mesh.Center().Negate())))
}

// scene is a loaded mesh placed by the config. It is read-only and may be
// drawn by several renderers at once.
type scene[T scalar.Number[T]] struct {
	cfg   config.Config
	mesh  *models.Mesh[T]
	model math3d.Mat4[T]
}

func newScene[T scalar.Number[T]](cfg config.Config, mesh *models.Mesh[T]) *scene[T] {
	return &scene[T]{cfg: cfg, mesh: mesh, model: config.ModelMatrix[T](cfg.Model)}
}

// frame clears r and draws the mesh seen from the configured orbit turned
// by yaw and pitch degrees, zoomed by zoom. With guides set, a floor grid,
// the world axes and the mesh bounds are drawn over the mesh.
func (s *scene[T]) frame(r *render.Renderer[T], yaw, pitch, zoom float64, guides bool) render.Stats {
	cam := render.NewCamera[T]()
	cam.Orbit(math3d.Vec3[T]{}, s.cfg.Camera.Distance*zoom,
		math3d.Degrees(s.cfg.Camera.Yaw+yaw),
		math3d.Degrees(max(-maxPitch, min(maxPitch, s.cfg.Camera.Pitch+pitch))))
	r.SetView(cam.ViewMatrix())
	r.Clear()
	r.DrawMesh(s.mesh, s.model)
	if guides {
		s.guides(r)
	}
	return r.EndFrame()
}

// guides draws the floor grid under the mesh, the axes and its bounds.
func (s *scene[T]) guides(r *render.Renderer[T]) {
	box := render.NewAABB(s.mesh.BoundsMin, s.mesh.BoundsMax).Transform(s.model)
	size := scalar.Max(box.Size().X, box.Size().Z).Mul(scalar.Int[T](2))
	r.DrawGrid(size, 9, box.Min.Y, render.ColorGray)
	r.DrawAxes(scalar.One[T]())
	r.DrawAABB(box, render.ColorCyan)
}
