package render

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/scalar"
)

// Mode is a set of independent render toggles.
type Mode uint32

const (
	ModeCullFaces     Mode = 1 << iota // skip back faces
	ModeWireframe                      // triangle edges over the fill
	ModeFlatShading                    // shaded fill from vertex colors
	ModeVertexMarkers                  // small squares on triangle corners
	ModeLighting                       // directional Lambert term
	ModeNormals                        // face normal lines
	ModeTexturing                      // diffuse texture fill
)

// DefaultModes is a lit, textured, culled fill without overlays.
const DefaultModes = ModeCullFaces | ModeFlatShading | ModeLighting | ModeTexturing

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeCullFaces, "cull"},
	{ModeWireframe, "wireframe"},
	{ModeFlatShading, "fill"},
	{ModeVertexMarkers, "markers"},
	{ModeLighting, "lighting"},
	{ModeNormals, "normals"},
	{ModeTexturing, "textures"},
}

// Has reports whether every flag in f is set.
func (m Mode) Has(f Mode) bool { return m&f == f }

// Toggle flips the flags in f.
func (m Mode) Toggle(f Mode) Mode { return m ^ f }

func (m Mode) String() string {
	var names []string
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			names = append(names, mn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParseMode parses a comma-separated list of mode names as printed by
// Mode.String.
func ParseMode(s string) (Mode, error) {
	var m Mode
	if s == "" || s == "none" {
		return 0, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		found := false
		for _, mn := range modeNames {
			if mn.name == part {
				m |= mn.mode
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("render: unknown mode %q", part)
		}
	}
	return m, nil
}

// ParseRasterizer parses a rasterizer name as printed by its String.
func ParseRasterizer(s string) (Rasterizer, error) {
	return parseEnum(s, "rasterizer", Scanline, EdgeFunction)
}

// ParseLineAlgorithm parses a line algorithm name as printed by its String.
func ParseLineAlgorithm(s string) (LineAlgorithm, error) {
	return parseEnum(s, "line algorithm", Bresenham, DDA)
}

// ParseDepthFunc parses a depth function name as printed by its String.
func ParseDepthFunc(s string) (DepthFunc, error) {
	return parseEnum(s, "depth func", DepthGreater, DepthLess)
}

// ParseFilterMode parses a texture filter name as printed by its String.
func ParseFilterMode(s string) (FilterMode, error) {
	return parseEnum(s, "texture filter", FilterNearest, FilterBilinear)
}

// ParseWrapMode parses a texture wrap name as printed by its String.
func ParseWrapMode(s string) (WrapMode, error) {
	return parseEnum(s, "texture wrap", WrapRepeat, WrapClamp)
}

func parseEnum[E fmt.Stringer](s, what string, values ...E) (E, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range values {
		if v.String() == s {
			return v, nil
		}
	}
	var zero E
	return zero, fmt.Errorf("render: unknown %s %q", what, s)
}

// Stats counts work done since the last ResetStats.
type Stats struct {
	Meshes        int // DrawMesh calls
	MeshesCulled  int // meshes rejected by their bounding box
	Faces         int // faces submitted
	FacesClipped  int // faces entirely outside the frustum
	Triangles     int // clipped triangles rasterized
	Culled        int // clipped triangles skipped as back faces
	Pixels        int // fragments written
	DepthRejected int // fragments that failed the depth test
}

// Config holds everything a Renderer needs. DefaultConfig fills every
// field.
type Config[T scalar.Number[T]] struct {
	Width, Height int

	FOV       math3d.Angle
	Near, Far float64

	// ULP biases edge functions on edges that are neither top nor left.
	ULP T
	// LightDir is the world-space direction the light travels.
	LightDir math3d.Vec3[T]

	DepthFunc  DepthFunc
	Rasterizer Rasterizer // strategy for the shaded fill
	Lines      LineAlgorithm

	// Sampling for textures converted from material images
	TextureFilter FilterMode
	TextureWrap   WrapMode

	ClearColor   Color
	WireColor    Color
	MarkerColor  Color
	NormalColor  Color
	MarkerSize   int
	NormalLength T

	Modes  Mode
	Logger *log.Logger
}

// DefaultConfig returns a 320x240 configuration with a 60 degree lens and
// the light shining straight down -Z.
func DefaultConfig[T scalar.Number[T]]() Config[T] {
	return Config[T]{
		Width:        320,
		Height:       240,
		FOV:          math3d.Degrees(60),
		Near:         0.1,
		Far:          100,
		ULP:          scalar.Epsilon[T](),
		LightDir:     math3d.V3f[T](0, 0, -1),
		DepthFunc:    DepthGreater,
		Rasterizer:   Scanline,
		Lines:        Bresenham,
		ClearColor:   ColorBlack,
		WireColor:    ColorGreen,
		MarkerColor:  ColorYellow,
		NormalColor:  ColorMagenta,
		MarkerSize:   3,
		NormalLength: scalar.Of[T](0.25),
		Modes:        DefaultModes,
	}
}

type textureKey struct {
	mesh any
	name string
}

// Renderer draws meshes into its own color and depth buffers. It is not
// safe for concurrent use; use one Renderer per goroutine.
type Renderer[T scalar.Number[T]] struct {
	Modes Mode

	cfg        Config[T]
	fb         *Framebuffer
	depth      *DepthBuffer[T]
	frustum    Frustum[T]
	projection math3d.Mat4[T]
	screen     math3d.Mat4[T]
	view       math3d.Mat4[T]
	light      math3d.Vec3[T]
	stats      Stats
	textures   map[textureKey]*Texture
	log        *log.Logger

	// Per-triangle state read by shadePixel.
	tris      []Triangle[T]
	cur       *Triangle[T]
	curTex    *Texture
	intensity T
	pixelFn   PixelFunc[T]
}

// NewRenderer creates a renderer with the identity view.
func NewRenderer[T scalar.Number[T]](cfg Config[T]) *Renderer[T] {
	r := &Renderer[T]{
		Modes:    cfg.Modes,
		cfg:      cfg,
		view:     math3d.Identity[T](),
		light:    cfg.LightDir.Normalize(),
		textures: make(map[textureKey]*Texture),
		log:      cfg.Logger,
		tris:     make([]Triangle[T], 0, MaxPolygonVertices-2),
	}
	r.pixelFn = r.shadePixel
	r.Resize(cfg.Width, cfg.Height)
	return r
}

// Width returns the framebuffer width.
func (r *Renderer[T]) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Renderer[T]) Height() int { return r.fb.Height }

// Config returns the current configuration.
func (r *Renderer[T]) Config() Config[T] { return r.cfg }

// Resize reallocates the buffers and rebuilds the screen and projection
// matrices for the new aspect ratio.
func (r *Renderer[T]) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	r.cfg.Width, r.cfg.Height = width, height
	r.fb = NewFramebuffer(width, height)
	r.depth = NewDepthBuffer[T](width, height, r.cfg.DepthFunc)
	r.screen = math3d.ScreenSpace[T](width, height)
	r.SetLens(r.cfg.FOV, r.cfg.Near, r.cfg.Far)
	r.Clear()
}

// SetLens rebuilds the projection matrix and view-space frustum.
func (r *Renderer[T]) SetLens(fovy math3d.Angle, near, far float64) {
	r.cfg.FOV, r.cfg.Near, r.cfg.Far = fovy, near, far
	aspect := float64(r.fb.Width) / float64(r.fb.Height)
	r.projection = math3d.Perspective[T](fovy, aspect, near, far)
	r.frustum = NewFrustum[T](fovy, aspect, near, far)
	if r.log != nil {
		r.log.Debug("lens", "fov", fovy.Degrees(), "aspect", aspect, "near", near, "far", far)
	}
}

// SetView sets the world-to-view matrix.
func (r *Renderer[T]) SetView(view math3d.Mat4[T]) {
	r.view = view
}

// SetLight sets the world-space light direction.
func (r *Renderer[T]) SetLight(dir math3d.Vec3[T]) {
	r.cfg.LightDir = dir
	r.light = dir.Normalize()
}

// SetRasterizer selects the strategy for the shaded fill.
func (r *Renderer[T]) SetRasterizer(ras Rasterizer) {
	r.cfg.Rasterizer = ras
}

// View returns the world-to-view matrix.
func (r *Renderer[T]) View() math3d.Mat4[T] { return r.view }

// Projection returns the projection matrix.
func (r *Renderer[T]) Projection() math3d.Mat4[T] { return r.projection }

// Frustum returns the view-space frustum.
func (r *Renderer[T]) Frustum() *Frustum[T] { return &r.frustum }

// Framebuffer returns the color buffer.
func (r *Renderer[T]) Framebuffer() *Framebuffer { return r.fb }

// Depth returns the depth buffer.
func (r *Renderer[T]) Depth() *DepthBuffer[T] { return r.depth }

// Clear resets the color buffer to the clear color and the depth buffer to
// its clear value.
func (r *Renderer[T]) Clear() {
	r.fb.Clear(r.cfg.ClearColor)
	r.depth.Clear()
}

// Stats returns the counters accumulated since the last reset.
func (r *Renderer[T]) Stats() Stats { return r.stats }

// ResetStats zeroes the counters.
func (r *Renderer[T]) ResetStats() { r.stats = Stats{} }

// EndFrame returns the frame's counters, logs them at debug level and
// resets them.
func (r *Renderer[T]) EndFrame() Stats {
	s := r.stats
	if r.log != nil {
		r.log.Debug("frame",
			"meshes", s.Meshes, "meshesCulled", s.MeshesCulled,
			"faces", s.Faces, "clipped", s.FacesClipped,
			"triangles", s.Triangles, "culled", s.Culled,
			"pixels", s.Pixels, "depthRejected", s.DepthRejected)
	}
	r.ResetStats()
	return s
}

// ColorBuffer exposes the raw RGBA8 pixels for blitting.
func (r *Renderer[T]) ColorBuffer() (pix []byte, width, height, pitch int) {
	return r.fb.Pixels, r.fb.Width, r.fb.Height, r.fb.Pitch
}

// Image returns the color buffer as an image sharing its memory.
func (r *Renderer[T]) Image() *image.RGBA {
	return r.fb.ToImage()
}

// DrawMesh draws every face of mesh transformed by model. It panics when a
// face indexes past the mesh arrays.
func (r *Renderer[T]) DrawMesh(mesh *models.Mesh[T], model math3d.Mat4[T]) {
	r.stats.Meshes++

	modelView := r.view.Mul(model)
	if mesh.BoundsMin != mesh.BoundsMax {
		box := NewAABB(mesh.BoundsMin, mesh.BoundsMax).Transform(modelView)
		if !r.frustum.IntersectAABB(box) {
			r.stats.MeshesCulled++
			return
		}
	}

	normalMat := math3d.NormalMatrix(model)
	for i := range mesh.Faces {
		r.drawFace(mesh, i, model, normalMat)
	}
}

func (r *Renderer[T]) drawFace(mesh *models.Mesh[T], i int, model math3d.Mat4[T], normalMat math3d.Mat3[T]) {
	f := &mesh.Faces[i]
	checkFace(mesh, i, f)
	r.stats.Faces++

	var world [3]math3d.Vec3[T]
	var v [3]Vertex[T]
	for k := range 3 {
		world[k] = model.MulVec4(math3d.Point(mesh.Positions[f.V[k]])).Vec3()
		v[k].Position = r.view.MulVec4(math3d.Point(world[k]))
	}

	normal := world[1].Sub(world[0]).Cross(world[2].Sub(world[0])).Normalize()
	if f.HasNormals() {
		var sum math3d.Vec3[T]
		for k := range 3 {
			v[k].Normal = normalMat.MulVec3(mesh.Normals[f.N[k]]).Normalize()
			sum = sum.Add(v[k].Normal)
		}
		if !scalar.IsZero(sum.LenSq()) {
			normal = sum.Normalize()
		}
	} else {
		for k := range 3 {
			v[k].Normal = normal
		}
	}

	r.intensity = scalar.One[T]()
	if r.Modes.Has(ModeLighting) {
		r.intensity = Intensity(normal, r.light)
	}

	base := ColorWhite
	if mat := mesh.Material(f.Material); mat != nil {
		base = mat.Color()
	}
	for k := range 3 {
		v[k].Color = base
	}

	r.curTex = nil
	if f.HasTexCoords() {
		for k := range 3 {
			v[k].TexCoord = mesh.TexCoords[f.T[k]]
		}
		if r.Modes.Has(ModeTexturing) {
			r.curTex = r.texture(mesh, f.Material)
		}
	}

	poly := Clip(v[0], v[1], v[2], &r.frustum)
	if poly.Empty() {
		r.stats.FacesClipped++
		return
	}
	r.tris = Triangulate(&poly, r.tris[:0])

	for t := range r.tris {
		r.drawTriangle(&r.tris[t])
	}

	if r.Modes.Has(ModeNormals) {
		c := world[0].Add(world[1]).Add(world[2]).Div(scalar.Int[T](3))
		r.DrawLine3D(c, c.Add(normal.Scale(r.cfg.NormalLength)), r.cfg.NormalColor)
	}
}

func (r *Renderer[T]) drawTriangle(tri *Triangle[T]) {
	for k := range 3 {
		ProjectToScreen(&tri[k], r.projection, r.screen)
	}
	a, b, c := tri[0].ScreenXY(), tri[1].ScreenXY(), tri[2].ScreenXY()

	if r.Modes.Has(ModeCullFaces) && IsBackFace(a, b, c) {
		r.stats.Culled++
		return
	}
	r.stats.Triangles++

	r.cur = tri
	switch {
	case r.curTex != nil:
		RasterizeEdge(a, b, c, r.fb.Width, r.fb.Height, r.cfg.ULP, r.pixelFn)
	case r.Modes.Has(ModeFlatShading):
		Rasterize(r.cfg.Rasterizer, a, b, c, r.fb.Width, r.fb.Height, r.cfg.ULP, r.pixelFn)
	}

	if r.Modes.Has(ModeWireframe) {
		r.drawLine(a, b, r.cfg.WireColor)
		r.drawLine(b, c, r.cfg.WireColor)
		r.drawLine(c, a, r.cfg.WireColor)
	}
	if r.Modes.Has(ModeVertexMarkers) {
		s := r.cfg.MarkerSize
		for _, p := range [3]math3d.Vec2[T]{a, b, c} {
			r.fb.DrawRect(scalar.Round(p.X)-s/2, scalar.Round(p.Y)-s/2, s, s, r.cfg.MarkerColor)
		}
	}
}

// shadePixel is the PixelFunc for both fills.
func (r *Renderer[T]) shadePixel(x, y int, w0, w1, w2 T) {
	tri := r.cur
	invZ := DepthAt(tri, w0, w1, w2)
	if scalar.IsZero(invZ) {
		return
	}
	if !r.depth.Test(x, y, invZ) {
		r.stats.DepthRejected++
		return
	}

	frag := Interpolate(tri, w0, w1, w2, invZ, r.curTex != nil)
	c := frag.Color
	if r.curTex != nil {
		c = SampleTexture(r.curTex, frag.TexCoord)
	}
	r.fb.SetPixel(x, y, Shade(c, r.intensity))
	r.stats.Pixels++
}

// texture returns the cached diffuse texture of a material, converting
// the decoded image on first use.
func (r *Renderer[T]) texture(mesh *models.Mesh[T], material string) *Texture {
	name, img := mesh.DiffuseTexture(material)
	if img == nil {
		return nil
	}
	key := textureKey{mesh: mesh, name: name}
	if tex, ok := r.textures[key]; ok {
		return tex
	}
	tex := TextureFromImage(img)
	tex.FilterMode = r.cfg.TextureFilter
	tex.WrapU, tex.WrapV = r.cfg.TextureWrap, r.cfg.TextureWrap
	r.textures[key] = tex
	if r.log != nil {
		r.log.Debug("texture", "mesh", mesh.Name, "name", name, "size", fmt.Sprintf("%dx%d", tex.Width, tex.Height))
	}
	return tex
}

// InvalidateTextures drops cached textures, for meshes whose images
// changed after they were first drawn.
func (r *Renderer[T]) InvalidateTextures() {
	clear(r.textures)
}

func checkFace[T scalar.Number[T]](mesh *models.Mesh[T], i int, f *models.Face) {
	for k := range 3 {
		if f.V[k] < 0 || f.V[k] >= len(mesh.Positions) {
			panic(fmt.Sprintf("render: face %d position index %d out of range [0,%d)", i, f.V[k], len(mesh.Positions)))
		}
		if f.T[k] != models.NoIndex && (f.T[k] < 0 || f.T[k] >= len(mesh.TexCoords)) {
			panic(fmt.Sprintf("render: face %d texcoord index %d out of range [0,%d)", i, f.T[k], len(mesh.TexCoords)))
		}
		if f.N[k] != models.NoIndex && (f.N[k] < 0 || f.N[k] >= len(mesh.Normals)) {
			panic(fmt.Sprintf("render: face %d normal index %d out of range [0,%d)", i, f.N[k], len(mesh.Normals)))
		}
	}
}
