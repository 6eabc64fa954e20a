package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/scalar"
)

// ErrSyntax is wrapped by every OBJ/MTL parse error.
var ErrSyntax = errors.New("syntax error")

// OBJLoader reads Wavefront OBJ files with their MTL libraries and diffuse
// textures.
type OBJLoader[T scalar.Number[T]] struct {
	// SmoothNormals generates per-vertex normals when the file has none.
	SmoothNormals bool
	// SkipTextures leaves Mesh.Textures empty instead of decoding map_Kd.
	SkipTextures bool
}

// NewOBJLoader creates an OBJ loader with default options.
func NewOBJLoader[T scalar.Number[T]]() *OBJLoader[T] {
	return &OBJLoader[T]{SmoothNormals: true}
}

// LoadOBJ loads an OBJ file from disk. Material libraries and textures are
// resolved relative to the file's directory.
func LoadOBJ[T scalar.Number[T]](file string) (*Mesh[T], error) {
	return NewOBJLoader[T]().Load(file)
}

// Load loads an OBJ file from disk.
func (l *OBJLoader[T]) Load(file string) (*Mesh[T], error) {
	return l.LoadFS(os.DirFS(filepath.Dir(file)), filepath.Base(file))
}

// LoadFS loads the OBJ file name from fsys.
func (l *OBJLoader[T]) LoadFS(fsys fs.FS, name string) (*Mesh[T], error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	p := &objParser[T]{
		mesh: NewMesh[T](strings.TrimSuffix(path.Base(name), path.Ext(name))),
		file: name,
	}
	if err := p.parse(f); err != nil {
		return nil, err
	}

	dir := path.Dir(name)
	for _, lib := range p.mtllibs {
		if err := l.loadMTL(fsys, path.Join(dir, lib), p.mesh); err != nil {
			return nil, err
		}
	}
	if !l.SkipTextures {
		if err := l.loadTextures(fsys, dir, p.mesh); err != nil {
			return nil, err
		}
	}

	if err := p.mesh.Validate(); err != nil {
		return nil, fmt.Errorf("obj %s: %w", name, err)
	}
	if l.SmoothNormals && len(p.mesh.Normals) == 0 {
		p.mesh.CalculateSmoothNormals()
	}
	p.mesh.CalculateBounds()

	return p.mesh, nil
}

func (l *OBJLoader[T]) loadMTL(fsys fs.FS, name string, mesh *Mesh[T]) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("open mtl: %w", err)
	}
	defer f.Close()

	mats, err := ParseMTL(f, name)
	if err != nil {
		return err
	}
	for k, v := range mats {
		mesh.Materials[k] = v
	}
	return nil
}

func (l *OBJLoader[T]) loadTextures(fsys fs.FS, dir string, mesh *Mesh[T]) error {
	for _, mat := range mesh.Materials {
		if mat.DiffuseMap == "" {
			continue
		}
		if _, ok := mesh.Textures[mat.DiffuseMap]; ok {
			continue
		}
		img, err := LoadImageFS(fsys, path.Join(dir, mat.DiffuseMap))
		if err != nil {
			return fmt.Errorf("material %s: %w", mat.Name, err)
		}
		mesh.Textures[mat.DiffuseMap] = img
	}
	return nil
}

// ParseOBJ parses OBJ geometry from r without resolving material libraries.
func ParseOBJ[T scalar.Number[T]](r io.Reader, name string) (*Mesh[T], error) {
	p := &objParser[T]{mesh: NewMesh[T](name), file: name}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	if err := p.mesh.Validate(); err != nil {
		return nil, fmt.Errorf("obj %s: %w", name, err)
	}
	p.mesh.CalculateBounds()
	return p.mesh, nil
}

type objParser[T scalar.Number[T]] struct {
	mesh     *Mesh[T]
	file     string
	line     int
	material string
	mtllibs  []string
}

func (p *objParser[T]) errorf(format string, args ...any) error {
	return fmt.Errorf("obj %s:%d: %s: %w", p.file, p.line, fmt.Sprintf(format, args...), ErrSyntax)
}

func (p *objParser[T]) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		p.line++
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "v":
			var v [3]float64
			if v, err = p.floats3(fields[1:]); err == nil {
				p.mesh.Positions = append(p.mesh.Positions, math3d.V3f[T](v[0], v[1], v[2]))
			}
		case "vt":
			var v [2]float64
			if v, err = p.floats2(fields[1:]); err == nil {
				p.mesh.TexCoords = append(p.mesh.TexCoords, math3d.V2f[T](v[0], v[1]))
			}
		case "vn":
			var v [3]float64
			if v, err = p.floats3(fields[1:]); err == nil {
				p.mesh.Normals = append(p.mesh.Normals, math3d.V3f[T](v[0], v[1], v[2]).Normalize())
			}
		case "f":
			err = p.face(fields[1:])
		case "usemtl":
			if len(fields) < 2 {
				return p.errorf("usemtl without name")
			}
			p.material = strings.Join(fields[1:], " ")
		case "mtllib":
			p.mtllibs = append(p.mtllibs, fields[1:]...)
		case "o":
			if len(fields) > 1 {
				p.mesh.Name = strings.Join(fields[1:], " ")
			}
		default:
			// g, s, l, p and vendor extensions carry nothing the renderer uses.
		}
		if err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read obj %s: %w", p.file, err)
	}
	return nil
}

// face parses one face line. Polygons are fan-split into triangles.
func (p *objParser[T]) face(groups []string) error {
	if len(groups) < 3 {
		return p.errorf("face needs 3 vertices, got %d", len(groups))
	}

	corners := make([][3]int, len(groups))
	for i, g := range groups {
		c, err := p.corner(g)
		if err != nil {
			return err
		}
		corners[i] = c
	}

	for i := 1; i+1 < len(corners); i++ {
		tri := [3][3]int{corners[0], corners[i], corners[i+1]}
		f := Face{Material: p.material}
		for k, c := range tri {
			f.V[k], f.T[k], f.N[k] = c[0], c[1], c[2]
		}
		p.mesh.Faces = append(p.mesh.Faces, f)
	}
	return nil
}

// corner parses v, v/vt, v//vn or v/vt/vn into 0-based indices.
func (p *objParser[T]) corner(group string) ([3]int, error) {
	out := [3]int{NoIndex, NoIndex, NoIndex}
	parts := strings.Split(group, "/")
	if len(parts) > 3 {
		return out, p.errorf("bad index group %q", group)
	}
	counts := [3]int{len(p.mesh.Positions), len(p.mesh.TexCoords), len(p.mesh.Normals)}

	for i, s := range parts {
		if s == "" {
			if i == 0 {
				return out, p.errorf("missing vertex index in %q", group)
			}
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n == 0 {
			return out, p.errorf("bad index %q", s)
		}
		if n < 0 {
			n += counts[i] // relative to the end of the list so far
		} else {
			n--
		}
		out[i] = n
	}
	return out, nil
}

func (p *objParser[T]) floats2(fields []string) ([2]float64, error) {
	var out [2]float64
	if len(fields) < 1 {
		return out, p.errorf("expected 2 numbers")
	}
	for i := 0; i < 2 && i < len(fields); i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, p.errorf("bad number %q", fields[i])
		}
		out[i] = f
	}
	return out, nil
}

func (p *objParser[T]) floats3(fields []string) ([3]float64, error) {
	var out [3]float64
	if len(fields) < 3 {
		return out, p.errorf("expected 3 numbers, got %d", len(fields))
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return out, p.errorf("bad number %q", fields[i])
		}
		out[i] = f
	}
	return out, nil
}

// ParseMTL parses a material library. name is used in error messages.
func ParseMTL(r io.Reader, name string) (map[string]*Material, error) {
	mats := make(map[string]*Material)
	var cur *Material
	line := 0

	errorf := func(format string, args ...any) error {
		return fmt.Errorf("mtl %s:%d: %s: %w", name, line, fmt.Sprintf(format, args...), ErrSyntax)
	}
	color := func(fields []string) ([3]float64, error) {
		var c [3]float64
		if len(fields) < 1 {
			return c, errorf("expected color")
		}
		for i := range 3 {
			s := fields[0]
			if i < len(fields) {
				s = fields[i]
			}
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return c, errorf("bad number %q", s)
			}
			c[i] = f
		}
		return c, nil
	}
	number := func(fields []string) (float64, error) {
		if len(fields) < 1 {
			return 0, errorf("expected number")
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, errorf("bad number %q", fields[0])
		}
		return f, nil
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		fields := strings.Fields(stripComment(sc.Text()))
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "newmtl" {
			if len(fields) < 2 {
				return nil, errorf("newmtl without name")
			}
			cur = DefaultMaterial(strings.Join(fields[1:], " "))
			mats[cur.Name] = cur
			continue
		}
		if cur == nil {
			return nil, errorf("%s before newmtl", fields[0])
		}

		var err error
		switch fields[0] {
		case "Kd":
			cur.Diffuse, err = color(fields[1:])
		case "Ka":
			cur.Ambient, err = color(fields[1:])
		case "Ks":
			cur.Specular, err = color(fields[1:])
		case "Ns":
			cur.Shininess, err = number(fields[1:])
		case "d":
			cur.Dissolve, err = number(fields[1:])
		case "Tr":
			var tr float64
			tr, err = number(fields[1:])
			cur.Dissolve = 1 - tr
		case "map_Kd":
			if len(fields) < 2 {
				return nil, errorf("map_Kd without file")
			}
			// Options such as -s or -o precede the file name, which is last.
			cur.DiffuseMap = filepath.ToSlash(fields[len(fields)-1])
		}
		if err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mtl %s: %w", name, err)
	}
	return mats, nil
}

func stripComment(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[:i]
	}
	return s
}
