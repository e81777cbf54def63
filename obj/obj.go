// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package obj decodes Wavefront OBJ (.obj) files and their
// companion material libraries (.mtl).
//
// Only polygonal geometry is supported. Faces are
// triangulated as fans and each shape is emitted as an
// indexed triangle list.
package obj

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Material is a material record from an .mtl file.
// Colors are linear RGB.
type Material struct {
	Name string

	Ambient       [3]float32
	Diffuse       [3]float32
	Specular      [3]float32
	Transmittance [3]float32
	Emission      [3]float32
	Shininess     float32
	IOR           float32
	// 1 is opaque, 0 is fully transparent.
	Dissolve float32
	// Illumination model.
	Illum int

	AmbientTex  string
	DiffuseTex  string
	SpecularTex string
	NormalTex   string
	BumpTex     string

	// Statements not understood by the decoder,
	// keyed by their first field.
	Unknown map[string]string
}

func newMaterial(name string) Material {
	return Material{
		Name:      name,
		Shininess: 1,
		IOR:       1,
		Dissolve:  1,
	}
}

// MeshData is the geometry of a shape.
// Vertices are unique (position, texcoord, normal)
// combinations; Positions and Normals have three
// elements per vertex and TexCoords two.
// Normals and TexCoords are empty if no face of the
// shape references them; otherwise missing elements
// are zero.
type MeshData struct {
	Positions []float32
	Normals   []float32
	TexCoords []float32
	// Triangle list.
	Indices []uint32
	// One material index per triangle, into the material
	// table returned with the shape. -1 means none.
	MaterialIDs []int
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int { return len(m.Positions) / 3 }

// Shape is a named mesh.
// Shapes are delimited by "o" and "g" statements.
type Shape struct {
	Name string
	Mesh MeshData
}

// MaterialReader is the interface that opens material
// libraries referenced by "mtllib" statements.
type MaterialReader interface {
	OpenMaterial(name string) (io.ReadCloser, error)
}

// FileMaterialReader opens material libraries from the
// operating system's file system, relative to BaseDir.
type FileMaterialReader struct {
	BaseDir string
}

// OpenMaterial implements MaterialReader.
func (r FileMaterialReader) OpenMaterial(name string) (io.ReadCloser, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(r.BaseDir, name)
	}
	return os.Open(name)
}

// FSMaterialReader opens material libraries from an fs.FS.
type FSMaterialReader struct {
	FS fs.FS
	// Dir is prepended to every name.
	Dir string
}

// OpenMaterial implements MaterialReader.
func (r FSMaterialReader) OpenMaterial(name string) (io.ReadCloser, error) {
	return r.FS.Open(path.Join(r.Dir, filepath.ToSlash(name)))
}

// ParseError describes a malformed statement.
type ParseError struct {
	// File is the .obj or .mtl file name, if known.
	File string
	// Line is 1-based.
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	s := "obj: "
	if e.File != "" {
		s += e.File + ":"
	}
	s += fmt.Sprintf("%d: %s", e.Line, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *ParseError) Unwrap() error { return e.Err }

// BaseDir returns the directory against which companion
// files of filename are resolved when mtlBase is empty.
func BaseDir(filename, mtlBase string) string {
	if mtlBase != "" {
		return mtlBase
	}
	return filepath.Dir(filename)
}

// Load decodes the .obj file filename.
// Material libraries are opened relative to mtlBase or,
// if it is empty, to the directory containing filename.
// Nothing is returned on failure.
func Load(filename, mtlBase string) ([]Shape, []Material, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("obj: %w", err)
	}
	defer f.Close()
	shapes, mats, err := decode(f, filename, FileMaterialReader{BaseDir(filename, mtlBase)})
	if err != nil {
		return nil, nil, err
	}
	return shapes, mats, nil
}

// Decode decodes .obj data from r.
// mr is used to open material libraries; if it is nil,
// "mtllib" statements are ignored.
func Decode(r io.Reader, mr MaterialReader) ([]Shape, []Material, error) {
	return decode(r, "", mr)
}
