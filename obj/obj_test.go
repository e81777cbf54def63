// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package obj

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, s string, mr MaterialReader) ([]Shape, []Material) {
	t.Helper()
	shapes, mats, err := Decode(strings.NewReader(s), mr)
	require.NoError(t, err)
	return shapes, mats
}

func TestDecodeTriangle(t *testing.T) {
	shapes, mats := decodeString(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`, nil)
	assert.Empty(t, mats)
	require.Len(t, shapes, 1)
	m := shapes[0].Mesh
	assert.Equal(t, "", shapes[0].Name)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, m.Positions)
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
	assert.Equal(t, []int{-1}, m.MaterialIDs)
	assert.Empty(t, m.TexCoords)
	assert.Empty(t, m.Normals)
	assert.Equal(t, 3, m.VertexCount())
}

func TestDecodeFan(t *testing.T) {
	shapes, _ := decodeString(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0.5 1.5 0
f 1 2 3 4 5
`, nil)
	require.Len(t, shapes, 1)
	m := shapes[0].Mesh
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, m.Indices)
	assert.Len(t, m.MaterialIDs, 3)
}

func TestDecodeVertices(t *testing.T) {
	shapes, _ := decodeString(t, `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0.25 0.75
vt 1
vn 0 0 1
f 1/1/1 2/1/1 3/2/1
f -3/-2/-1 -1/2/1 -2//1
`, nil)
	require.Len(t, shapes, 1)
	m := shapes[0].Mesh
	// The second face reuses two vertices and adds one
	// with no texcoord.
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, []float32{0.25, 0.75, 0.25, 0.75, 1, 0, 0, 0}, m.TexCoords)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1}, m.Normals)
	assert.Equal(t, []float32{1, 0, 0}, m.Positions[9:])
}

func TestDecodeShapes(t *testing.T) {
	shapes, _ := decodeString(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o empty
g first group
f 1 2 3
o
s off
o second
f 3 2 1
f 1 2 3
`, nil)
	require.Len(t, shapes, 3)
	assert.Equal(t, "", shapes[0].Name)
	assert.Equal(t, "first group", shapes[1].Name)
	assert.Equal(t, "second", shapes[2].Name)
	assert.Equal(t, []uint32{0, 1, 2, 2, 1, 0}, shapes[2].Mesh.Indices)
	assert.Equal(t, 3, shapes[2].Mesh.VertexCount())
}

func TestDecodeErrors(t *testing.T) {
	const verts = "v 0 0 0\nv 1 0 0\nv 0 1 0\n"
	for _, x := range [...]struct {
		src  string
		line int
	}{
		{verts + "f 0 1 2\n", 4},
		{verts + "f 1 2 4\n", 4},
		{verts + "f 1 2 -4\n", 4},
		{verts + "\nf 1 2\n", 5},
		{verts + "f 1/1 2 3\n", 4},
		{verts + "f 1//x 2 3\n", 4},
		{"v 0 0\n", 1},
		{"v 0 0 zero\n", 1},
		{"usemtl\n", 1},
		{"mtllib\n", 1},
	} {
		shapes, mats, err := Decode(strings.NewReader(x.src), nil)
		var perr *ParseError
		require.ErrorAs(t, err, &perr, "source: %q", x.src)
		assert.Equal(t, x.line, perr.Line, "source: %q", x.src)
		assert.Nil(t, shapes)
		assert.Nil(t, mats)
	}
}

func TestDecodeMaterials(t *testing.T) {
	fsys := fstest.MapFS{
		"assets/a.mtl": {Data: []byte("newmtl a\nKd 1 0 0\nnewmtl b\nKd 0 1 0\n")},
		"assets/b.mtl": {Data: []byte("newmtl b\nKd 0 0 1\nnewmtl c\nKd 1 1 1\n")},
	}
	mr := FSMaterialReader{FS: fsys, Dir: "assets"}
	shapes, mats := decodeString(t, `
mtllib a.mtl b.mtl
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
usemtl c
f 1 2 3
usemtl missing
f 1 2 3
usemtl b
f 1 2 3
f 1 2 3 1
`, mr)
	require.Len(t, mats, 4)
	assert.Equal(t, "b", mats[2].Name)
	require.Len(t, shapes, 1)
	// "b" resolves to its first definition.
	assert.Equal(t, []int{-1, 3, -1, 1, 1, 1}, shapes[0].Mesh.MaterialIDs)
	assert.Equal(t, [3]float32{0, 1, 0}, mats[1].Diffuse)

	_, _, err := Decode(strings.NewReader("mtllib nope.mtl\n"), mr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	fsys["assets/bad.mtl"] = &fstest.MapFile{Data: []byte("newmtl x\nKd 1\nKd 1 2\n")}
	_, _, err = Decode(strings.NewReader("# bad\nmtllib bad.mtl\n"), mr)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "bad.mtl", perr.File)
	assert.Equal(t, 3, perr.Line)
}

func TestDecodeMtl(t *testing.T) {
	matMap, mats, err := DecodeMtl(strings.NewReader(`
# comment
newmtl first
Ka 0.1 0.2 0.3
Kd 0.5
Ks 1 1 1
Tf 0.9 0.8 0.7
Ke 0 0 0.5
Ns 96
Ni 1.45
Tr 0.25
illum 2
map_Ka amb.png
map_Kd -o 0.5 0.5 -s 2 2 diffuse.png
map_Ks -clamp on -s 1 shiny  metal.png
norm normal.png
map_bump -bm 0.5 bump.png
Pr 0.5
newmtl second
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"first": 0, "second": 1}, matMap)
	require.Len(t, mats, 2)
	m := mats[0]
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, m.Ambient)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, m.Diffuse)
	assert.Equal(t, [3]float32{1, 1, 1}, m.Specular)
	assert.Equal(t, [3]float32{0.9, 0.8, 0.7}, m.Transmittance)
	assert.Equal(t, [3]float32{0, 0, 0.5}, m.Emission)
	assert.Equal(t, float32(96), m.Shininess)
	assert.Equal(t, float32(1.45), m.IOR)
	assert.Equal(t, float32(0.75), m.Dissolve)
	assert.Equal(t, 2, m.Illum)
	assert.Equal(t, "amb.png", m.AmbientTex)
	assert.Equal(t, "diffuse.png", m.DiffuseTex)
	assert.Equal(t, "shiny metal.png", m.SpecularTex)
	assert.Equal(t, "normal.png", m.NormalTex)
	assert.Equal(t, "bump.png", m.BumpTex)
	assert.Equal(t, map[string]string{"Pr": "0.5"}, m.Unknown)

	d := mats[1]
	assert.Equal(t, "second", d.Name)
	assert.Equal(t, float32(1), d.Dissolve)
	assert.Equal(t, float32(1), d.IOR)
	assert.Equal(t, [3]float32{}, d.Diffuse)
	assert.Empty(t, d.DiffuseTex)

	for _, s := range [...]string{
		"Kd 1 1 1\n",
		"newmtl\n",
		"newmtl a\nKd 1 1\n",
		"newmtl a\nNs x\n",
		"newmtl a\nillum 2.5\n",
		"newmtl a\nmap_Kd -s\n",
		"newmtl a\nmap_Kd -o 1 2 -bm\n",
	} {
		_, _, err := DecodeMtl(strings.NewReader(s))
		assert.Error(t, err, "source: %q", s)
	}
}

func TestLoad(t *testing.T) {
	shapes, mats, err := Load("testdata/cube.obj", "")
	require.NoError(t, err)
	require.Len(t, mats, 2)
	require.Len(t, shapes, 1)
	s := shapes[0]
	assert.Equal(t, "cube", s.Name)
	assert.Len(t, s.Mesh.Indices, 36)
	assert.Equal(t, 24, s.Mesh.VertexCount())
	assert.Len(t, s.Mesh.TexCoords, 48)
	assert.Len(t, s.Mesh.Normals, 72)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 1, 1}, s.Mesh.MaterialIDs)
	assert.Equal(t, "checker.png", mats[1].DiffuseTex)
	assert.Equal(t, float32(0.5), mats[1].Dissolve)
	assert.Equal(t, [3]float32{1, 0, 0}, mats[0].Diffuse)

	_, _, err = Load("testdata/cube.obj", "nonexistent")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, _, err = Load("testdata/nonexistent.obj", "")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}
