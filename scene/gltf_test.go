// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scene

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/sgraph/gltf"
	"github.com/gviegas/sgraph/linear"
	"github.com/gviegas/sgraph/node"
	"github.com/gviegas/sgraph/texture"
)

func i64(v int64) *int64 { return &v }

// gltfAsset describes a textured triangle drawn by two
// nodes, plus a line primitive.
func gltfAsset() (*gltf.GLTF, []byte) {
	var bin bytes.Buffer
	binary.Write(&bin, binary.LittleEndian, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0})
	binary.Write(&bin, binary.LittleEndian, []float32{0, 0, 1, 0, 0, 1})
	binary.Write(&bin, binary.LittleEndian, []uint16{0, 1, 2})
	f := &gltf.GLTF{
		Accessors: []gltf.Accessor{
			{BufferView: i64(0), ComponentType: gltf.FLOAT, Count: 3, Type: gltf.VEC3},
			{BufferView: i64(1), ComponentType: gltf.FLOAT, Count: 3, Type: gltf.VEC2},
			{BufferView: i64(2), ComponentType: gltf.UNSIGNED_SHORT, Count: 3, Type: gltf.SCALAR},
		},
		Buffers: []gltf.Buffer{{ByteLength: int64(bin.Len())}},
		BufferViews: []gltf.BufferView{
			{ByteLength: 36},
			{ByteOffset: 36, ByteLength: 24},
			{ByteOffset: 60, ByteLength: 6},
		},
		Images:   []gltf.Image{{URI: "checker.png"}},
		Textures: []gltf.Texture{{Source: i64(0)}},
		Materials: []gltf.Material{{
			Name: "red",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor:  &[4]float32{1, 0, 0, 1},
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
			},
			EmissiveFactor: &[3]float32{0, 0, 0.5},
		}},
		Meshes: []gltf.Mesh{{Name: "tri", Primitives: []gltf.Primitive{
			{
				Attributes: map[string]int64{gltf.POSITION: 0, gltf.TEXCOORD_0: 1},
				Indices:    i64(2),
				Material:   i64(0),
			},
			{
				Attributes: map[string]int64{gltf.POSITION: 0},
				Mode:       i64(gltf.LINES),
			},
		}}},
		Nodes: []gltf.Node{
			{Name: "body", Translation: &[3]float32{1, 2, 3}, Children: []int64{1, 2}},
			{Mesh: i64(0), Scale: &[3]float32{2, 2, 2}},
			{Name: "copy", Mesh: i64(0), Matrix: &[16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, -5, 1}},
		},
		Scenes: []gltf.Scene{{Nodes: []int64{0}}},
	}
	f.Asset.Version = "2.0"
	return f, bin.Bytes()
}

func writeGLTF(t *testing.T, dir string, f *gltf.GLTF, bin []byte) string {
	t.Helper()
	f.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	var b bytes.Buffer
	require.NoError(t, gltf.Encode(&b, f))
	name := filepath.Join(dir, "asset.gltf")
	require.NoError(t, os.WriteFile(name, b.Bytes(), 0o644))
	return name
}

func TestLoadGLTFScene(t *testing.T) {
	s, ctx := newService(t, nil)
	log := captureLog(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "checker.png"), 2, 2)
	f, bin := gltfAsset()
	file := writeGLTF(t, dir, f, bin)

	g, err := s.LoadGLTFScene(nil, file)
	require.NoError(t, err)
	assert.Equal(t, file, g.Name())
	assert.Equal(t, node.Node(s.Root()), g.Parent())
	require.Equal(t, 1, g.Len())

	body := g.Children()[0]
	assert.Equal(t, "body", body.Name())
	assert.Equal(t, linear.V3{1, 2, 3}, body.Transform().Translation())
	require.Equal(t, 2, body.Len())
	unnamed, cp := body.Children()[0], body.Children()[1]
	assert.Equal(t, "node1", unnamed.Name())
	assert.Equal(t, "copy", cp.Name())
	assert.Equal(t, linear.V3{2, 2, 2}, unnamed.Transform().Scale())

	// The line primitive is skipped.
	require.Equal(t, 1, unnamed.Len())
	require.Equal(t, 1, cp.Len())
	assert.Contains(t, log.String(), `msg="primitive mode not supported"`)
	m := unnamed.Children()[0].(*node.Mesh)
	assert.Equal(t, "tri/0", m.Name())
	assert.Equal(t, 3, m.IndexCount())
	v := meshVertices(t, m)
	assert.Equal(t, linear.V2{1, 0}, v[1].UV, "texture coordinates are not flipped")

	world := node.World(cp.Children()[0])
	assert.Equal(t, linear.V4{1, 2, -2, 1}, world[3])

	mat := m.Material()
	require.NotNil(t, mat)
	assert.Same(t, mat, cp.Child("tri/0").Material(), "primitives share a glTF material")
	c, _ := mat.Diffuse()
	assert.Equal(t, linear.V3{1, 0, 0}, c)
	c, _ = mat.Emission()
	assert.Equal(t, linear.V3{0, 0, 0.5}, c)
	tex, ok := ctx.Cache().Lookup(filepath.Join(dir, "checker.png"))
	require.True(t, ok)
	assert.Equal(t, tex, diffuseTexture(t, m))
	assert.Contains(t, log.String(), `msg="gltf scene loaded"`)
}

func TestLoadGLTFSceneGLB(t *testing.T) {
	s, ctx := newService(t, nil)
	log := captureLog(t)
	f, bin := gltfAsset()
	f.Images[0].URI = "missing.png"
	var b bytes.Buffer
	require.NoError(t, gltf.EncodeGLB(&b, f, bin))
	file := filepath.Join(t.TempDir(), "asset.glb")
	require.NoError(t, os.WriteFile(file, b.Bytes(), 0o644))

	g, err := s.LoadGLTFScene(s.Root(), file)
	require.NoError(t, err)
	m, ok := g.Child("body").Child("node1").Child("tri/0").(*node.Mesh)
	require.True(t, ok)
	assert.Contains(t, log.String(), `msg="texture not loaded"`)
	white, ok := ctx.Cache().Lookup(texture.White)
	require.True(t, ok)
	assert.Equal(t, white, diffuseTexture(t, m))
}

func TestLoadGLTFSceneSkipsPrimitives(t *testing.T) {
	s, _ := newService(t, nil)
	log := captureLog(t)
	f, bin := gltfAsset()
	// Two indices do not make a triangle.
	f.Accessors[2].Count = 2
	file := writeGLTF(t, t.TempDir(), f, bin)

	g, err := s.LoadGLTFScene(nil, file)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Child("body").Child("node1").Len())
	assert.Contains(t, log.String(), `msg="primitive skipped"`)
}

func TestLoadGLTFSceneFailure(t *testing.T) {
	s, _ := newService(t, nil)
	f, bin := gltfAsset()
	f.Nodes[1].Children = []int64{0}
	file := writeGLTF(t, t.TempDir(), f, bin)

	_, err := s.LoadGLTFScene(nil, file)
	assert.ErrorContains(t, err, "scene: load")
	_, err = s.LoadGLTFScene(nil, filepath.Join(t.TempDir(), "none.gltf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, s.Root().Len())
}

func TestLoadGLTFSceneUninitializedParent(t *testing.T) {
	s, ctx := newService(t, nil)
	f, bin := gltfAsset()
	file := writeGLTF(t, t.TempDir(), f, bin)

	g, err := s.LoadGLTFScene(&node.Group{}, file)
	assert.ErrorIs(t, err, node.ErrInvalidOperation)
	assert.Nil(t, g)
	assert.Equal(t, 0, s.Root().Len())
	assert.Equal(t, 0, ctx.Buffers(), "meshes of a rejected group are destroyed")

	var p *node.Group
	g, err = s.LoadGLTFScene(p, file)
	require.NoError(t, err)
	assert.Equal(t, node.Node(s.Root()), g.Parent())
}
