// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Doc is a checked glTF asset with its buffers resolved.
type Doc struct {
	*GLTF
	// Data holds the contents of GLTF.Buffers.
	Data [][]byte
	// Dir is the directory that relative URIs refer to.
	Dir string
}

// Load reads the .gltf or .glb file name and resolves
// its buffers. External buffers are read relative to the
// directory of name. Data URIs must be base64 encoded.
func Load(name string) (*Doc, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	js, bin := b, []byte(nil)
	if IsGLB(bytes.NewReader(b)) {
		if js, bin, err = readGLB(b); err != nil {
			return nil, err
		}
	}
	f, err := Decode(bytes.NewReader(js))
	if err != nil {
		return nil, err
	}
	if err := f.Check(); err != nil {
		return nil, err
	}
	d := &Doc{GLTF: f, Dir: filepath.Dir(name)}
	if err := d.resolve(bin); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Doc) resolve(bin []byte) error {
	d.Data = make([][]byte, len(d.Buffers))
	for i := range d.Buffers {
		buf := &d.Buffers[i]
		var (
			data []byte
			err  error
		)
		switch uri := buf.URI; {
		case uri == "":
			if i != 0 || bin == nil {
				return fmt.Errorf("%sbuffer %d has no data", prefix, i)
			}
			data = bin
		case strings.HasPrefix(uri, "data:"):
			data, err = decodeDataURI(uri)
		default:
			var p string
			if p, err = url.PathUnescape(uri); err == nil {
				data, err = os.ReadFile(filepath.Join(d.Dir, filepath.FromSlash(p)))
			}
		}
		if err != nil {
			return fmt.Errorf("%sbuffer %d: %w", prefix, i, err)
		}
		if int64(len(data)) < buf.ByteLength {
			return fmt.Errorf("%sbuffer %d is shorter than its ByteLength", prefix, i)
		}
		d.Data[i] = data
	}
	return nil
}

func decodeDataURI(uri string) ([]byte, error) {
	hdr, data, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasSuffix(hdr, ";base64") {
		return nil, newErr("data URI is not base64")
	}
	return base64.StdEncoding.DecodeString(data)
}

// Roots returns the root nodes to instantiate: those of
// the default scene, or of the first scene if there is no
// default. Without scenes, every parentless node is a root.
func (d *Doc) Roots() []int64 {
	switch {
	case d.Scene != nil:
		return d.Scenes[*d.Scene].Nodes
	case len(d.Scenes) > 0:
		return d.Scenes[0].Nodes
	}
	hasParent := make([]bool, len(d.Nodes))
	for i := range d.Nodes {
		for _, c := range d.Nodes[i].Children {
			hasParent[c] = true
		}
	}
	var roots []int64
	for i, p := range hasParent {
		if !p {
			roots = append(roots, int64(i))
		}
	}
	return roots
}

// element returns the bytes of each element of accessor i.
// Accessors without a buffer view yield zeroed elements.
func (d *Doc) element(i int64) (data []byte, stride, size int, err error) {
	a := &d.Accessors[i]
	size = componentSize(a.ComponentType) * componentCount(a.Type)
	if a.BufferView == nil {
		return make([]byte, int(a.Count)*size), size, size, nil
	}
	bv := &d.BufferViews[*a.BufferView]
	stride = int(bv.ByteStride)
	if stride == 0 {
		stride = size
	}
	view := d.Data[bv.Buffer][bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	end := a.ByteOffset + int64(stride)*(a.Count-1) + int64(size)
	if end > int64(len(view)) {
		return nil, 0, 0, fmt.Errorf("%saccessor %d out of BufferView bounds", prefix, i)
	}
	return view[a.ByteOffset:end], stride, size, nil
}

// Floats reads accessor i as float32 vectors of n components.
// FLOAT is read as is. Normalized UNSIGNED_BYTE and
// UNSIGNED_SHORT are mapped to [0, 1].
func (d *Doc) Floats(i int64, n int) ([]float32, error) {
	a := &d.Accessors[i]
	if componentCount(a.Type) != n || a.Type == MAT2 {
		return nil, fmt.Errorf("%saccessor %d: want %d components, have %s", prefix, i, n, a.Type)
	}
	data, stride, _, err := d.element(i)
	if err != nil {
		return nil, err
	}
	var read func([]byte) float32
	switch {
	case a.ComponentType == FLOAT:
		read = func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }
	case a.ComponentType == UNSIGNED_BYTE && a.Normalized:
		read = func(b []byte) float32 { return float32(b[0]) / math.MaxUint8 }
	case a.ComponentType == UNSIGNED_SHORT && a.Normalized:
		read = func(b []byte) float32 { return float32(binary.LittleEndian.Uint16(b)) / math.MaxUint16 }
	default:
		return nil, fmt.Errorf("%saccessor %d: component type %d not supported", prefix, i, a.ComponentType)
	}
	csz := componentSize(a.ComponentType)
	s := make([]float32, 0, int(a.Count)*n)
	for e := 0; e < int(a.Count); e++ {
		b := data[e*stride:]
		for c := 0; c < n; c++ {
			s = append(s, read(b[c*csz:]))
		}
	}
	return s, nil
}

// Indices reads accessor i as unsigned integer scalars.
func (d *Doc) Indices(i int64) ([]uint32, error) {
	a := &d.Accessors[i]
	if a.Type != SCALAR {
		return nil, fmt.Errorf("%saccessor %d: indices must be %s", prefix, i, SCALAR)
	}
	data, stride, _, err := d.element(i)
	if err != nil {
		return nil, err
	}
	var read func([]byte) uint32
	switch a.ComponentType {
	case UNSIGNED_BYTE:
		read = func(b []byte) uint32 { return uint32(b[0]) }
	case UNSIGNED_SHORT:
		read = func(b []byte) uint32 { return uint32(binary.LittleEndian.Uint16(b)) }
	case UNSIGNED_INT:
		read = binary.LittleEndian.Uint32
	default:
		return nil, fmt.Errorf("%saccessor %d: component type %d not valid for indices", prefix, i, a.ComponentType)
	}
	s := make([]uint32, a.Count)
	for e := range s {
		s[e] = read(data[e*stride:])
	}
	return s, nil
}

// ImageURI returns the URI of the image that texture i
// refers to. Images stored in buffer views are not
// supported.
func (d *Doc) ImageURI(i int64) (string, error) {
	src := d.Textures[i].Source
	if src == nil {
		return "", fmt.Errorf("%stexture %d has no source", prefix, i)
	}
	img := &d.Images[*src]
	switch {
	case img.URI == "":
		return "", fmt.Errorf("%simage %d is not stored in a file", prefix, *src)
	case strings.HasPrefix(img.URI, "data:"):
		return "", fmt.Errorf("%simage %d is a data URI", prefix, *src)
	}
	return url.PathUnescape(img.URI)
}
