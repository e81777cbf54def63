// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"bytes"
	"encoding/binary"
	"io"
)

// GLB header.
type glbHeader [3]uint32

// Indices in glbHeader.
const (
	headerMagic   = 0
	headerVersion = 1
	headerLength  = 2
)

// GLB chunk.
type glbChunk [2]uint32

// Indices in glbChunk.
const (
	chunkLength = 0
	chunkType   = 1
	// Then payload.
)

const (
	// glbHeader[headerMagic].
	magic = 0x46546c67

	// glbChunk[chunkType].
	typeJSON = 0x4e4f534a
	typeBIN  = 0x004e4942
)

// IsGLB returns whether r refers to a binary glTF (version 2).
// It assumes that r was positioned accordingly.
func IsGLB(r io.Reader) bool {
	var h glbHeader
	err := binary.Read(r, binary.LittleEndian, h[:])
	switch {
	case err != nil, h[headerMagic] != magic, h[headerVersion] != 2:
		return false
	default:
		return true
	}
}

// readGLB splits a GLB blob into its JSON and BIN chunks.
// bin is nil if the blob has no BIN chunk.
func readGLB(b []byte) (js, bin []byte, err error) {
	r := bytes.NewReader(b)
	var h glbHeader
	if err = binary.Read(r, binary.LittleEndian, h[:]); err != nil {
		return nil, nil, newErr("truncated GLB header")
	}
	if h[headerMagic] != magic || h[headerVersion] != 2 {
		return nil, nil, newErr("not a GLB blob")
	}
	if int64(h[headerLength]) > int64(len(b)) {
		return nil, nil, newErr("truncated GLB blob")
	}
	b = b[:h[headerLength]]
	off := int64(len(h) * 4)
	chunk := func() (typ uint32, data []byte, err error) {
		var c glbChunk
		if err = binary.Read(r, binary.LittleEndian, c[:]); err != nil {
			return 0, nil, newErr("truncated GLB chunk")
		}
		off += int64(len(c) * 4)
		n := int64(c[chunkLength])
		if off+n > int64(len(b)) {
			return 0, nil, newErr("GLB chunk out of bounds")
		}
		data = b[off : off+n]
		off += n
		_, err = r.Seek(off, io.SeekStart)
		return c[chunkType], data, err
	}
	typ, js, err := chunk()
	switch {
	case err != nil:
		return nil, nil, err
	case typ != typeJSON || len(js) == 0:
		return nil, nil, newErr("invalid GLB chunk")
	}
	for off < int64(len(b)) {
		typ, data, err := chunk()
		if err != nil {
			return nil, nil, err
		}
		// Unknown chunk types must be ignored.
		if typ == typeBIN && bin == nil {
			bin = data
		}
	}
	return js, bin, nil
}

// EncodeGLB encodes gltf and bin into w as a GLB blob.
// The BIN chunk is omitted if bin is empty.
func EncodeGLB(w io.Writer, gltf *GLTF, bin []byte) error {
	var js bytes.Buffer
	if err := Encode(&js, gltf); err != nil {
		return err
	}
	for js.Len()%4 != 0 {
		js.WriteByte(' ')
	}
	pad := (4 - len(bin)%4) % 4
	n := len(glbHeader{})*4 + len(glbChunk{})*4 + js.Len()
	if len(bin) > 0 {
		n += len(glbChunk{})*4 + len(bin) + pad
	}
	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, glbHeader{magic, 2, uint32(n)})
	binary.Write(&out, binary.LittleEndian, glbChunk{uint32(js.Len()), typeJSON})
	out.Write(js.Bytes())
	if len(bin) > 0 {
		binary.Write(&out, binary.LittleEndian, glbChunk{uint32(len(bin) + pad), typeBIN})
		out.Write(bin)
		out.Write(make([]byte, pad))
	}
	_, err := w.Write(out.Bytes())
	return err
}
