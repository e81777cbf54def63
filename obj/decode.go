// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gviegas/sgraph"
)

type vertexKey struct{ v, vt, vn int }

// shape under construction.
type builder struct {
	name  string
	cache map[vertexKey]uint32
	mesh  MeshData
	hasVT bool
	hasVN bool
}

func newBuilder(name string) *builder {
	return &builder{name: name, cache: make(map[vertexKey]uint32)}
}

type decoder struct {
	file   string
	mr     MaterialReader
	line   int
	v      []float32
	vt     []float32
	vn     []float32
	shapes []Shape
	mats   []Material
	matMap map[string]int
	matID  int
	cur    *builder
}

func decode(r io.Reader, file string, mr MaterialReader) ([]Shape, []Material, error) {
	dec := &decoder{
		file:   file,
		mr:     mr,
		matMap: make(map[string]int),
		matID:  -1,
		cur:    newBuilder(""),
	}
	if err := scanLines(r, &dec.line, dec.parseLine); err != nil {
		return nil, nil, dec.wrap(err)
	}
	dec.flush()
	return dec.shapes, dec.mats, nil
}

func (dec *decoder) wrap(err error) error {
	var perr *ParseError
	if errors.As(err, &perr) {
		if perr.File == "" {
			perr.File = dec.file
		}
		return perr
	}
	return &ParseError{File: dec.file, Line: dec.line, Msg: "read failed", Err: err}
}

// scanLines calls parse for each line of r, keeping
// *line up to date.
// Lines ending in a backslash are joined with the next.
func scanLines(r io.Reader, line *int, parse func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var cont strings.Builder
	for sc.Scan() {
		*line++
		s := sc.Text()
		if strings.HasSuffix(s, "\\") {
			cont.WriteString(strings.TrimSuffix(s, "\\"))
			cont.WriteByte(' ')
			continue
		}
		if cont.Len() > 0 {
			cont.WriteString(s)
			s = cont.String()
			cont.Reset()
		}
		if err := parse(s); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if cont.Len() > 0 {
		return parse(cont.String())
	}
	return nil
}

func (dec *decoder) formatError(msg string, err error) error {
	return &ParseError{File: dec.file, Line: dec.line, Msg: msg, Err: err}
}

func (dec *decoder) warn(msg string, args ...any) {
	args = append([]any{"file", dec.file, "line", dec.line}, args...)
	sgraph.Logger().Warn("obj: "+msg, args...)
}

func (dec *decoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	switch fields[0] {
	case "v":
		return dec.parseFloats(fields, 3, 3, &dec.v)
	case "vn":
		return dec.parseFloats(fields, 3, 3, &dec.vn)
	case "vt":
		return dec.parseFloats(fields, 1, 2, &dec.vt)
	case "f":
		return dec.parseFace(fields[1:])
	case "o", "g":
		dec.flush()
		dec.cur = newBuilder(strings.Join(fields[1:], " "))
	case "usemtl":
		return dec.parseUsemtl(fields[1:])
	case "mtllib":
		return dec.parseMtllib(fields[1:])
	case "s", "l", "p", "vp", "cstype", "curv", "surf":
		sgraph.Logger().Debug("obj: statement ignored", "file", dec.file, "line", dec.line, "type", fields[0])
	default:
		dec.warn("unknown statement", "type", fields[0])
	}
	return nil
}

// parseFloats parses the fields that follow a statement
// of the form "type x y z [...]".
// At least least values are required; values past
// n are discarded and missing ones are zero.
func (dec *decoder) parseFloats(fields []string, least, n int, dst *[]float32) error {
	if len(fields)-1 < least {
		return dec.formatError(fmt.Sprintf("%q with less than %d values", fields[0], least), nil)
	}
	for i := 1; i <= n; i++ {
		var x float64
		if i < len(fields) {
			var err error
			if x, err = strconv.ParseFloat(fields[i], 32); err != nil {
				return dec.formatError(fmt.Sprintf("%q value", fields[0]), err)
			}
		}
		*dst = append(*dst, float32(x))
	}
	return nil
}

// index resolves a 1-based or negative (relative)
// index into a list of n elements.
func (dec *decoder) index(s, what string, n int) (int, error) {
	x, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError("face "+what+" index", err)
	}
	switch {
	case x > 0:
		x--
	case x < 0:
		x += n
	default:
		return 0, dec.formatError("face "+what+" index equal to 0", nil)
	}
	if x < 0 || x >= n {
		return 0, dec.formatError(fmt.Sprintf("face %s index out of range (%s of %d)", what, s, n), nil)
	}
	return x, nil
}

// parseFace parses a face statement:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *decoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return dec.formatError("face with less than 3 vertices", nil)
	}
	b := dec.cur
	idx := make([]uint32, len(fields))
	for i, f := range fields {
		parts := strings.Split(f, "/")
		if len(parts) > 3 {
			return dec.formatError(fmt.Sprintf("face vertex %q", f), nil)
		}
		key := vertexKey{-1, -1, -1}
		var err error
		if key.v, err = dec.index(parts[0], "position", len(dec.v)/3); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if key.vt, err = dec.index(parts[1], "texcoord", len(dec.vt)/2); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if key.vn, err = dec.index(parts[2], "normal", len(dec.vn)/3); err != nil {
				return err
			}
		}
		idx[i] = b.vertex(key, dec)
	}
	for i := 1; i+1 < len(idx); i++ {
		b.mesh.Indices = append(b.mesh.Indices, idx[0], idx[i], idx[i+1])
		b.mesh.MaterialIDs = append(b.mesh.MaterialIDs, dec.matID)
	}
	return nil
}

// vertex returns the index of the vertex identified by
// key, creating it if needed.
func (b *builder) vertex(key vertexKey, dec *decoder) uint32 {
	if x, ok := b.cache[key]; ok {
		return x
	}
	x := uint32(len(b.mesh.Positions) / 3)
	b.cache[key] = x
	m := &b.mesh
	m.Positions = append(m.Positions, dec.v[key.v*3:key.v*3+3]...)
	if key.vt >= 0 {
		b.hasVT = true
		m.TexCoords = append(m.TexCoords, dec.vt[key.vt*2:key.vt*2+2]...)
	} else {
		m.TexCoords = append(m.TexCoords, 0, 0)
	}
	if key.vn >= 0 {
		b.hasVN = true
		m.Normals = append(m.Normals, dec.vn[key.vn*3:key.vn*3+3]...)
	} else {
		m.Normals = append(m.Normals, 0, 0, 0)
	}
	return x
}

// flush appends the current shape to the output, unless
// it has no faces.
func (dec *decoder) flush() {
	b := dec.cur
	if b == nil || len(b.mesh.Indices) == 0 {
		return
	}
	if !b.hasVT {
		b.mesh.TexCoords = nil
	}
	if !b.hasVN {
		b.mesh.Normals = nil
	}
	dec.shapes = append(dec.shapes, Shape{Name: b.name, Mesh: b.mesh})
	dec.cur = newBuilder("")
}

func (dec *decoder) parseUsemtl(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("usemtl with no name", nil)
	}
	name := strings.Join(fields, " ")
	id, ok := dec.matMap[name]
	if !ok {
		dec.warn("material not defined", "name", name)
		id = -1
	}
	dec.matID = id
	return nil
}

func (dec *decoder) parseMtllib(fields []string) error {
	if len(fields) < 1 {
		return dec.formatError("mtllib with no file name", nil)
	}
	if dec.mr == nil {
		dec.warn("no material reader, mtllib ignored", "names", fields)
		return nil
	}
	for _, name := range fields {
		rc, err := dec.mr.OpenMaterial(name)
		if err != nil {
			return dec.formatError("mtllib "+name, err)
		}
		matMap, mats, err := decodeMtl(rc, name)
		rc.Close()
		if err != nil {
			return err
		}
		// Earlier definitions win.
		off := len(dec.mats)
		dec.mats = append(dec.mats, mats...)
		for k, v := range matMap {
			if _, ok := dec.matMap[k]; !ok {
				dec.matMap[k] = v + off
			}
		}
	}
	return nil
}
