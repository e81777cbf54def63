// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package obj

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gviegas/sgraph"
)

// DecodeMtl decodes a material library from r.
// It returns the materials in the order they are defined
// and a map from material name to index.
// A name defined twice maps to its first definition.
func DecodeMtl(r io.Reader) (map[string]int, []Material, error) {
	return decodeMtl(r, "")
}

type mtlDecoder struct {
	file   string
	line   int
	mats   []Material
	matMap map[string]int
}

func decodeMtl(r io.Reader, file string) (map[string]int, []Material, error) {
	dec := &mtlDecoder{file: file, matMap: make(map[string]int)}
	if err := scanLines(r, &dec.line, dec.parseLine); err != nil {
		if perr, ok := err.(*ParseError); ok {
			return nil, nil, perr
		}
		return nil, nil, &ParseError{File: file, Line: dec.line, Msg: "read failed", Err: err}
	}
	return dec.matMap, dec.mats, nil
}

func (dec *mtlDecoder) formatError(msg string, err error) error {
	return &ParseError{File: dec.file, Line: dec.line, Msg: msg, Err: err}
}

func (dec *mtlDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}
	if fields[0] == "newmtl" {
		if len(fields) < 2 {
			return dec.formatError("newmtl with no name", nil)
		}
		name := strings.Join(fields[1:], " ")
		if _, ok := dec.matMap[name]; ok {
			sgraph.Logger().Warn("obj: material redefined", "file", dec.file, "line", dec.line, "name", name)
		} else {
			dec.matMap[name] = len(dec.mats)
		}
		dec.mats = append(dec.mats, newMaterial(name))
		return nil
	}
	if len(dec.mats) == 0 {
		return dec.formatError(fmt.Sprintf("%q before newmtl", fields[0]), nil)
	}
	m := &dec.mats[len(dec.mats)-1]
	switch key := fields[0]; key {
	case "Ka":
		return dec.parseRGB(fields, &m.Ambient)
	case "Kd":
		return dec.parseRGB(fields, &m.Diffuse)
	case "Ks":
		return dec.parseRGB(fields, &m.Specular)
	case "Kt", "Tf":
		return dec.parseRGB(fields, &m.Transmittance)
	case "Ke":
		return dec.parseRGB(fields, &m.Emission)
	case "Ns":
		return dec.parseFloat(fields, &m.Shininess)
	case "Ni":
		return dec.parseFloat(fields, &m.IOR)
	case "d":
		return dec.parseFloat(fields, &m.Dissolve)
	case "Tr":
		var tr float32
		if err := dec.parseFloat(fields, &tr); err != nil {
			return err
		}
		m.Dissolve = 1 - tr
	case "illum":
		if len(fields) < 2 {
			return dec.formatError("illum with no value", nil)
		}
		x, err := strconv.Atoi(fields[1])
		if err != nil {
			return dec.formatError("illum value", err)
		}
		m.Illum = x
	case "map_Ka":
		return dec.parseMap(fields, &m.AmbientTex)
	case "map_Kd":
		return dec.parseMap(fields, &m.DiffuseTex)
	case "map_Ks":
		return dec.parseMap(fields, &m.SpecularTex)
	case "norm", "map_Kn":
		return dec.parseMap(fields, &m.NormalTex)
	case "bump", "map_bump", "map_Bump":
		return dec.parseMap(fields, &m.BumpTex)
	default:
		if m.Unknown == nil {
			m.Unknown = make(map[string]string)
		}
		m.Unknown[key] = strings.Join(fields[1:], " ")
	}
	return nil
}

func (dec *mtlDecoder) parseFloat(fields []string, dst *float32) error {
	if len(fields) < 2 {
		return dec.formatError(fmt.Sprintf("%q with no value", fields[0]), nil)
	}
	x, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return dec.formatError(fmt.Sprintf("%q value", fields[0]), err)
	}
	*dst = float32(x)
	return nil
}

// parseRGB parses a color statement. A single value
// sets all three components.
func (dec *mtlDecoder) parseRGB(fields []string, dst *[3]float32) error {
	if len(fields) != 2 && len(fields) < 4 {
		return dec.formatError(fmt.Sprintf("%q with less than 3 values", fields[0]), nil)
	}
	var c [3]float32
	for i := range c {
		j := min(i+1, len(fields)-1)
		x, err := strconv.ParseFloat(fields[j], 32)
		if err != nil {
			return dec.formatError(fmt.Sprintf("%q value", fields[0]), err)
		}
		c[i] = float32(x)
	}
	*dst = c
	return nil
}

// mapOptions maps texture options to their argument
// counts. A negative count means up to that many numbers.
var mapOptions = map[string]int{
	"-blendu":  1,
	"-blendv":  1,
	"-boost":   1,
	"-mm":      2,
	"-o":       -3,
	"-s":       -3,
	"-t":       -3,
	"-texres":  1,
	"-clamp":   1,
	"-bm":      1,
	"-imfchan": 1,
	"-type":    1,
	"-cc":      1,
}

// parseMap parses a texture statement.
// Options are skipped. The remaining fields, joined by
// single spaces, are the file name.
func (dec *mtlDecoder) parseMap(fields []string, dst *string) error {
	i := 1
	for i < len(fields) {
		n, ok := mapOptions[fields[i]]
		if !ok {
			break
		}
		i++
		if n > 0 {
			i = min(i+n, len(fields))
			continue
		}
		for end := i - n; i < end && i < len(fields); i++ {
			if _, err := strconv.ParseFloat(fields[i], 32); err != nil {
				break
			}
		}
	}
	if i >= len(fields) {
		return dec.formatError(fmt.Sprintf("%q with no file name", fields[0]), nil)
	}
	*dst = strings.Join(fields[i:], " ")
	return nil
}
