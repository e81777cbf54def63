// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package texture implements a cache of 2D color textures
// keyed by file name.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gviegas/sgraph"
	"github.com/gviegas/sgraph/device"
)

const texPrefix = "texture: "

func newTexErr(reason string) error { return errors.New(texPrefix + reason) }

// White is the name of the built-in neutral texture:
// a single opaque white texel.
// Registering it never touches storage.
const White = "white"

// ErrNotFound means that a texture file does not exist.
var ErrNotFound = newTexErr("file not found")

// Uploader is the interface that wraps NewTexture2D.
// device.Context implements it.
type Uploader interface {
	NewTexture2D(img image.Image) (device.Texture, error)
}

// Cache is a device.TextureManager.
// Each name is loaded and uploaded at most once; later
// registrations return the same texture.
// Failed registrations are not cached.
type Cache struct {
	up   Uploader
	fsys fs.FS
	tex  map[string]device.Texture
}

// NewCache creates a cache that uploads textures
// through up.
// If fsys is nil, names are resolved against the
// operating system's file system.
func NewCache(up Uploader, fsys fs.FS) *Cache {
	return &Cache{
		up:   up,
		fsys: fsys,
		tex:  make(map[string]device.Texture),
	}
}

// RegisterColorTexture2D implements device.TextureManager.
func (c *Cache) RegisterColorTexture2D(name string) (device.Texture, error) {
	if t, ok := c.tex[name]; ok {
		return t, nil
	}
	var img image.Image
	if name == White {
		rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
		rgba.Set(0, 0, color.White)
		img = rgba
	} else {
		if name == "" {
			return nil, newTexErr("empty name")
		}
		var err error
		if img, err = c.load(name); err != nil {
			return nil, err
		}
	}
	t, err := c.up.NewTexture2D(img)
	if err != nil {
		return nil, fmt.Errorf("%supload %q: %w", texPrefix, name, err)
	}
	c.tex[name] = t
	w, h := t.Size()
	sgraph.Logger().Debug("texture registered", "name", name, "width", w, "height", h)
	return t, nil
}

func (c *Cache) load(name string) (image.Image, error) {
	f, err := c.open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("%sopen %q: %w", texPrefix, name, err)
	}
	defer f.Close()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%sdecode %q: %w", texPrefix, name, err)
	}
	return img, nil
}

func (c *Cache) open(name string) (io.ReadCloser, error) {
	if c.fsys == nil {
		return os.Open(name)
	}
	p := strings.TrimPrefix(path.Clean(filepath.ToSlash(name)), "/")
	if !fs.ValidPath(p) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return c.fsys.Open(p)
}

// Lookup returns the texture registered under name,
// if any. It never loads.
func (c *Cache) Lookup(name string) (device.Texture, bool) {
	t, ok := c.tex[name]
	return t, ok
}

// Len returns the number of registered textures.
func (c *Cache) Len() int { return len(c.tex) }

// Release destroys every registered texture and
// empties the cache.
func (c *Cache) Release() {
	for name, t := range c.tex {
		t.Destroy()
		delete(c.tex, name)
	}
}

// Decode decodes an image in any of the supported
// formats: PNG, JPEG, GIF, BMP, TIFF and WebP.
func Decode(r io.Reader) (image.Image, string, error) {
	return image.Decode(r)
}
