package model

import (
	"fmt"
	"image"

	"github.com/Faultbox/gltfview/internal/engine/texture"
	"github.com/Faultbox/gltfview/pkg/gltf"
)

// ImageSource resolves glTF images to cache keys and encoded bytes.
// *gltf.Document implements it.
type ImageSource interface {
	ImageKey(i int) string
	ReadImage(i int) ([]byte, error)
}

// DecodeFunc turns encoded image bytes into RGBA pixels.
type DecodeFunc func(data []byte) (*image.RGBA, error)

// TextureCache deduplicates texture loads by key. It belongs to one model
// and is only touched on the render thread.
type TextureCache struct {
	dev     Device
	decode  DecodeFunc
	keys    []string
	handles []uint32
}

// NewTextureCache creates an empty cache uploading through dev. A nil decode
// uses texture.Decode.
func NewTextureCache(dev Device, decode DecodeFunc) *TextureCache {
	if decode == nil {
		decode = func(data []byte) (*image.RGBA, error) {
			img, _, err := texture.Decode(data)
			return img, err
		}
	}
	return &TextureCache{dev: dev, decode: decode}
}

// Get returns the handle for image i of src, loading, decoding and uploading
// it only on the first request for its key.
func (c *TextureCache) Get(src ImageSource, i int) (uint32, string, error) {
	key := src.ImageKey(i)
	for n, k := range c.keys {
		if k == key {
			return c.handles[n], key, nil
		}
	}

	data, err := src.ReadImage(i)
	if err != nil {
		return 0, key, fmt.Errorf("texture %s: %w", key, err)
	}
	img, err := c.decode(data)
	if err != nil {
		return 0, key, fmt.Errorf("texture %s: %w: %w", key, gltf.ErrLoad, err)
	}
	handle, err := c.dev.UploadTexture(img)
	if err != nil {
		return 0, key, fmt.Errorf("texture %s: upload: %w", key, err)
	}

	c.keys = append(c.keys, key)
	c.handles = append(c.handles, handle)
	return handle, key, nil
}

// Len returns the number of cached textures.
func (c *TextureCache) Len() int { return len(c.keys) }

// Keys returns the cached keys in load order.
func (c *TextureCache) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Release deletes every cached texture and empties the cache.
func (c *TextureCache) Release() {
	for _, h := range c.handles {
		c.dev.ReleaseTexture(h)
	}
	c.keys = nil
	c.handles = nil
}
