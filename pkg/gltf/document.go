// Package gltf loads glTF 2.0 assets on top of github.com/qmuntal/gltf,
// checks the scene graph the viewer relies on and decodes typed accessor
// data from the loaded buffers.
package gltf

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	qgltf "github.com/qmuntal/gltf"
)

// glbHeaderSize covers the file header and the JSON chunk header.
const glbHeaderSize = 20

// Document is a decoded asset with every buffer resolved in memory. Image
// data is read on demand through ReadImage.
type Document struct {
	*qgltf.Document
	// Dir is the directory relative URIs resolve against.
	Dir string
}

// Open reads a .gltf or .glb file, loads the buffers it references and
// validates the node graph.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()
	return Decode(f, filepath.Dir(path))
}

// Decode reads a glTF JSON or GLB stream from r. External buffers are read
// relative to dir.
func Decode(r io.Reader, dir string) (*Document, error) {
	if dir == "" {
		dir = "."
	}
	br := bufio.NewReader(r)
	magic, _ := br.Peek(4)
	glb := string(magic) == "glTF"
	if glb {
		if head, _ := br.Peek(glbHeaderSize); len(head) < glbHeaderSize {
			return nil, fmt.Errorf("%w: glb header truncated (%d bytes)", ErrLoad, len(head))
		}
	}

	doc := new(qgltf.Document)
	if err := qgltf.NewDecoderFS(br, os.DirFS(dir)).Decode(doc); err != nil {
		return nil, decodeError(err, glb)
	}

	d := &Document{Document: doc, Dir: dir}
	for i, b := range doc.Buffers {
		if b != nil && len(b.Data) < int(b.ByteLength) {
			return nil, fmt.Errorf("buffer %d: %w: %d bytes, manifest declares %d", i, ErrLoad, len(b.Data), b.ByteLength)
		}
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// decodeError sorts a decoder failure into ErrLoad or ErrParse. Missing
// files, bad base64 payloads and broken GLB containers are load errors;
// whatever the JSON decoder rejects is a parse error.
func decodeError(err error, glb bool) error {
	var (
		pathErr *fs.PathError
		corrupt base64.CorruptInputError
		syntax  *json.SyntaxError
		typeErr *json.UnmarshalTypeError
	)
	msg := err.Error()
	switch {
	case errors.As(err, &pathErr), errors.As(err, &corrupt),
		strings.HasPrefix(msg, "gltf: Invalid"), strings.HasPrefix(msg, "gltf: buffer"):
		return fmt.Errorf("%w: %w", ErrLoad, err)
	case errors.As(err, &syntax), errors.As(err, &typeErr),
		strings.HasPrefix(msg, "gltf: unknown"), !glb:
		return fmt.Errorf("%w: %w", ErrParse, err)
	default:
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
}

// BufferViewBytes returns the byte range covered by bufferView i.
func (d *Document) BufferViewBytes(i int) ([]byte, error) {
	bvs := d.BufferViews
	if i < 0 || i >= len(bvs) {
		return nil, fmt.Errorf("%w: bufferView %d out of range (%d views)", ErrDecode, i, len(bvs))
	}
	bv := bvs[i]
	if int(bv.Buffer) >= len(d.Buffers) {
		return nil, fmt.Errorf("%w: bufferView %d: buffer %d out of range (%d buffers)", ErrDecode, i, bv.Buffer, len(d.Buffers))
	}
	buf := d.Buffers[bv.Buffer].Data
	start, end := int(bv.ByteOffset), int(bv.ByteOffset)+int(bv.ByteLength)
	if end > len(buf) {
		return nil, fmt.Errorf("%w: bufferView %d [%d:+%d] exceeds buffer %d (%d bytes)",
			ErrDecode, i, bv.ByteOffset, bv.ByteLength, bv.Buffer, len(buf))
	}
	return buf[start:end], nil
}

// ImageKey returns the cache key for image i: its URI for external files,
// otherwise a synthetic "image#<n>" key.
func (d *Document) ImageKey(i int) string {
	if i >= 0 && i < len(d.Images) {
		img := d.Images[i]
		if img.BufferView == nil && img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
			return img.URI
		}
	}
	return "image#" + strconv.Itoa(i)
}

// ReadImage returns the encoded bytes of image i.
func (d *Document) ReadImage(i int) ([]byte, error) {
	if i < 0 || i >= len(d.Images) {
		return nil, fmt.Errorf("%w: image %d out of range (%d images)", ErrLoad, i, len(d.Images))
	}
	img := d.Images[i]
	switch {
	case img.BufferView != nil:
		data, err := d.BufferViewBytes(int(*img.BufferView))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		return bytes.Clone(data), nil
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil, fmt.Errorf("image %d: %w: %w", i, ErrLoad, err)
		}
		return data, nil
	case strings.HasPrefix(img.URI, "data:"):
		return nil, fmt.Errorf("image %d: %w: data uri is not png or jpeg", i, ErrUnsupportedFeature)
	default:
		data, err := os.ReadFile(filepath.Join(d.Dir, filepath.FromSlash(img.URI)))
		if err != nil {
			return nil, fmt.Errorf("image %d: %w: %w", i, ErrLoad, err)
		}
		return data, nil
	}
}
