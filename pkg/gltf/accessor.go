package gltf

import (
	"encoding/binary"
	"fmt"
	"math"

	qgltf "github.com/qmuntal/gltf"
)

// MaxElements bounds the element count of an accessor without a bufferView,
// which decodes to zeros and has no bytes to check the count against.
const MaxElements = 1 << 24

// accessorView is the resolved byte layout of one accessor.
type accessorView struct {
	acc    *qgltf.Accessor
	count  int
	data   []byte // bufferView bytes; nil for an accessor without a bufferView
	offset int
	stride int
	comps  int
}

// view resolves accessor i against its bufferView and buffer and checks that
// every element it addresses lies inside the view.
func (d *Document) view(i int) (accessorView, error) {
	accs := d.Accessors
	if i < 0 || i >= len(accs) {
		return accessorView{}, fmt.Errorf("%w: accessor %d out of range (%d accessors)", ErrDecode, i, len(accs))
	}
	acc := accs[i]

	if acc.Sparse != nil {
		return accessorView{}, fmt.Errorf("%w: accessor %d is sparse", ErrUnsupportedFeature, i)
	}
	size := int(acc.ComponentType.ByteSize())
	if size == 0 {
		return accessorView{}, fmt.Errorf("%w: accessor %d: unrecognized componentType %d", ErrDecode, i, int(acc.ComponentType))
	}
	comps := int(acc.Type.Components())
	if comps == 0 {
		return accessorView{}, fmt.Errorf("%w: accessor %d: unrecognized type %d", ErrDecode, i, int(acc.Type))
	}

	elem := size * comps
	v := accessorView{acc: acc, count: int(acc.Count), offset: int(acc.ByteOffset), stride: elem, comps: comps}
	if acc.BufferView == nil {
		if v.count > MaxElements {
			return accessorView{}, fmt.Errorf("%w: accessor %d: count %d without bufferView exceeds %d",
				ErrDecode, i, acc.Count, MaxElements)
		}
		return v, nil
	}

	data, err := d.BufferViewBytes(int(*acc.BufferView))
	if err != nil {
		return accessorView{}, fmt.Errorf("accessor %d: %w", i, err)
	}
	if s := int(d.BufferViews[*acc.BufferView].ByteStride); s != 0 {
		if s < elem {
			return accessorView{}, fmt.Errorf("%w: accessor %d: byteStride %d smaller than element size %d", ErrDecode, i, s, elem)
		}
		v.stride = s
	}
	if v.count > 0 {
		room := len(data) - v.offset - elem
		if room < 0 || v.count-1 > room/v.stride {
			return accessorView{}, fmt.Errorf("%w: accessor %d: %d elements of %d bytes at offset %d, stride %d overrun bufferView %d (%d bytes)",
				ErrDecode, i, v.count, elem, v.offset, v.stride, *acc.BufferView, len(data))
		}
	}
	v.data = data
	return v, nil
}

// ReadFloats decodes accessor i into count*components floats in element
// order. Integer components are converted to float, and scaled to [0,1] or
// [-1,1] when the accessor is normalized. An accessor without a bufferView
// decodes to zeros.
func (d *Document) ReadFloats(i int) ([]float32, error) {
	v, err := d.view(i)
	if err != nil {
		return nil, err
	}

	out := make([]float32, v.count*v.comps)
	if v.data == nil {
		return out, nil
	}
	ct := v.acc.ComponentType
	size := int(ct.ByteSize())
	for e := 0; e < v.count; e++ {
		base := v.offset + e*v.stride
		for c := 0; c < v.comps; c++ {
			out[e*v.comps+c] = readFloat(ct, v.data[base+c*size:], v.acc.Normalized)
		}
	}
	return out, nil
}

// ReadIndices decodes index accessor i. Only unsigned SCALAR component types
// are valid for indices.
func (d *Document) ReadIndices(i int) ([]uint32, error) {
	v, err := d.view(i)
	if err != nil {
		return nil, err
	}
	ct := v.acc.ComponentType
	switch ct {
	case qgltf.ComponentUbyte, qgltf.ComponentUshort, qgltf.ComponentUint:
	default:
		return nil, fmt.Errorf("%w: accessor %d: %s indices", ErrUnsupportedFeature, i, ct)
	}
	if v.comps != 1 {
		return nil, fmt.Errorf("%w: accessor %d: %s indices", ErrUnsupportedFeature, i, v.acc.Type)
	}

	out := make([]uint32, v.count)
	if v.data == nil {
		return out, nil
	}
	for e := range out {
		p := v.data[v.offset+e*v.stride:]
		switch ct {
		case qgltf.ComponentUbyte:
			out[e] = uint32(p[0])
		case qgltf.ComponentUshort:
			out[e] = uint32(binary.LittleEndian.Uint16(p))
		default:
			out[e] = binary.LittleEndian.Uint32(p)
		}
	}
	return out, nil
}

func readFloat(ct qgltf.ComponentType, p []byte, normalized bool) float32 {
	switch ct {
	case qgltf.ComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(p))
	case qgltf.ComponentByte:
		v := float32(int8(p[0]))
		if normalized {
			return max(v/127, -1)
		}
		return v
	case qgltf.ComponentUbyte:
		v := float32(p[0])
		if normalized {
			return v / 255
		}
		return v
	case qgltf.ComponentShort:
		v := float32(int16(binary.LittleEndian.Uint16(p)))
		if normalized {
			return max(v/32767, -1)
		}
		return v
	case qgltf.ComponentUshort:
		v := float32(binary.LittleEndian.Uint16(p))
		if normalized {
			return v / 65535
		}
		return v
	default:
		return float32(binary.LittleEndian.Uint32(p))
	}
}
