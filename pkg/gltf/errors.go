package gltf

import "errors"

// Error categories. Every error returned by this package wraps exactly one of
// these, so callers can classify failures with errors.Is.
var (
	// ErrParse reports a manifest that is not valid JSON or does not conform
	// to the expected schema (dangling references, cycles, missing POSITION).
	ErrParse = errors.New("gltf: malformed manifest")

	// ErrDecode reports accessor data that cannot be read: an accessor,
	// bufferView or buffer index out of range, a byte range past the end of
	// its view or buffer, or an unrecognized component or element type.
	ErrDecode = errors.New("gltf: accessor decode failed")

	// ErrLoad reports a referenced binary or image resource that is missing,
	// unreadable or corrupt.
	ErrLoad = errors.New("gltf: resource load failed")

	// ErrUnsupportedFeature reports valid glTF that this loader does not handle.
	ErrUnsupportedFeature = errors.New("gltf: unsupported feature")
)
