package assets

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	glbMagic      = 0x46546C67 // "glTF"
	glbHeaderSize = 12
	chunkJSON     = 0x4E4F534A // "JSON"
	chunkBIN      = 0x004E4942 // "BIN\0"
)

// ErrInvalidGLB is wrapped by all binary glTF validation failures.
var ErrInvalidGLB = errors.New("invalid glb")

// GLB describes a validated binary glTF container.
type GLB struct {
	Version uint32
	Length  uint32
	JSON    []byte
	BIN     []byte
}

// ParseGLB validates the container header and splits out its chunks.
// The JSON and BIN slices alias data.
func ParseGLB(data []byte) (*GLB, error) {
	if len(data) < glbHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidGLB, len(data))
	}
	le := binary.LittleEndian
	if magic := le.Uint32(data[0:4]); magic != glbMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrInvalidGLB, magic)
	}
	g := &GLB{
		Version: le.Uint32(data[4:8]),
		Length:  le.Uint32(data[8:12]),
	}
	if g.Version != 2 {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidGLB, g.Version)
	}
	if int64(g.Length) != int64(len(data)) {
		return nil, fmt.Errorf("%w: declared length %d, have %d", ErrInvalidGLB, g.Length, len(data))
	}

	off := glbHeaderSize
	for off < len(data) {
		if len(data)-off < 8 {
			return nil, fmt.Errorf("%w: truncated chunk header at %d", ErrInvalidGLB, off)
		}
		n := int(le.Uint32(data[off : off+4]))
		typ := le.Uint32(data[off+4 : off+8])
		off += 8
		if n > len(data)-off {
			return nil, fmt.Errorf("%w: chunk at %d overruns file", ErrInvalidGLB, off-8)
		}
		chunk := data[off : off+n]
		switch typ {
		case chunkJSON:
			if g.JSON == nil {
				g.JSON = chunk
			}
		case chunkBIN:
			if g.BIN == nil {
				g.BIN = chunk
			}
		}
		off += n
	}
	if g.JSON == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalidGLB)
	}
	return g, nil
}
