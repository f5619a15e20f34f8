package dump

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/wasmkit/wasmdump/errors"
	"github.com/wasmkit/wasmdump/wasm"
)

// Span is a half-open [Start,End) range of byte offsets in the input
// buffer. Spans produced by one decoding pass are contiguous and
// non-overlapping in emission order.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Cursor owns a view into the input buffer and a current offset. Every
// read advances the offset and reports the exact span consumed. Offsets
// are always absolute file offsets, including in windows derived for
// section and code bodies.
type Cursor struct {
	data    []byte
	off     int
	limit   int
	clamped bool
}

// NewCursor returns a cursor over the whole buffer.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data, limit: len(data)}
}

// Offset returns the current absolute offset.
func (c *Cursor) Offset() int {
	return c.off
}

// Remaining returns the number of unread bytes left in the view.
func (c *Cursor) Remaining() int {
	return c.limit - c.off
}

// Clamped reports whether the view's declared end lay beyond the buffer,
// so running out of bytes here means the file itself is truncated.
func (c *Cursor) Clamped() bool {
	return c.clamped
}

// Window consumes the next n bytes of the parent view and returns a
// sub-cursor over them. If fewer than n bytes remain, the window is
// clamped to the view end and marked, and the parent still advances to
// its own end.
func (c *Cursor) Window(n int) *Cursor {
	end := c.off + n
	clamped := c.clamped
	if end > c.limit {
		end = c.limit
		clamped = true
	}
	w := &Cursor{data: c.data, off: c.off, limit: end, clamped: clamped}
	c.off = end
	return w
}

// Bytes reads exactly n bytes.
func (c *Cursor) Bytes(n int) ([]byte, Span, error) {
	if c.Remaining() < n {
		return nil, Span{}, errors.Truncated(c.limit,
			fmt.Sprintf("need %d bytes, have %d", n, c.Remaining()))
	}
	sp := Span{Start: c.off, End: c.off + n}
	c.off = sp.End
	return c.data[sp.Start:sp.End], sp, nil
}

// Byte reads a single byte.
func (c *Cursor) Byte() (byte, Span, error) {
	b, sp, err := c.Bytes(1)
	if err != nil {
		return 0, Span{}, err
	}
	return b[0], sp, nil
}

// U32LE reads a fixed 4-byte little-endian integer. Used only for the
// header version field.
func (c *Cursor) U32LE() (uint32, Span, error) {
	b, sp, err := c.Bytes(4)
	if err != nil {
		return 0, Span{}, err
	}
	return binary.LittleEndian.Uint32(b), sp, nil
}

// varint reads the raw bytes of one LEB128 varint, enforcing the given
// maximum width. A non-terminating encoding within the budget is a
// malformed varint; running out of bytes first is truncation.
func (c *Cursor) varint(max int) ([]byte, Span, error) {
	rest := c.data[c.off:c.limit]
	n, ok := wasm.VarintLen(rest, max)
	if !ok {
		if len(rest) >= max {
			return nil, Span{}, errors.MalformedVarint(c.off)
		}
		return nil, Span{}, errors.Truncated(c.limit, "varint")
	}
	sp := Span{Start: c.off, End: c.off + n}
	c.off = sp.End
	return rest[:n], sp, nil
}

// Uleb128 reads an unsigned 32-bit LEB128 integer.
func (c *Cursor) Uleb128() (uint32, Span, error) {
	b, sp, err := c.varint(wasm.MaxVarint32)
	if err != nil {
		return 0, Span{}, err
	}
	return uint32(wasm.DecodeLEB128u(b)), sp, nil
}

// Sleb128 reads a signed 32-bit LEB128 integer.
func (c *Cursor) Sleb128() (int64, Span, error) {
	b, sp, err := c.varint(wasm.MaxVarint32)
	if err != nil {
		return 0, Span{}, err
	}
	return wasm.DecodeLEB128s(b), sp, nil
}

// Sleb64 reads a signed 64-bit LEB128 integer.
func (c *Cursor) Sleb64() (int64, Span, error) {
	b, sp, err := c.varint(wasm.MaxVarint64)
	if err != nil {
		return 0, Span{}, err
	}
	return wasm.DecodeLEB128s(b), sp, nil
}

// Name reads a uleb128 length followed by that many UTF-8 bytes. The
// returned span covers both the length prefix and the content, matching
// how the annotation groups a name into one field.
func (c *Cursor) Name() (string, Span, error) {
	length, lsp, err := c.Uleb128()
	if err != nil {
		return "", Span{}, err
	}
	b, bsp, err := c.Bytes(int(length))
	if err != nil {
		return "", Span{}, err
	}
	if !utf8.Valid(b) {
		return "", Span{}, errors.InvalidUTF8(bsp.Start)
	}
	return string(b), Span{Start: lsp.Start, End: bsp.End}, nil
}
