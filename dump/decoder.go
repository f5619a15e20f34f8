package dump

import (
	"go.uber.org/zap"

	"github.com/wasmkit/wasmdump/errors"
	"github.com/wasmkit/wasmdump/wasm"
)

// Options configures one decode pass.
type Options struct {
	// Width is the number of bytes per hex row, used when opaque
	// payloads are chunked into per-row ASCII annotations. Defaults to
	// DefaultWidth.
	Width int
}

// Result carries the annotation lines produced so far and the terminal
// error, if any. Lines are always renderable: a fatal mid-file error
// leaves everything decoded up to the failure point, followed by an
// explicit error line. Header errors (bad magic, unsupported version)
// produce no lines at all.
type Result struct {
	Lines []Line
	Err   error
}

type decoder struct {
	sink  *Sink
	log   *zap.Logger
	width int
}

// Decode walks the module's top-level structure and each known
// section's internal grammar, producing one annotation line per byte
// group consumed.
func Decode(data []byte, opts Options) Result {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	d := &decoder{sink: &Sink{}, log: Logger(), width: width}
	err := d.run(NewCursor(data))
	if err != nil && !errors.Header(err) {
		d.sink.EmitLabel(0, "error: %v", err)
	}
	if errors.Header(err) {
		return Result{Err: err}
	}
	return Result{Lines: d.sink.Lines(), Err: err}
}

func (d *decoder) run(c *Cursor) error {
	magic, msp, err := c.Bytes(4)
	if err != nil {
		return err
	}
	if string(magic) != "\x00asm" {
		return errors.BadMagic(msp.Start, magic)
	}
	version, vsp, err := c.U32LE()
	if err != nil {
		return err
	}
	if version != wasm.Version {
		return errors.UnsupportedVersion(vsp.Start, version)
	}
	d.sink.Emit(msp, 0, `magic = b'\x00asm'`)
	d.sink.Emit(vsp, 0, "version = %d", version)

	for c.Remaining() > 0 {
		d.sink.Rule()

		id, isp, err := c.Byte()
		if err != nil {
			return err
		}
		if wasm.KnownSection(id) {
			d.sink.Emit(isp, 0, "%s Section (id=%d)", wasm.SectionName(id), id)
		} else {
			d.sink.Emit(isp, 0, "Unknown Section (id=%d)", id)
			d.log.Debug("unknown section id", zap.Uint8("id", id))
		}

		size, ssp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(ssp, 0, "section size = %d", size)

		body := c.Window(int(size))
		if err := d.section(id, body); err != nil {
			if errors.IsKind(err, errors.KindTruncated) && !body.Clamped() {
				// The grammar overran the declared size. The parent
				// cursor already sits at the next section boundary, so
				// warn and keep going.
				mismatch := errors.SectionSizeMismatch(body.Offset(), id, size)
				mismatch.Cause = err
				d.sink.EmitLabel(0, "warning: %v", mismatch)
				d.log.Warn("section size mismatch, resynchronizing",
					zap.Uint8("section", id),
					zap.Uint32("declared", size),
					zap.Error(err))
				continue
			}
			return err
		}
		if err := d.sectionRemain(body); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) section(id byte, c *Cursor) error {
	switch id {
	case wasm.SectionCustom:
		return d.customSection(c)
	case wasm.SectionType:
		return d.typeSection(c)
	case wasm.SectionImport:
		return d.importSection(c)
	case wasm.SectionFunction:
		return d.functionSection(c)
	case wasm.SectionTable:
		return d.tableSection(c)
	case wasm.SectionMemory:
		return d.memorySection(c)
	case wasm.SectionGlobal:
		return d.globalSection(c)
	case wasm.SectionExport:
		return d.exportSection(c)
	case wasm.SectionStart:
		return d.startSection(c)
	case wasm.SectionElement:
		return d.elementSection(c)
	case wasm.SectionCode:
		return d.codeSection(c)
	case wasm.SectionData:
		return d.dataSection(c)
	case wasm.SectionDataCount:
		return d.dataCountSection(c)
	default:
		// Opaque: the remainder dump annotates the payload bytes.
		return nil
	}
}

// sectionRemain dumps any bytes the section grammar did not account
// for. Well-formed sections leave nothing behind.
func (d *decoder) sectionRemain(c *Cursor) error {
	n := c.Remaining()
	if n == 0 {
		return nil
	}
	raw, sp, err := c.Bytes(n)
	if err != nil {
		return err
	}
	d.sink.EmitLabel(0, "unknown data: size = %d", n)
	d.sink.EmitLines(sp, 0, asciiRows(raw, d.width))
	return nil
}
