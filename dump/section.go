package dump

import (
	"github.com/wasmkit/wasmdump/errors"
	"github.com/wasmkit/wasmdump/wasm"
)

// Shared grammar pieces. Each helper consumes one field and emits its
// annotation at the given depth.

func (d *decoder) valueType(c *Cursor, depth int, prefix string) error {
	tag, sp, err := c.Byte()
	if err != nil {
		return err
	}
	name, ok := wasm.ValTypeName(tag)
	if !ok {
		d.sink.Emit(sp, depth, "%s(valtype:0x%02x)", prefix, tag)
		return errors.UnknownValueType(sp.Start, tag)
	}
	d.sink.Emit(sp, depth, "%s%s", prefix, name)
	return nil
}

// resultType decodes a vector of value types (function params or
// results).
func (d *decoder) resultType(c *Cursor, depth int, name string) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, depth, "%s[%d]", name, count)
	for i := uint32(0); i < count; i++ {
		if err := d.valueType(c, depth+1, ""); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) refType(c *Cursor, depth int) error {
	tag, sp, err := c.Byte()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, depth, "%s", wasm.RefTypeName(tag))
	if tag != wasm.ValFuncRef && tag != wasm.ValExtern {
		return errors.UnknownValueType(sp.Start, tag)
	}
	return nil
}

func (d *decoder) limits(c *Cursor, depth int) error {
	flags, sp, err := c.Byte()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, depth, "limits")
	if flags > wasm.LimitsHasMax {
		e := errors.UnknownValueType(sp.Start, flags)
		e.Detail = "limits flag " + e.Detail
		return e
	}
	minVal, msp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(msp, depth+1, "min = %d", minVal)
	if flags&wasm.LimitsHasMax != 0 {
		maxVal, xsp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(xsp, depth+1, "max = %d", maxVal)
	}
	return nil
}

func (d *decoder) mutability(c *Cursor, depth int, prefix string) error {
	mut, sp, err := c.Byte()
	if err != nil {
		return err
	}
	name, ok := wasm.MutabilityName(mut)
	if !ok {
		d.sink.Emit(sp, depth, "%s(mut:0x%02x)", prefix, mut)
		e := errors.UnknownValueType(sp.Start, mut)
		e.Detail = "mutability " + e.Detail
		return e
	}
	d.sink.Emit(sp, depth, "%s%s", prefix, name)
	return nil
}

// Section decoders. Each receives a cursor windowed to the section
// payload and must account for exactly the declared size; leftovers are
// dumped by the caller, overruns surface as truncation at the window
// boundary.

func (d *decoder) customSection(c *Cursor) error {
	name, sp, err := c.Name()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "name = %q", name)
	n := c.Remaining()
	if n == 0 {
		return nil
	}
	raw, rsp, err := c.Bytes(n)
	if err != nil {
		return err
	}
	d.sink.EmitLines(rsp, 0, asciiRows(raw, d.width))
	return nil
}

func (d *decoder) typeSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "functype count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "typeidx[%d]", i)
		form, fsp, err := c.Byte()
		if err != nil {
			return err
		}
		if form != wasm.FuncTypeByte {
			d.sink.Emit(fsp, 1, "(functype:0x%02x)", form)
			return errors.UnknownValueType(fsp.Start, form)
		}
		d.sink.Emit(fsp, 1, "functype")
		if err := d.resultType(c, 1, "param"); err != nil {
			return err
		}
		if err := d.resultType(c, 1, "result"); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) importSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "import count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "import[%d]", i)
		module, msp, err := c.Name()
		if err != nil {
			return err
		}
		d.sink.Emit(msp, 1, "module = %q", module)
		name, nsp, err := c.Name()
		if err != nil {
			return err
		}
		d.sink.Emit(nsp, 1, "name = %q", name)
		kind, ksp, err := c.Byte()
		if err != nil {
			return err
		}
		kindName, ok := wasm.ImportKindName(kind)
		if !ok {
			d.sink.Emit(ksp, 1, "(kind:0x%02x)", kind)
			e := errors.UnknownValueType(ksp.Start, kind)
			e.Detail = "import kind " + e.Detail
			return e
		}
		d.sink.Emit(ksp, 1, "%s", kindName)
		switch kind {
		case wasm.KindFunc:
			typeIdx, tsp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(tsp, 2, "typeidx = %d", typeIdx)
		case wasm.KindTable:
			if err := d.refType(c, 2); err != nil {
				return err
			}
			if err := d.limits(c, 2); err != nil {
				return err
			}
		case wasm.KindMemory:
			if err := d.limits(c, 2); err != nil {
				return err
			}
		case wasm.KindGlobal:
			if err := d.valueType(c, 2, ""); err != nil {
				return err
			}
			if err := d.mutability(c, 2, ""); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) functionSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "typeidx count = %d", count)
	for i := uint32(0); i < count; i++ {
		typeIdx, tsp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(tsp, 1, "typeidx[%d] = %d", i, typeIdx)
	}
	return nil
}

func (d *decoder) tableSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "table count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "table[%d]", i)
		if err := d.refType(c, 1); err != nil {
			return err
		}
		if err := d.limits(c, 1); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) memorySection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "memtype count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "mem[%d]", i)
		if err := d.limits(c, 1); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) globalSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "global count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "global[%d]", i)
		if err := d.valueType(c, 1, "valtype = "); err != nil {
			return err
		}
		if err := d.mutability(c, 1, "mut = "); err != nil {
			return err
		}
		d.sink.EmitLabel(1, "expr")
		if err := d.expression(c, 2); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) exportSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "export count = %d", count)
	for i := uint32(0); i < count; i++ {
		d.sink.EmitLabel(0, "export[%d]", i)
		name, nsp, err := c.Name()
		if err != nil {
			return err
		}
		d.sink.Emit(nsp, 1, "name = %q", name)
		kind, ksp, err := c.Byte()
		if err != nil {
			return err
		}
		kindName, ok := wasm.ImportKindName(kind)
		if !ok {
			d.sink.Emit(ksp, 1, "(kind:0x%02x)", kind)
			e := errors.UnknownValueType(ksp.Start, kind)
			e.Detail = "export kind " + e.Detail
			return e
		}
		d.sink.Emit(ksp, 1, "%s", kindName)
		idx, isp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(isp, 2, "%sidx = %d", kindName, idx)
	}
	return nil
}

func (d *decoder) startSection(c *Cursor) error {
	funcIdx, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "funcidx = %d", funcIdx)
	return nil
}

func (d *decoder) elementSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "element count = %d", count)
	for i := uint32(0); i < count; i++ {
		mode, msp, err := c.Byte()
		if err != nil {
			return err
		}
		d.sink.Emit(msp, 0, "elem[%d] (mode:%d)", i, mode)
		if mode >= 8 {
			e := errors.UnknownValueType(msp.Start, mode)
			e.Detail = "element mode " + e.Detail
			return e
		}
		if mode == 2 || mode == 6 {
			tableIdx, tsp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(tsp, 1, "tableidx = %d", tableIdx)
		}
		if mode&1 == 0 {
			d.sink.EmitLabel(1, "expr")
			if err := d.expression(c, 2); err != nil {
				return err
			}
		}
		if mode&4 != 0 {
			if mode&3 != 0 {
				if err := d.valueType(c, 1, ""); err != nil {
					return err
				}
			}
			exprs, esp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(esp, 1, "expr count = %d", exprs)
			for j := uint32(0); j < exprs; j++ {
				d.sink.EmitLabel(1, "expr[%d]", j)
				if err := d.expression(c, 2); err != nil {
					return err
				}
			}
		} else {
			if mode&3 != 0 {
				elemKind, ksp, err := c.Byte()
				if err != nil {
					return err
				}
				if elemKind != 0 {
					e := errors.UnknownValueType(ksp.Start, elemKind)
					e.Detail = "elemkind " + e.Detail
					return e
				}
				d.sink.Emit(ksp, 1, "funcref")
			}
			funcs, fsp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(fsp, 1, "funcidx count = %d", funcs)
			for j := uint32(0); j < funcs; j++ {
				funcIdx, vsp, err := c.Uleb128()
				if err != nil {
					return err
				}
				d.sink.Emit(vsp, 1, "funcidx[%d] = %d", j, funcIdx)
			}
		}
	}
	return nil
}

func (d *decoder) codeSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "code count = %d", count)
	for i := uint32(0); i < count; i++ {
		size, ssp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.EmitLabel(0, "code[%d]", i)
		d.sink.Emit(ssp, 1, "code size = %d", size)

		body := c.Window(int(size))
		locals, lsp, err := body.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(lsp, 1, "local size = %d", locals)
		for j := uint32(0); j < locals; j++ {
			d.sink.EmitLabel(1, "local[%d]", j)
			n, nsp, err := body.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(nsp, 2, "type count = %d", n)
			if err := d.valueType(body, 2, "type = "); err != nil {
				return err
			}
		}
		if err := d.expression(body, 1); err != nil {
			return err
		}
		if err := d.sectionRemain(body); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) dataSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "data count = %d", count)
	for i := uint32(0); i < count; i++ {
		mode, msp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(msp, 0, "data[%d] (mode=%d)", i, mode)
		if mode >= 3 {
			e := errors.UnknownValueType(msp.Start, byte(mode))
			e.Detail = "data mode " + e.Detail
			return e
		}
		if mode == 2 {
			memIdx, isp, err := c.Uleb128()
			if err != nil {
				return err
			}
			d.sink.Emit(isp, 1, "memidx = %d", memIdx)
		}
		if mode == 0 || mode == 2 {
			if err := d.expression(c, 1); err != nil {
				return err
			}
		}
		size, bsp, err := c.Uleb128()
		if err != nil {
			return err
		}
		d.sink.Emit(bsp, 1, "init size = %d", size)
		raw, rsp, err := c.Bytes(int(size))
		if err != nil {
			return err
		}
		if len(raw) > 0 {
			d.sink.EmitLines(rsp, 2, asciiRows(raw, d.width))
		}
	}
	return nil
}

func (d *decoder) dataCountSection(c *Cursor) error {
	count, sp, err := c.Uleb128()
	if err != nil {
		return err
	}
	d.sink.Emit(sp, 0, "data count = %d", count)
	return nil
}
