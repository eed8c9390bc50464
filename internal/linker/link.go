package linker

import armlog "github.com/mbrt/armld/internal/log"

// Link performs §4.5–§4.9 against the given buffer: copy segments,
// read the dynamic table, resolve symbols, apply the REL and JMPREL
// relocation tables, then run the init array. Calling Link twice on the
// same handle is undefined, per §5 — this implementation does not guard
// against it.
func (h *Handle) Link(buf Buffer) {
	h.buf = buf.Bytes
	h.linked = true

	loadSegments(h.img, buf.Bytes)

	dt, ok := readDynamic(h)
	if !ok {
		return
	}

	h.finiOff = dt.finiArray
	h.finiCount = dt.finiCount

	if !resolveSymbols(h, buf.Bytes, buf.Base, dt) {
		return
	}

	if dt.relTab != 0 {
		if dt.relSz == 0 || dt.relEnt == 0 {
			h.err.fail(errZeroSizedRel)
			return
		}
		reltab := h.img.at(dt.relTab)
		symtab := buf.Bytes[dt.symTab:]
		if !relocate(h, buf.Bytes, buf.Base, reltab, dt.relSz, dt.relEnt, symtab, dt.symEnt) {
			return
		}
	}

	if dt.jmpRelTab != 0 {
		jmprel := h.img.at(dt.jmpRelTab)
		symtab := buf.Bytes[dt.symTab:]
		if !relocate(h, buf.Bytes, buf.Base, jmprel, dt.pltRelSz, relSize, symtab, dt.symEnt) {
			return
		}
	}

	if h.log != nil {
		h.log.Debug("linked",
			armlog.Field("handle", h.id.String()),
			armlog.Addr(uint64(buf.Base)),
			armlog.Size(uint64(h.Size())),
		)
	}

	runInitArray(h, buf.Bytes, dt.initArray, dt.initCount)
}
