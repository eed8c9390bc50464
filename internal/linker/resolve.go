package linker

// resolveSymbols walks the image's symbol table from index 1 (index 0 is
// the reserved null symbol) through dt.symCount, binding undefined
// symbols against the host's symbol map, rebasing locally-defined ones by
// the destination buffer's base address, and publishing global symbols
// back into the map (§4.7). It mutates the symbol table entries in place
// inside buf — the relocator depends on reading the resolved st_value
// back out of the same table.
func resolveSymbols(h *Handle, buf []byte, base uint32, dt dynTable) bool {
	strtab := h.img.at(dt.strTab)

	for i := uint32(1); i < dt.symCount; i++ {
		off := dt.symTab + i*dt.symEnt
		entry := buf[off : off+symSize]
		sym := decodeSym32(entry)

		switch {
		case sym.shndx == shnUndef:
			name := cstring(strtab, sym.name)
			resolved, found := h.symbols.find(hashName(name))
			if !found {
				if symBind(sym.info)&stbWeak == 0 {
					h.err.fail(errUnresolved)
					return false
				}
				resolved = AbsentAddr
			}
			sym.shndx = shnAbs
			sym.value = resolved

		case sym.shndx < shnLoReserve:
			sym.shndx = shnAbs
			sym.value += base

		default:
			if sym.shndx != shnAbs {
				h.err.fail(errUnimplShndx)
				return false
			}
		}

		encodeSym32(entry, sym)

		if symBind(sym.info)&stbGlobal != 0 {
			name := cstring(strtab, sym.name)
			h.symbols.insert(hashName(name), sym.value)
		}
	}

	return true
}
