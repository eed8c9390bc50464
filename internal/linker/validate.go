package linker

// validate checks that the image holds a recognizable little-endian
// 32-bit ARM dynamic-object ELF (§4.1). Checks run in priority order;
// the first failure wins and stops further checking.
func validate(h *Handle) {
	ident := h.img.header.ident

	if ident[0] != 0x7F || ident[1] != 'E' || ident[2] != 'L' || ident[3] != 'F' {
		h.err.fail(errMagicID)
		return
	}
	if ident[eiClass] != elfClass32 {
		h.err.fail(errClass)
		return
	}
	if ident[eiData] != elfData2LSB {
		h.err.fail(errEndian)
		return
	}
	if ident[eiVersion] != 1 {
		h.err.fail(errVersion)
		return
	}
	if h.img.header.typ != etDyn {
		h.err.fail(errType)
		return
	}
}
