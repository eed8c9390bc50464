package linker

// relocate walks one relocation table and applies each entry, stopping
// at the first unimplemented type (§4.8). reltab/tabLen address the
// image (relocation tables are image-relative); symtab addresses the
// destination buffer, matching the asymmetry recorded in dynTable.
func relocate(h *Handle, buf []byte, base uint32, reltab []byte, tabLen, entSize uint32, symtab []byte, symEnt uint32) bool {
	for off := uint32(0); off < tabLen; off += entSize {
		r := decodeRel32(reltab[off : off+8])

		symOff := relSym(r.info) * symEnt
		sym := decodeSym32(symtab[symOff : symOff+symSize])

		ref := buf[r.offset : r.offset+4]
		cur := order.Uint32(ref)

		switch relType(r.info) {
		case rARMAbs32:
			order.PutUint32(ref, cur+sym.value)
		case rARMJumpSlot:
			order.PutUint32(ref, sym.value)
		case rARMRelative:
			order.PutUint32(ref, cur+base)
		default:
			h.err.fail(errUnimplReloc)
			return false
		}
	}
	return true
}
