package linker

// dynTable collects the pointers and sizes pulled out of the dynamic
// section during one Link call. Note the asymmetry required by §4.6:
// strTab and the relocation tables are offsets into the image, while
// symTab, initArray and finiArray are offsets into the destination
// buffer — this follows from how the compiler emits addresses into these
// sections and must be preserved exactly.
type dynTable struct {
	pltRelSz uint32

	hash     uint32 // offset into image
	strTab   uint32 // offset into image
	strSz    uint32
	symTab   uint32 // offset into destination buffer
	symEnt   uint32
	symCount uint32 // from hash table's second word

	relTab uint32 // offset into image
	relSz  uint32
	relEnt uint32

	jmpRelTab uint32 // offset into image

	initArray uint32 // offset into destination buffer
	initCount uint32

	finiArray uint32 // offset into destination buffer
	finiCount uint32
}

// readDynamic locates the single PT_DYNAMIC segment, scans its entries
// until the terminator tag, and returns the projection needed for
// relocation. It fails the handle and returns false on any structural
// problem (§4.6).
func readDynamic(h *Handle) (dynTable, bool) {
	seg, ok := h.img.dynamicSegment()
	if !ok {
		h.err.fail(errDynSection)
		return dynTable{}, false
	}

	var dt dynTable
	entries := h.img.at(seg.offset)

	for off := uint32(0); ; off += dynSize {
		d := decodeDyn32(entries[off : off+dynSize])

		switch d.tag {
		case dtNull:
			goto scanned
		case dtNeeded:
			h.err.fail(errDependency)
			return dynTable{}, false
		case dtPLTRelSz:
			dt.pltRelSz = d.val
		case dtHash:
			dt.hash = d.val
		case dtStrTab:
			dt.strTab = d.val
		case dtSymTab:
			dt.symTab = d.val
		case dtStrSz:
			dt.strSz = d.val
		case dtSymEnt:
			dt.symEnt = d.val
		case dtRel:
			dt.relTab = d.val
		case dtRelSz:
			dt.relSz = d.val
		case dtRelEnt:
			dt.relEnt = d.val
		case dtJmpRel:
			dt.jmpRelTab = d.val
		case dtInitArray:
			dt.initArray = d.val
		case dtInitArraySz:
			dt.initCount = d.val / 4
		case dtFiniArray:
			dt.finiArray = d.val
		case dtFiniArraySz:
			dt.finiCount = d.val / 4
		case dtPLTGot, dtInit, dtFini, dtPLTRel, dtTextRel, dtVendorFlags:
			// Silently ignored.
		default:
			h.err.fail(errDTag)
			return dynTable{}, false
		}
	}

scanned:
	if dt.hash == 0 || dt.strTab == 0 || dt.symTab == 0 || dt.symEnt == 0 || dt.strSz == 0 {
		h.err.fail(errMissingEnts)
		return dynTable{}, false
	}

	hashWords := h.img.at(dt.hash)
	dt.symCount = order.Uint32(hashWords[4:8])

	return dt, true
}
