package linker

// Helpers for hand-assembling minimal ELF32 ARM ET_DYN images in tests.
// There is no ARM toolchain available here, so every image used by this
// package's tests is built byte-by-byte against the layouts in elf32.go
// rather than compiled from source, the way the original C project's
// elfobject.c sample was.

type symSpec struct {
	name  string
	value uint32
	shndx uint16
	bind  uint8
}

// relSpec describes one relocation. The builder allocates its own scratch
// cell for the target (REL relocations carry their addend in place, not
// in the entry itself) and seeds it with addend; the resolved offset of
// that cell is reported back in builtImage so the test can read the
// result out of the linked buffer.
type relSpec struct {
	symIdx uint32
	typ    uint32
	addend uint32
}

type imageSpec struct {
	syms     []symSpec
	rel      []relSpec
	jmprel   []relSpec
	initFns  []uint32
	finiFns  []uint32
	needed   bool
	extraBSS uint32
	typeOverride *uint16
	identOverride func([]byte)
	// zeroSizedRel emits a DT_REL tag with no matching DT_RELSZ/DT_RELENT,
	// for exercising that specific malformed-dynamic-table rejection.
	zeroSizedRel bool
}

// builtImage is the byte image plus the offsets a test needs to assert
// against (e.g. the relative-relocation target cell).
type builtImage struct {
	bytes []byte
	// offsets, in the degenerate vaddr==file-offset layout this builder
	// always uses, of each relocation's reference cell.
	relOffsets    []uint32
	jmprelOffsets []uint32
}

func put32(b []byte, off uint32, v uint32) {
	order.PutUint32(b[off:off+4], v)
}

func buildImage(spec imageSpec) builtImage {
	var buf []byte

	appendBytes := func(b []byte) uint32 {
		off := uint32(len(buf))
		buf = append(buf, b...)
		return off
	}
	pad := func(n int) {
		buf = append(buf, make([]byte, n)...)
	}

	// --- ehdr ---
	ehdr := make([]byte, ehdrSize)
	ehdr[0], ehdr[1], ehdr[2], ehdr[3] = 0x7F, 'E', 'L', 'F'
	ehdr[eiClass] = elfClass32
	ehdr[eiData] = elfData2LSB
	ehdr[eiVersion] = 1
	typ := uint16(etDyn)
	if spec.typeOverride != nil {
		typ = *spec.typeOverride
	}
	order.PutUint16(ehdr[16:], typ)
	order.PutUint16(ehdr[40:], ehdrSize)
	order.PutUint16(ehdr[42:], phdrSize)
	order.PutUint16(ehdr[44:], 2) // phnum: PT_LOAD, PT_DYNAMIC
	order.PutUint32(ehdr[28:], ehdrSize)
	if spec.identOverride != nil {
		spec.identOverride(ehdr)
	}
	appendBytes(ehdr)

	phdrOff := appendBytes(make([]byte, 2*phdrSize))
	_ = phdrOff

	// --- dynamic entries (placeholder, patched once we know offsets) ---
	dynOff := uint32(len(buf))

	// number of dyn entries we will emit, for sizing the placeholder
	nDyn := 5 // hash, strtab, symtab, strsz, syment
	if spec.needed {
		nDyn++
	}
	if len(spec.rel) > 0 {
		nDyn += 3 // rel, relsz, relent
	}
	if spec.zeroSizedRel {
		nDyn++ // rel only, no relsz/relent
	}
	if len(spec.jmprel) > 0 {
		nDyn += 2 // jmprel, pltrelsz
	}
	if len(spec.initFns) > 0 {
		nDyn += 2
	}
	if len(spec.finiFns) > 0 {
		nDyn += 2
	}
	nDyn++ // DT_NULL
	pad(nDyn * dynSize)

	hashOff := appendBytes(make([]byte, 8))

	// --- string table ---
	strBuf := []byte{0}
	nameOff := make([]uint32, len(spec.syms))
	for i, s := range spec.syms {
		nameOff[i] = uint32(len(strBuf))
		strBuf = append(strBuf, []byte(s.name)...)
		strBuf = append(strBuf, 0)
	}
	strTabOff := appendBytes(strBuf)
	strSz := uint32(len(strBuf))

	// --- symbol table (index 0 is the reserved null symbol) ---
	symCount := uint32(len(spec.syms) + 1)
	symTabOff := appendBytes(make([]byte, symCount*symSize))
	for i, s := range spec.syms {
		entOff := symTabOff + uint32(i+1)*symSize
		sym := sym32{
			name:  nameOff[i],
			value: s.value,
			shndx: s.shndx,
			info:  s.bind << 4,
		}
		encodeSym32(buf[entOff:entOff+symSize], sym)
	}

	bi := builtImage{}

	// Scratch cells for relocation targets, seeded with each entry's addend.
	scratchOff := make([]uint32, 0, len(spec.rel)+len(spec.jmprel))
	for _, r := range spec.rel {
		off := appendBytes(make([]byte, 4))
		put32(buf, off, r.addend)
		scratchOff = append(scratchOff, off)
	}
	for _, r := range spec.jmprel {
		off := appendBytes(make([]byte, 4))
		put32(buf, off, r.addend)
		scratchOff = append(scratchOff, off)
	}

	var relTabOff uint32
	if len(spec.rel) > 0 {
		relTabOff = uint32(len(buf))
		for i, r := range spec.rel {
			target := scratchOff[i]
			entOff := appendBytes(make([]byte, relSize))
			put32(buf, entOff, target)
			put32(buf, entOff+4, (r.symIdx<<8)|r.typ)
			bi.relOffsets = append(bi.relOffsets, target)
		}
	}

	var jmprelTabOff uint32
	if len(spec.jmprel) > 0 {
		jmprelTabOff = uint32(len(buf))
		for i, r := range spec.jmprel {
			target := scratchOff[len(spec.rel)+i]
			entOff := appendBytes(make([]byte, relSize))
			put32(buf, entOff, target)
			put32(buf, entOff+4, (r.symIdx<<8)|r.typ)
			bi.jmprelOffsets = append(bi.jmprelOffsets, target)
		}
	}

	var initArrayOff uint32
	if len(spec.initFns) > 0 {
		initArrayOff = appendBytes(make([]byte, len(spec.initFns)*4))
		for i, fn := range spec.initFns {
			put32(buf, initArrayOff+uint32(i)*4, fn)
		}
	}

	var finiArrayOff uint32
	if len(spec.finiFns) > 0 {
		finiArrayOff = appendBytes(make([]byte, len(spec.finiFns)*4))
		for i, fn := range spec.finiFns {
			put32(buf, finiArrayOff+uint32(i)*4, fn)
		}
	}

	fileLen := uint32(len(buf))

	// --- patch phdrs: PT_LOAD spans the whole blob, PT_DYNAMIC points at dynOff ---
	loadPhdr := phdr32{
		typ:    ptLoad,
		offset: 0,
		vaddr:  0,
		filesz: fileLen,
		memsz:  fileLen + spec.extraBSS,
		align:  1,
	}
	writePhdr(buf, phdrOff, loadPhdr)

	dynPhdr := phdr32{
		typ:    ptDynamic,
		offset: dynOff,
		vaddr:  dynOff,
		filesz: uint32(nDyn) * dynSize,
		memsz:  uint32(nDyn) * dynSize,
		align:  1,
	}
	writePhdr(buf, phdrOff+phdrSize, dynPhdr)

	// --- patch dynamic entries now that every offset is known ---
	var dyns []dyn32
	if spec.needed {
		dyns = append(dyns, dyn32{tag: dtNeeded, val: 1})
	}
	dyns = append(dyns,
		dyn32{tag: dtHash, val: hashOff},
		dyn32{tag: dtStrTab, val: strTabOff},
		dyn32{tag: dtSymTab, val: symTabOff},
		dyn32{tag: dtStrSz, val: strSz},
		dyn32{tag: dtSymEnt, val: symSize},
	)
	if len(spec.rel) > 0 {
		dyns = append(dyns,
			dyn32{tag: dtRel, val: relTabOff},
			dyn32{tag: dtRelSz, val: uint32(len(spec.rel)) * relSize},
			dyn32{tag: dtRelEnt, val: relSize},
		)
	}
	if spec.zeroSizedRel {
		dyns = append(dyns, dyn32{tag: dtRel, val: hashOff})
	}
	if len(spec.jmprel) > 0 {
		dyns = append(dyns,
			dyn32{tag: dtJmpRel, val: jmprelTabOff},
			dyn32{tag: dtPLTRelSz, val: uint32(len(spec.jmprel)) * relSize},
		)
	}
	if len(spec.initFns) > 0 {
		dyns = append(dyns,
			dyn32{tag: dtInitArray, val: initArrayOff},
			dyn32{tag: dtInitArraySz, val: uint32(len(spec.initFns)) * 4},
		)
	}
	if len(spec.finiFns) > 0 {
		dyns = append(dyns,
			dyn32{tag: dtFiniArray, val: finiArrayOff},
			dyn32{tag: dtFiniArraySz, val: uint32(len(spec.finiFns)) * 4},
		)
	}
	dyns = append(dyns, dyn32{tag: dtNull})

	for i, d := range dyns {
		off := dynOff + uint32(i)*dynSize
		order.PutUint32(buf[off:off+4], uint32(d.tag))
		order.PutUint32(buf[off+4:off+8], d.val)
	}

	// --- patch hash table: word[1] is the symbol count ---
	put32(buf, hashOff, 1)
	put32(buf, hashOff+4, symCount)

	bi.bytes = buf
	return bi
}

func writePhdr(buf []byte, off uint32, p phdr32) {
	order.PutUint32(buf[off+0:], p.typ)
	order.PutUint32(buf[off+4:], p.offset)
	order.PutUint32(buf[off+8:], p.vaddr)
	order.PutUint32(buf[off+12:], p.paddr)
	order.PutUint32(buf[off+16:], p.filesz)
	order.PutUint32(buf[off+20:], p.memsz)
	order.PutUint32(buf[off+24:], p.flags)
	order.PutUint32(buf[off+28:], p.align)
}
