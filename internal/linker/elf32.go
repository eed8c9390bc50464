package linker

import "encoding/binary"

// ELF32 constants and on-disk layouts this linker understands. Only the
// fields and tags the spec names are decoded; anything else is either
// ignored (§4.6) or fatal.
const (
	eiClass   = 4
	eiData    = 5
	eiVersion = 6
	eiNident  = 16

	elfClass32  = 1
	elfData2LSB = 1
	etDyn       = 3

	ptLoad    = 1
	ptDynamic = 2

	dtNull        = 0
	dtNeeded      = 1
	dtPLTRelSz    = 2
	dtPLTGot      = 3
	dtHash        = 4
	dtStrTab      = 5
	dtSymTab      = 6
	dtRel         = 17
	dtRelSz       = 18
	dtRelEnt      = 19
	dtStrSz       = 10
	dtSymEnt      = 11
	dtInit        = 12
	dtFini        = 13
	dtPLTRel      = 20
	dtTextRel     = 22
	dtJmpRel      = 23
	dtInitArray   = 0x19
	dtInitArraySz = 0x1b
	dtFiniArray   = 0x1a
	dtFiniArraySz = 0x1c
	dtVendorFlags = 0x6FFFFFFA

	shnUndef     = 0
	shnLoReserve = 0xff00
	shnAbs       = 0xfff1

	stbGlobal = 1
	stbWeak   = 2

	rARMAbs32    = 2
	rARMJumpSlot = 22
	rARMRelative = 23

	ehdrSize = 52
	phdrSize = 32
	dynSize  = 8
	symSize  = 16
	relSize  = 8
)

var order = binary.LittleEndian

// ehdr32 is the fixed-size prefix of an Elf32_Ehdr this linker reads.
type ehdr32 struct {
	ident   [eiNident]byte
	typ     uint16
	machine uint16
	version uint32
	entry   uint32
	phoff   uint32
	shoff   uint32
	flags   uint32
	ehsize  uint16
	phentsz uint16
	phnum   uint16
	shentsz uint16
	shnum   uint16
	shstrnd uint16
}

func decodeEhdr32(b []byte) (ehdr32, bool) {
	var h ehdr32
	if len(b) < ehdrSize {
		return h, false
	}
	copy(h.ident[:], b[0:eiNident])
	h.typ = order.Uint16(b[16:])
	h.machine = order.Uint16(b[18:])
	h.version = order.Uint32(b[20:])
	h.entry = order.Uint32(b[24:])
	h.phoff = order.Uint32(b[28:])
	h.shoff = order.Uint32(b[32:])
	h.flags = order.Uint32(b[36:])
	h.ehsize = order.Uint16(b[40:])
	h.phentsz = order.Uint16(b[42:])
	h.phnum = order.Uint16(b[44:])
	h.shentsz = order.Uint16(b[46:])
	h.shnum = order.Uint16(b[48:])
	h.shstrnd = order.Uint16(b[50:])
	return h, true
}

// phdr32 is an Elf32_Phdr.
type phdr32 struct {
	typ    uint32
	offset uint32
	vaddr  uint32
	paddr  uint32
	filesz uint32
	memsz  uint32
	flags  uint32
	align  uint32
}

func decodePhdr32(b []byte) phdr32 {
	return phdr32{
		typ:    order.Uint32(b[0:]),
		offset: order.Uint32(b[4:]),
		vaddr:  order.Uint32(b[8:]),
		paddr:  order.Uint32(b[12:]),
		filesz: order.Uint32(b[16:]),
		memsz:  order.Uint32(b[20:]),
		flags:  order.Uint32(b[24:]),
		align:  order.Uint32(b[28:]),
	}
}

// dyn32 is an Elf32_Dyn.
type dyn32 struct {
	tag int32
	val uint32
}

func decodeDyn32(b []byte) dyn32 {
	return dyn32{
		tag: int32(order.Uint32(b[0:])),
		val: order.Uint32(b[4:]),
	}
}

// sym32 is an Elf32_Sym, read from or written back into the destination
// buffer in place — the resolver mutates st_shndx/st_value directly
// (§9 "in-place symbol table mutation") so the relocator can read
// resolved values back out of the same table.
type sym32 struct {
	name  uint32
	value uint32
	size  uint32
	info  uint8
	other uint8
	shndx uint16
}

func decodeSym32(b []byte) sym32 {
	return sym32{
		name:  order.Uint32(b[0:]),
		value: order.Uint32(b[4:]),
		size:  order.Uint32(b[8:]),
		info:  b[12],
		other: b[13],
		shndx: order.Uint16(b[14:]),
	}
}

func encodeSym32(b []byte, s sym32) {
	order.PutUint32(b[0:], s.name)
	order.PutUint32(b[4:], s.value)
	order.PutUint32(b[8:], s.size)
	b[12] = s.info
	b[13] = s.other
	order.PutUint16(b[14:], s.shndx)
}

func symBind(info uint8) uint8 { return info >> 4 }

// rel32 is an Elf32_Rel (REL, not RELA — the addend lives in the
// reference cell's existing contents).
type rel32 struct {
	offset uint32
	info   uint32
}

func decodeRel32(b []byte) rel32 {
	return rel32{
		offset: order.Uint32(b[0:]),
		info:   order.Uint32(b[4:]),
	}
}

func relSym(info uint32) uint32  { return info >> 8 }
func relType(info uint32) uint32 { return info & 0xff }

func alignUp(v, align uint32) uint32 {
	if align == 0 {
		return v
	}
	return (v + align - 1) / align * align
}
