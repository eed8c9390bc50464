package linker

// loadSegments copies every PT_LOAD segment's file content into buf at its
// virtual offset and zero-fills the BSS tail. Segments are visited in
// program-header order and are assumed not to overlap; no destination
// alignment correction is performed — the host's buffer must already be
// suitably aligned.
func loadSegments(im *image, buf []byte) {
	for i := 0; i < im.programHeaderCount(); i++ {
		p := im.programHeader(i)
		if p.typ != ptLoad {
			continue
		}

		dst := buf[p.vaddr:]
		src := im.data[p.offset : p.offset+p.filesz]
		copy(dst[:p.filesz], src)

		bssLen := p.memsz - p.filesz
		if bssLen > 0 {
			clear(dst[p.filesz : p.filesz+bssLen])
		}
	}
}
