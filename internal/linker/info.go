package linker

// DynamicInfo is a read-only projection of an image's PT_DYNAMIC section,
// for host tooling that wants to describe an image without linking it —
// the same job `galago info` does for an ARM64 ELF by printing metadata
// without ever emulating.
type DynamicInfo struct {
	SymbolCount    uint32
	RelCount       uint32
	JumpRelCount   uint32
	InitArrayCount uint32
	FiniArrayCount uint32
}

// Info parses the image's dynamic section and returns a read-only
// projection. It shares §4.6's scan (readDynamic) but performs none of
// Link's later steps: no segment copy, no symbol resolution, no
// relocation, no constructor invocation. Safe to call any number of
// times and in any order relative to Link.
func (h *Handle) Info() (DynamicInfo, bool) {
	dt, ok := readDynamic(h)
	if !ok {
		return DynamicInfo{}, false
	}

	var relCount, jmpRelCount uint32
	if dt.relEnt != 0 {
		relCount = dt.relSz / dt.relEnt
	}
	if dt.pltRelSz != 0 {
		jmpRelCount = dt.pltRelSz / relSize
	}

	return DynamicInfo{
		SymbolCount:    dt.symCount,
		RelCount:       relCount,
		JumpRelCount:   jmpRelCount,
		InitArrayCount: dt.initCount,
		FiniArrayCount: dt.finiCount,
	}, true
}
