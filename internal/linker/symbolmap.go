package linker

// AbsentAddr is the sentinel value a weak, undefined symbol resolves to
// when the host never mapped it. It is also what a relocation against
// such a symbol writes into the destination buffer.
const AbsentAddr uint32 = 0

// symbolMap is the linker's name-to-address dictionary, keyed by the
// 32-bit hash of the name rather than the name itself — names are never
// retained. The original implementation uses an unbalanced binary search
// tree ordered by signed hash comparison; a Go map satisfies the same
// insert/find/clear contract (last writer wins on a hash collision)
// without the recursive-free bookkeeping a hand-rolled tree needs.
type symbolMap struct {
	entries map[int32]uint32
	alloc   Allocator
	cookie  any
}

func newSymbolMap(alloc Allocator, cookie any) *symbolMap {
	if alloc == nil {
		alloc = DefaultAllocator
	}
	// Exercise the allocator facade for the map's backing storage, the
	// way the original reserves nodes through elf_allocf.
	alloc(cookie, nil, 1)
	return &symbolMap{
		entries: make(map[int32]uint32),
		alloc:   alloc,
		cookie:  cookie,
	}
}

func (m *symbolMap) insert(hash int32, addr uint32) {
	m.entries[hash] = addr
}

func (m *symbolMap) find(hash int32) (uint32, bool) {
	addr, ok := m.entries[hash]
	return addr, ok
}

func (m *symbolMap) clear() {
	m.alloc(m.cookie, nil, 0)
	m.entries = nil
}
