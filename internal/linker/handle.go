package linker

import (
	"github.com/google/uuid"

	armlog "github.com/mbrt/armld/internal/log"
)

// Invoker executes a parameterless function already resolved to an
// absolute address within (or reachable from) the destination buffer.
// The CORE uses it only for the init-array and fini-array lifecycle of
// §4.9; host-facing symbol invocation (e.g. calling a looked-up function
// pointer) is the host's own responsibility and is outside this package.
//
// How an address becomes callable — native execution on real ARM32
// hardware, or a software engine standing in for it — is exactly the
// kind of external collaborator §1 keeps out of the CORE's scope.
type Invoker func(addr uint32)

// Handle is the linker's per-image state: a reference to the allocator
// and its cookie, the current flags, a borrowed pointer to the image
// header, an owned symbol map, a weak reference into the destination
// buffer naming the fini array, and a single-slot latched error.
type Handle struct {
	id     uuid.UUID
	alloc  Allocator
	cookie any
	flags  Flag

	img     *image
	symbols *symbolMap
	invoke  Invoker

	buf       []byte // borrowed; valid only while the host keeps it alive
	finiOff   uint32
	finiCount uint32
	linked    bool

	err latch
	log *armlog.Logger
}

// Open creates a handle using the default heap allocator and a no-op
// invoker (constructors/destructors are recorded but not executed; call
// SetInvoker before Link to actually run them).
func Open(buf []byte, flag Flag) *Handle {
	return OpenWithAllocator(buf, flag, DefaultAllocator, nil)
}

// OpenWithAllocator creates a handle using a caller-supplied realloc-style
// allocator and cookie (see Allocator).
func OpenWithAllocator(buf []byte, flag Flag, alloc Allocator, cookie any) *Handle {
	if alloc == nil {
		alloc = DefaultAllocator
	}

	h := &Handle{
		id:      uuid.New(),
		alloc:   alloc,
		cookie:  cookie,
		flags:   flag,
		symbols: newSymbolMap(alloc, cookie),
		invoke:  func(uint32) {},
		log:     armlog.L,
	}

	im, ok := newImage(buf)
	if !ok {
		h.err.fail(errMagicID)
		return h
	}
	h.img = im

	if flag&SkipCheck == 0 {
		validate(h)
	}

	return h
}

// SetInvoker installs the function the lifecycle manager uses to run
// init-array and fini-array entries. Must be called before Link to have
// any effect on construction; it always affects Close's destructor pass.
func (h *Handle) SetInvoker(inv Invoker) {
	if inv == nil {
		inv = func(uint32) {}
	}
	h.invoke = inv
}

// Error returns the latched error message and clears the flag, or
// reports false if no error is pending.
func (h *Handle) Error() (string, bool) {
	return h.err.query()
}

// MapSymbol inserts (hash(name), addr) into the symbol map. Symbols the
// image needs from the host must be mapped before Link.
func (h *Handle) MapSymbol(name string, addr uint32) {
	h.symbols.insert(hashName(name), addr)
}

// Size computes the minimum destination-buffer length per §4.4.
func (h *Handle) Size() uint32 {
	if h.img == nil {
		return 0
	}
	var high uint32
	for i := 0; i < h.img.programHeaderCount(); i++ {
		p := h.img.programHeader(i)
		if p.typ != ptLoad {
			continue
		}
		segMax := alignUp(p.vaddr+p.memsz, p.align)
		if segMax > high {
			high = segMax
		}
	}
	return high
}

// Lookup finds the hash of name in the symbol map. It is well-defined to
// call before Link (returning whatever the host pre-populated) but will
// not see the image's own globals until after Link has run.
func (h *Handle) Lookup(name string) (uint32, bool) {
	return h.symbols.find(hashName(name))
}

// Close runs the fini-array entries in iteration order, then releases the
// symbol map and the handle's own storage through the installed
// allocator. Tolerates a handle left partially built by a failed Open or
// Link.
func (h *Handle) Close() {
	for i := uint32(0); i < h.finiCount; i++ {
		addr := h.finiEntry(i)
		h.invoke(addr)
	}

	if h.symbols != nil {
		h.symbols.clear()
	}

	h.alloc(h.cookie, nil, 0)
}

func (h *Handle) finiEntry(i uint32) uint32 {
	off := h.finiOff + i*4
	return order.Uint32(h.buf[off : off+4])
}
