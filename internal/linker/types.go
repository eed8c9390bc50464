package linker

// Flag controls how Open validates an image before use.
type Flag int

const (
	// Default runs the full header validation of §4.1 before returning.
	Default Flag = 0x0
	// SkipCheck bypasses header validation entirely; the caller assumes
	// responsibility for the image's well-formedness.
	SkipCheck Flag = 0x1
)

// Buffer is the caller-allocated destination memory an image links into,
// paired with the numeric address the host mapped it at. Relocations and
// resolved symbol values are expressed in terms of Base, not the slice
// header — the bytes may be a CPU-local mapping, a region inside a
// software ARM core, or anything else the host chooses to back them
// with; the linker never allocates or frees them.
type Buffer struct {
	Bytes []byte
	Base  uint32
}
