package linker

// hashName is the one true symbol-name hash: every insert and every lookup
// must agree bit-for-bit, since on-image symbol names have to hash to the
// same value as host-supplied names. It is deliberately weak and fast —
// collisions are possible and, per the symbol map's contract, are treated
// as equal keys.
func hashName(name string) int32 {
	h := int32(7)
	for i := 0; i < len(name); i++ {
		h = h*31 + int32(name[i])
	}
	return h
}
