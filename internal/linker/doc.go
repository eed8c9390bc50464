// Package linker is an embedded dynamic linker for ARM32 ELF shared
// objects already resident in memory. It validates the image, computes
// the destination buffer size, copies loadable segments, resolves
// symbols against a host-supplied map, applies relocations and runs
// constructors, and later runs destructors on close.
//
// There is no file system access and no dependency resolution: an
// image links against a single, explicit symbol map the host builds
// before calling Link. A NEEDED entry in the dynamic table is a fatal
// error.
package linker
