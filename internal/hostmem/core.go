// Package hostmem backs a linker destination buffer with a Unicorn ARM32
// core, so a linked image can actually be executed rather than only
// inspected as bytes. This is host-side plumbing: the linker package
// never imports it and has no idea it exists.
package hostmem

import (
	"encoding/binary"
	"fmt"
	"sync"

	uc "github.com/unicorn-engine/unicorn/bindings/go/unicorn"

	"github.com/mbrt/armld/internal/linker"
)

var order = binary.LittleEndian

const (
	stackBase = 0x80000000
	stackSize = 0x00100000

	// returnTrap is a dedicated page containing a single breakpoint
	// instruction. Calling a resolved address with LR set to this address
	// makes the call observably return: Call stops the moment the core
	// reaches it.
	returnTrap = 0xFFFF0000

	// bkpt #0, ARM mode, little endian.
	bkptInstr = uint32(0xE1200070)
)

// AddressHook runs when the core's PC reaches addr. Returning true stops
// emulation immediately, before the instruction at addr executes.
type AddressHook func(c *Core) bool

// Core is an ARM32 Unicorn engine mapped with a single image region plus
// the return trap page. It implements linker.Invoker via Invoke.
type Core struct {
	mu   uc.Unicorn
	base uint32
	size uint32

	hooksMu sync.RWMutex
	hooks   map[uint32]AddressHook
}

// New creates a core and maps a guest region of size bytes at base,
// rounded up to a whole number of 4 KiB pages.
func New(base, size uint32) (*Core, error) {
	mu, err := uc.NewUnicorn(uc.ARCH_ARM, uc.MODE_ARM)
	if err != nil {
		return nil, fmt.Errorf("hostmem: create unicorn: %w", err)
	}

	c := &Core{mu: mu, base: base, size: size, hooks: make(map[uint32]AddressHook)}

	mapSize := (uint64(size) + 0xFFF) &^ 0xFFF
	if err := mu.MemMap(uint64(base), mapSize); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: map image region: %w", err)
	}
	if err := mu.MemMap(uint64(stackBase), stackSize); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: map stack: %w", err)
	}
	if err := mu.MemMap(uint64(returnTrap), 0x1000); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: map return trap: %w", err)
	}

	trap := make([]byte, 4)
	order.PutUint32(trap, bkptInstr)
	if err := mu.MemWrite(uint64(returnTrap), trap); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: write return trap: %w", err)
	}
	if err := mu.RegWrite(uc.ARM_REG_SP, uint64(stackBase+stackSize-0x1000)); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: init SP: %w", err)
	}

	if _, err := mu.HookAdd(uc.HOOK_CODE, c.onCode, 1, 0); err != nil {
		mu.Close()
		return nil, fmt.Errorf("hostmem: install code hook: %w", err)
	}

	return c, nil
}

// Close releases the underlying Unicorn engine.
func (c *Core) Close() error {
	return c.mu.Close()
}

// Base is the guest address the image region starts at, for building a
// linker.Buffer.
func (c *Core) Base() uint32 { return c.base }

// Load writes buf into the core's image region. Call it after Link has
// relocated buf in place, and before looking up or invoking anything.
func (c *Core) Load(buf []byte) error {
	if err := c.mu.MemWrite(uint64(c.base), buf); err != nil {
		return fmt.Errorf("hostmem: load image: %w", err)
	}
	return nil
}

// MapRegion maps an additional guest region, for a host stub (e.g. a
// mocked printf) that lives outside the image's own address range.
func (c *Core) MapRegion(addr, size uint32) error {
	if err := c.mu.MemMap(uint64(addr), uint64(size)); err != nil {
		return fmt.Errorf("hostmem: map region at %#x: %w", addr, err)
	}
	return nil
}

// WriteAt writes data into guest memory at addr, for populating a host
// stub's code after MapRegion.
func (c *Core) WriteAt(addr uint32, data []byte) error {
	if err := c.mu.MemWrite(uint64(addr), data); err != nil {
		return fmt.Errorf("hostmem: write at %#x: %w", addr, err)
	}
	return nil
}

// HookAddress installs fn to run when the core's PC reaches addr — used
// by tests to observe PLT calls (e.g. the constructor's printf call in
// scenario S1) without needing a real C library mapped in.
func (c *Core) HookAddress(addr uint32, fn AddressHook) {
	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()
	c.hooks[addr] = fn
}

func (c *Core) onCode(mu uc.Unicorn, addr uint64, size uint32) {
	c.hooksMu.RLock()
	hook, ok := c.hooks[uint32(addr)]
	c.hooksMu.RUnlock()
	if ok && hook(c) {
		c.mu.Stop()
	}
}

// Invoke runs a parameterless function at addr until it returns. It
// satisfies linker.Invoker and is what Handle.SetInvoker should be given
// for the init-array/fini-array lifecycle.
func (c *Core) Invoke(addr uint32) {
	_ = c.Call(addr)
}

// Call runs the function at addr with up to four arguments in R0-R3 and
// returns its result from R0. LR is set to the return trap so the run
// stops the instant the function returns.
func (c *Core) Call(addr uint32, args ...uint32) uint32 {
	regs := []int{uc.ARM_REG_R0, uc.ARM_REG_R1, uc.ARM_REG_R2, uc.ARM_REG_R3}
	for i, a := range args {
		if i >= len(regs) {
			break
		}
		c.mu.RegWrite(regs[i], uint64(a))
	}
	c.mu.RegWrite(uc.ARM_REG_LR, uint64(returnTrap))
	c.mu.Start(uint64(addr), uint64(returnTrap))
	r0, _ := c.mu.RegRead(uc.ARM_REG_R0)
	return uint32(r0)
}

// RegRead reads a register by its uc.ARM_REG_* constant, for tests that
// need to inspect state an AddressHook observed mid-call.
func (c *Core) RegRead(reg int) uint32 {
	v, _ := c.mu.RegRead(reg)
	return uint32(v)
}

// MemRead reads size bytes of guest memory at addr, for tests asserting
// on bytes a PLT stub wrote (e.g. printf's format-string argument).
func (c *Core) MemRead(addr uint32, size uint32) []byte {
	b, _ := c.mu.MemRead(uint64(addr), uint64(size))
	return b
}

// AsBuffer builds a linker.Buffer of the given length over a plain Go
// byte slice based at the core's mapped address. Link runs against this
// slice directly (the linker never touches Unicorn); call Load
// afterwards to push the relocated bytes into guest memory.
func (c *Core) AsBuffer(length uint32) linker.Buffer {
	return linker.Buffer{Bytes: make([]byte, length), Base: c.base}
}
