package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbrt/armld/internal/linker"
	armlog "github.com/mbrt/armld/internal/log"
)

func runLink(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	preload, err := loadPreloadSymbols(symbolsYAML)
	if err != nil {
		return err
	}

	h := linker.Open(data, linker.Default)
	if msg, ok := h.Error(); ok {
		return fmt.Errorf("open %s: %s", path, msg)
	}
	defer h.Close()

	for _, s := range preload {
		h.MapSymbol(s.Name, s.Addr)
	}

	size := h.Size()
	buf := linker.Buffer{Bytes: make([]byte, size), Base: linkBase}

	h.Link(buf)
	if msg, ok := h.Error(); ok {
		return fmt.Errorf("link %s: %s", path, msg)
	}

	armlog.L.Debug("linked", armlog.Field("path", path), armlog.Size(uint64(size)), armlog.Addr(uint64(linkBase)))

	fmt.Printf("linked %s: %d bytes at %s\n", path, size, armlog.Hex(uint64(linkBase)))
	for _, s := range preload {
		if addr, ok := h.Lookup(s.Name); ok {
			fmt.Printf("  %s = %s\n", s.Name, armlog.Hex(uint64(addr)))
		}
	}

	return nil
}
