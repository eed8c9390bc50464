package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbrt/armld/internal/linker"
)

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	h := linker.Open(data, linker.Default)
	if msg, ok := h.Error(); ok {
		return fmt.Errorf("open %s: %s", path, msg)
	}
	defer h.Close()

	fmt.Printf("Image:  %s\n", path)
	fmt.Printf("Size:   %d bytes\n", h.Size())

	info, ok := h.Info()
	if !ok {
		msg, _ := h.Error()
		return fmt.Errorf("parse dynamic section of %s: %s", path, msg)
	}

	fmt.Printf("Symbols:     %d\n", info.SymbolCount)
	fmt.Printf("REL entries: %d\n", info.RelCount)
	fmt.Printf("JMPREL entries: %d\n", info.JumpRelCount)
	fmt.Printf("init_array:  %d\n", info.InitArrayCount)
	fmt.Printf("fini_array:  %d\n", info.FiniArrayCount)

	return nil
}
