package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbrt/armld/internal/config"
	armlog "github.com/mbrt/armld/internal/log"
)

var (
	debug       bool
	symbolsYAML string
	linkBase    uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "armld",
		Short: "Sample host for the embedded ARM32 ELF dynamic linker",
		Long: `armld is a sample host program driving internal/linker against a real
ARM32 ET_DYN shared object file.

armld link <image.so>   open, size, allocate, link and look up symbols
armld info <image.so>   print the parsed dynamic-table projection`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			armlog.Init(debug)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose debug logging")

	linkCmd := &cobra.Command{
		Use:   "link <image.so>",
		Short: "Link an ARM32 shared object into a fresh buffer",
		Args:  cobra.ExactArgs(1),
		RunE:  runLink,
	}
	linkCmd.Flags().StringVar(&symbolsYAML, "symbols", "", "YAML file of host symbols to pre-populate before linking")
	linkCmd.Flags().Uint32Var(&linkBase, "base", 0x10000, "destination buffer's base address")
	rootCmd.AddCommand(linkCmd)

	infoCmd := &cobra.Command{
		Use:   "info <image.so>",
		Short: "Show an image's dynamic-table projection without linking",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
	rootCmd.AddCommand(infoCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadPreloadSymbols(path string) ([]config.Symbol, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadSymbols(path)
}
