package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/CodMac/go-treesitter-rethrow-analyzer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cmd.ErrCheckFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
