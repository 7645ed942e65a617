package main

import (
	"os"

	"github.com/tetra-engine/tetra/cmd/tetra/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
