package main

import (
	"fmt"
	"os"

	"omac/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "omac: %v\n", err)
		os.Exit(1)
	}
}
