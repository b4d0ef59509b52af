package main

import (
	"fmt"
	"os"

	"github.com/toyz/routedecor/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "routedecor: %v\n", err)
		os.Exit(1)
	}
}
