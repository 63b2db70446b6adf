package main

import (
	"fmt"
	"os"

	"github.com/axiomchain/go-axiom/cmd/axiom/launcher"
)

func main() {
	if err := launcher.Launch(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
