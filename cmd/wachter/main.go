package main

import (
	"fmt"
	"os"

	"github.com/valksor/go-wachter/cmd/wachter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
