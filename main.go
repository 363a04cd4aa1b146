package main

import (
	"os"

	"github.com/prepedge/prepedge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
