package main

import (
	"os"

	"github.com/moss-engine/moss/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
