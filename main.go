package main

import (
	"os"

	"github.com/GigaGaiaWorld/codex/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
