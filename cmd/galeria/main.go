package main

import (
	"os"

	"github.com/galeria-labs/galeria/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
