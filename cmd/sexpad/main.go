package main

import (
	"os"

	"github.com/msto63/sexpad/cmd/sexpad/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
