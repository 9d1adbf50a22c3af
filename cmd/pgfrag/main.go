package main

import (
	"os"

	"github.com/thisprojects/pgfrag/cmd/pgfrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
