package main

import (
	"os"

	"github.com/solatis/encql/cmd/encql/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
