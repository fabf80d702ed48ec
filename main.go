package main

import (
	"os"

	"github.com/mverel/caseplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
