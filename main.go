package main

import (
	"os"

	"github.com/evtrip/planner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
