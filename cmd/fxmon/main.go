package main

import (
	"os"

	"github.com/damon-houk/fx-inflation-monitor/cmd/fxmon/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
