package main

import (
	"os"

	"github.com/amoutonbrady/changemoji/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitFailure)
	}
}
