package main

import (
	"os"

	"github.com/AngelCh415/hotel-analytics/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Run(version); err != nil {
		os.Exit(1)
	}
}
