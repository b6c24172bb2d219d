package main

import (
	"os"

	"MorningRadar/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
