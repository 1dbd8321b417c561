package main

import (
	"os"

	"volume-backup/src/cli"
)

func main() {
	os.Exit(cli.Execute())
}
