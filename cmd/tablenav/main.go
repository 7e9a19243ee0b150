package main

import (
	"os"

	"github.com/accessolutions/tablehandler/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
