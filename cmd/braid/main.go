package main

import (
	"os"

	"github.com/funvibe/braid/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
