package main

import (
	"os"

	"taskhub/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
