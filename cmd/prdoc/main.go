package main

import (
	"os"

	"github.com/prdoc/prdoc/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
