package main

import (
	"os"

	"github.com/fluentvoice/modelcache/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
