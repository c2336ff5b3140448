package main

import (
	"os"

	"github.com/kailas-cloud/esdsl/cmd/esdslctl/command"
)

func main() {
	if err := command.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
