package main

import (
	"os"

	"github.com/olivierh59500/netgraph/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
