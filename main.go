package main

import (
	"os"

	"github.com/lunstb/learn-k8s-sub003/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
