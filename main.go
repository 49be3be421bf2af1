package main

import (
	"os"

	"github.com/Supernova3339/changerawr-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
