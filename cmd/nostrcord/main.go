package main

import (
	"os"

	"nostrcord/cmd/nostrcord/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
