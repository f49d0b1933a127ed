package main

import (
	"log"
	"os"

	"speciestrend/cmd/speciestrend/commands"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
