package main

import (
	"os"

	"github.com/joho/godotenv"

	"uniformgen/cmd/uniformctl/commands"
)

func main() {
	_ = godotenv.Load()
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
