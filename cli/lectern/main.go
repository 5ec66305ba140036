package main

import (
	"os"

	"github.com/joho/godotenv"

	lecterncmder "github.com/parchmentlabs/lectern/cmd/lectern"
)

func main() {
	// Provider API keys may live in a local .env file.
	_ = godotenv.Load()

	cmd := lecterncmder.NewLecternCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
