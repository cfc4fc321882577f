package main

import (
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/config"
)

func main() {
	// Local development reads .env; production relies on the environment.
	config.LoadEnvFile()

	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
