package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/danieljhkim/festie/internal/cli"
)

var version = "dev"

func main() {
	// A missing .env is normal; FESTIE_* variables may come from the shell.
	_ = godotenv.Load()

	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
