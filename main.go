package main

import (
	"log/slog"
	"os"

	"studioupload/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(cmd.ExitCode(err))
	}
}
