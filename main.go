package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/vrsandeep/natgeo-wallpapers/internal/cli"
)

var version = "dev"

func main() {
	root := cli.NewRootCmd()

	// fang prints the styled error; the exit code tells scripts and systemd what failed.
	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(cli.ShutdownSignals...),
	)
	os.Exit(cli.ExitCode(err))
}
