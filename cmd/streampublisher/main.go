package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const appName = "streampublisher"

func main() {
	app := &cli.App{
		Name:      appName,
		Usage:     "Append a file as a single record to a delivery stream",
		ArgsUsage: "FILE",
		Description: "Reads FILE as text and puts one newline-terminated JSON record with its name,\n" +
			"content and creation time. Any failure exits with a non-zero status.",
		Flags:  runFlags(),
		Action: run,
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
