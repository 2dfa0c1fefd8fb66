package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const appName = "queuepublisher"

func main() {
	app := &cli.App{
		Name:      appName,
		Usage:     "Publish a file as a single message to a queue",
		ArgsUsage: "FILE",
		Description: "Reads FILE, wraps its name and base64 encoded bytes in a JSON body and sends it\n" +
			"as one message. Publishing failures are logged and do not change the exit status.",
		Flags:  runFlags(),
		Action: run,
	}
	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
