package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/anicoll/aksm-integration/cmd"
)

func main() {
	app := &cli.App{
		Name:  "aksm-controller",
		Usage: "command console for danfoss ak-sm refrigeration controllers",
		Commands: []*cli.Command{
			{
				Name:   "send",
				Usage:  "encode one command, send it and print the decoded response",
				Action: cmd.SendCommand,
				Flags:  cmd.SendFlags(),
			},
			{
				Name:   "serve",
				Usage:  "run the raw XML command proxy",
				Action: cmd.ServeCommand,
				Flags:  cmd.ServeFlags(),
			},
			{
				Name:   "watch",
				Usage:  "poll the dashboard panels and publish device state to mqtt",
				Action: cmd.WatchCommand,
				Flags:  cmd.WatchFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
