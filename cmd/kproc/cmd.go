package main

import (
	"io"

	"github.com/urfave/cli"
)

const description = `kproc boots a simulated round-robin kernel, runs YAML scenarios on it and
inspects the process table snapshots it saves.`

// Execute runs the command line, writing results to w.
func Execute(args []string, w io.Writer) error {
	app := cli.App{
		Name:        "kproc",
		HelpName:    "kproc",
		Usage:       "a simulated round-robin process scheduler",
		UsageText:   "kproc <command> [arguments...]",
		Description: description,
		Version:     version,
		Writer:      w,
		Commands: []cli.Command{
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "run a scenario and save a snapshot of the process table",
				ArgsUsage: "<scenario URL>",
				Action:    run,
				Flags:     runFlags,
			},
			{
				Name:      "ps",
				Usage:     "print a saved snapshot",
				ArgsUsage: "[snapshot id]",
				Action:    ps,
				Flags:     psFlags,
			},
			{
				Name:      "stat",
				Usage:     "diff two saved snapshots",
				ArgsUsage: "<from id> <to id>",
				Action:    stat,
				Flags:     []cli.Flag{configFlag},
			},
		},
	}
	return app.Run(args)
}

const version = "0.1.0"

var configFlag = cli.StringFlag{
	Name:  "config, c",
	Usage: "configuration URL (file://, mem://, s3://...)",
}
