// Command reelctl runs maintenance tasks against a reelwork deployment's storage.
package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "reelctl",
		Usage: "Reelwork storage and account maintenance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Path to config YAML file"},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			seedCommand(),
			backupCommand(),
			restoreCommand(),
			adminCommand(),
		},
	}

	if err := root.Run(context.Background(), args); err != nil {
		log.Fatal(err)
	}
}
