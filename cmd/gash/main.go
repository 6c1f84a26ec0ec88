package main

import (
	"os"

	"github.com/itchio/gash/logger"
	"github.com/urfave/cli/v2"

	_ "github.com/itchio/gash/compressors/cbrotli"
	_ "github.com/itchio/gash/compressors/kzstd"
)

var log, _ = logger.New("gash")

func main() {
	if err := run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	app := &cli.App{
		Name:  "gash",
		Usage: "find corrupted ranges in binary blobs",
		Commands: []*cli.Command{
			scanCommand(cfg),
			showCommand(),
			genCommand(cfg),
		},
	}

	return app.Run(args)
}
