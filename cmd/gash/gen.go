package main

import (
	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/gash/blobgen"
	"github.com/itchio/gash/counter"
	"github.com/itchio/screw"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func genCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "gen",
		Usage:     "write a reference blob and a deterministically corrupted copy, for testing scans",
		ArgsUsage: "<reference> <candidate>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "size",
				Value: cfg.Gen.Size,
				Usage: "blob size in bytes",
			},
			&cli.IntFlag{
				Name:  "count",
				Value: cfg.Gen.Count,
				Usage: "number of corruption windows",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "window placement seed",
			},
			&cli.Int64Flag{
				Name:  "align-gap",
				Usage: "keep windows apart even when rounded out to this alignment",
			},
			&cli.Int64Flag{
				Name:  "min-window",
				Usage: "smallest window in bytes",
			},
			&cli.Int64Flag{
				Name:  "max-window",
				Usage: "largest window in bytes",
			},
		},
		Action: doGen,
	}
}

func doGen(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("gen needs a reference path and a candidate path")
	}

	params := blobgen.Params{
		Size:      c.Int64("size"),
		Count:     c.Int("count"),
		MinWindow: c.Int64("min-window"),
		MaxWindow: c.Int64("max-window"),
		AlignGap:  c.Int64("align-gap"),
		Seed:      c.Int64("seed"),
	}

	refFile, err := screw.Create(c.Args().Get(0))
	if err != nil {
		return errors.WithStack(err)
	}
	defer refFile.Close()

	candFile, err := screw.Create(c.Args().Get(1))
	if err != nil {
		return errors.WithStack(err)
	}
	defer candFile.Close()

	refWriter := counter.NewWriter(refFile)
	candWriter := counter.NewWriter(candFile)

	windows, err := blobgen.WritePair(refWriter, candWriter, params)
	if err != nil {
		return err
	}

	log.Infow("pair written",
		"reference", humanize.IBytes(uint64(refWriter.Count())),
		"candidate", humanize.IBytes(uint64(candWriter.Count())),
		"windows", len(windows),
	)
	for _, w := range windows {
		log.Debugw("window", "offset", w.Offset, "length", w.Length)
	}

	return nil
}
