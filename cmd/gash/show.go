package main

import (
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/gash/triage"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "print a report file",
		ArgsUsage: "<report>",
		Action:    doShow,
	}
}

func doShow(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("show needs a report path")
	}

	report, err := triage.ReadReport(c.Args().Get(0))
	if err != nil {
		return err
	}

	corrupted := report.TotalCorrupted()
	ratio := 0.0
	if report.BlobSize > 0 {
		ratio = float64(corrupted) / float64(report.BlobSize) * 100
	}

	fmt.Printf("blob %s, chunks of %s\n",
		humanize.IBytes(uint64(report.BlobSize)),
		humanize.IBytes(uint64(report.ChunkSize)))
	fmt.Printf("%d corrupted ranges, %s total (%.2f%%)\n",
		len(report.Corruptions),
		humanize.IBytes(uint64(corrupted)),
		ratio)

	printCorruptions(report)

	return nil
}
