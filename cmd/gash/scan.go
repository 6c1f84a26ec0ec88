package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/gash/bytesource"
	"github.com/itchio/gash/triage"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func scanCommand(cfg *Config) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "compare a candidate blob against its reference, reporting corrupted ranges",
		ArgsUsage: "<reference> <candidate>",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "chunk-size",
				Value: cfg.Scan.ChunkSize,
				Usage: "chunk size in bytes",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: cfg.Scan.Workers,
				Usage: "scan workers (0 means one per CPU, plus one)",
			},
			&cli.Int64Flag{
				Name:  "unit-chunks",
				Value: cfg.Scan.UnitChunks,
				Usage: "chunks per work unit (0 means the built-in default)",
			},
			&cli.BoolFlag{
				Name:  "scalar",
				Usage: "compare chunks byte by byte instead of in lanes",
			},
			&cli.BoolFlag{
				Name:  "buffered",
				Usage: "read through a page cache instead of memory-mapping",
			},
			&cli.BoolFlag{
				Name:  "tail",
				Usage: "on size mismatch, report the excess tail as corrupted instead of failing",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the report to this file",
			},
			&cli.StringFlag{
				Name:  "compression",
				Value: cfg.Scan.Compression,
				Usage: "report compression: none, brotli or zstd",
			},
			&cli.IntFlag{
				Name:  "quality",
				Value: cfg.Scan.Quality,
				Usage: "report compression quality",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "don't print individual ranges",
			},
		},
		Action: doScan,
	}
}

func doScan(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("scan needs a reference path and a candidate path")
	}

	refPath := c.Args().Get(0)
	candPath := c.Args().Get(1)

	// the compression settings are only needed with --output, but a
	// typo should fail before a long scan, not after
	var compression *triage.CompressionSettings
	if c.String("output") != "" {
		algorithm, err := triage.ParseCompressionAlgorithm(c.String("compression"))
		if err != nil {
			return err
		}
		compression = &triage.CompressionSettings{
			Algorithm: algorithm,
			Quality:   int32(c.Int("quality")),
		}
	}

	open := bytesource.Open
	if c.Bool("buffered") {
		open = bytesource.OpenBuffered
	}

	reference, err := open(refPath)
	if err != nil {
		return err
	}
	defer reference.Close()

	candidate, err := open(candPath)
	if err != nil {
		return err
	}
	defer candidate.Close()

	mismatch := triage.SizeMismatchReject
	if c.Bool("tail") {
		mismatch = triage.SizeMismatchTail
	}

	bar := newScanBar(reference.Size())

	cctx := &triage.CompareContext{
		ChunkSize:      c.Int64("chunk-size"),
		NumWorkers:     c.Int("workers"),
		WorkUnitChunks: c.Int64("unit-chunks"),
		SizeMismatch:   mismatch,
		Consumer:       bar.consumer(),
	}
	if c.Bool("scalar") {
		cctx.Comparator = triage.ScalarComparator{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	startTime := time.Now()
	report, err := cctx.Compare(ctx, reference, candidate)
	bar.finish()
	if err != nil {
		return err
	}

	log.Infow("scan complete",
		"blob", humanize.IBytes(uint64(report.BlobSize)),
		"chunk", humanize.IBytes(uint64(report.ChunkSize)),
		"took", time.Since(startTime).String(),
	)

	if c.String("output") != "" {
		err = triage.WriteReportFile(c.String("output"), report, compression)
		if err != nil {
			return err
		}
		log.Infow("report written", "path", c.String("output"))
	}

	if len(report.Corruptions) == 0 {
		fmt.Println("blobs are identical")
		return nil
	}

	if !c.Bool("quiet") {
		printCorruptions(report)
	}

	return cli.Exit(fmt.Sprintf("%d corrupted ranges, %s total",
		len(report.Corruptions),
		humanize.IBytes(uint64(report.TotalCorrupted()))), 1)
}

func printCorruptions(report *triage.Report) {
	for _, corruption := range report.Corruptions {
		fmt.Printf("%12d %12d  %s\n",
			corruption.Offset,
			corruption.Length,
			humanize.IBytes(uint64(corruption.Length)))
	}
}
