package main

import (
	"os"
	"time"

	"github.com/itchio/headway/state"
	"github.com/schollz/progressbar/v3"
)

// scanBar renders scan progress on stderr, fed by a state.Consumer.
type scanBar struct {
	bar   *progressbar.ProgressBar
	total int64
}

func newScanBar(totalBytes int64) *scanBar {
	bar := progressbar.NewOptions64(
		totalBytes,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()

	return &scanBar{bar: bar, total: totalBytes}
}

// consumer returns a Consumer that drives the bar and routes messages
// to the logger.
func (sb *scanBar) consumer() *state.Consumer {
	return &state.Consumer{
		OnProgress: func(progress float64) {
			_ = sb.bar.Set64(int64(progress * float64(sb.total)))
		},
		OnProgressLabel: func(label string) {
			sb.bar.Describe(label)
		},
		OnMessage: func(level string, message string) {
			switch level {
			case "debug":
				log.Debugw(message)
			default:
				log.Infow(message)
			}
		},
	}
}

func (sb *scanBar) finish() {
	_ = sb.bar.Finish()
}
