package main

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/starchen4/pptstealer"
)

// progressBar renders run events as a single 0-100 bar.
type progressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer) *progressBar {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Starting"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &progressBar{w: w, bar: bar}
}

// Report implements pptstealer.Reporter.
func (p *progressBar) Report(ev pptstealer.Event) {
	switch ev.Stage {
	case pptstealer.StageError:
		// Leave the bar where the run stopped; the error is printed by the caller.
		fmt.Fprint(p.w, "\n")
	case pptstealer.StageCompleted:
		p.bar.Describe("Done")
		_ = p.bar.Finish()
	default:
		if ev.Message != "" {
			p.bar.Describe(ev.Message)
		}
		_ = p.bar.Set(ev.Progress)
	}
}
