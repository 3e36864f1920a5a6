package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivesync/internal/audio"
	"github.com/linuxmatters/jivesync/internal/cli"
	"github.com/linuxmatters/jivesync/internal/logging"
	"github.com/linuxmatters/jivesync/internal/processor"
	"github.com/linuxmatters/jivesync/internal/ui"
)

// version is set via ldflags at build time.
// Local dev builds: "dev"
// Release builds: git tag (e.g. "0.1.0")
var version = "dev"

// CLI defines the command-line interface for the align/align_batch library
// surface of spec.md §6, shaped after the teacher's own flag set
// (Version/Debug/Logs plus positional files).
type CLI struct {
	Version   bool     `short:"v" help:"Show version information"`
	Debug     bool     `short:"d" help:"Enable debug logging to jivesync-debug.log"`
	Logs      bool     `help:"Save a per-target alignment report next to each target file"`
	Method    string   `short:"m" help:"Alignment method: SpectralFlux, Chroma, Energy, MFCC, Hybrid" default:"Hybrid"`
	Preset    string   `short:"p" help:"Config preset: Standard, HighAccuracy, Fast, Music, Speech, Ambient" default:"Standard"`
	Reference string   `short:"r" help:"Reference audio file" required:"" type:"existingfile"`
	Targets   []string `arg:"" name:"targets" help:"Target audio file(s) to align against the reference" type:"existingfile"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("jivesync"),
		kong.Description("Audio alignment engine for syncing multi-track recordings"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if len(cliArgs.Targets) == 0 {
		cli.PrintError("No target files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	method, ok := processor.ParseMethod(cliArgs.Method)
	if !ok {
		cli.PrintError(fmt.Sprintf("unknown method %q", cliArgs.Method))
		os.Exit(1)
	}
	cfg := processor.Preset(cliArgs.Preset)

	var debugLog *os.File
	if cliArgs.Debug {
		debugLog, _ = os.Create("jivesync-debug.log")
		defer debugLog.Close()
	}
	log := func(format string, args ...interface{}) {
		if debugLog != nil {
			fmt.Fprintf(debugLog, format+"\n", args...)
		}
	}
	processor.DebugLog = log

	refBuf, err := audio.LoadFile(cliArgs.Reference)
	if err != nil {
		cli.PrintError(fmt.Sprintf("loading reference: %v", err))
		os.Exit(1)
	}

	model := ui.NewModel(cliArgs.Reference, cliArgs.Targets)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runAlignments(p, cliArgs, refBuf, method, cfg, log)

	if _, err := p.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// runAlignments loads each target, runs AlignBatch over all loaded targets
// against the reference, and streams progress/completion messages to the
// Bubbletea program —
// mirroring the teacher's background goroutine in cmd/jivetalking/main.go
// that drives the UI off a tea.Program.Send channel.
func runAlignments(p *tea.Program, cliArgs *CLI, refBuf *processor.AudioBuffer, method processor.Method, cfg *processor.Config, log func(string, ...interface{})) {
	batchStart := time.Now()

	targets := make([]processor.BatchTarget, len(cliArgs.Targets))
	loadErrs := make([]*processor.AlignError, len(cliArgs.Targets))

	for i, targetPath := range cliArgs.Targets {
		p.Send(ui.TargetStartMsg{TargetIndex: i, TargetName: targetPath})

		tgtBuf, err := audio.LoadFile(targetPath)
		if err != nil {
			log("[MAIN] load target failed: %v", err)
			var alignErr *processor.AlignError
			if errors.As(err, &alignErr) {
				loadErrs[i] = alignErr
			} else {
				loadErrs[i] = processor.WrapAlignError(processor.InvalidInput, "loading target", err)
			}
			continue
		}
		if tgtBuf.SampleRate() != refBuf.SampleRate() {
			log("[MAIN] sample rate mismatch for %s", targetPath)
			loadErrs[i] = processor.NewAlignError(processor.InvalidInput,
				fmt.Sprintf("sample rate mismatch: reference %gHz vs target %gHz", refBuf.SampleRate(), tgtBuf.SampleRate()))
			continue
		}
		targets[i] = processor.BatchTarget{Samples: tgtBuf.Samples()}
	}

	progressFn := func(targetIndex int, stage processor.Stage, percent float64, label string) {
		p.Send(ui.AlignProgressMsg{TargetIndex: targetIndex, Stage: stage, Percent: percent / 100, Label: label})
	}

	// AlignBatch (§4.7) runs every target against the reference on a bounded
	// worker pool; a load failure above is reported directly, overriding the
	// result AlignBatch produces for that (empty) slot.
	results := processor.AlignBatch(refBuf.Samples(), targets, refBuf.SampleRate(), method, cfg, progressFn, nil)

	for i, targetPath := range cliArgs.Targets {
		result := results[i]
		if loadErrs[i] != nil {
			result = &processor.AlignmentResult{Err: loadErrs[i]}
		}

		if cliArgs.Logs {
			reportData := logging.ReportData{
				ReferencePath: cliArgs.Reference,
				TargetPath:    targetPath,
				StartTime:     batchStart,
				EndTime:       time.Now(),
				Result:        result,
				Config:        cfg,
			}
			if err := logging.GenerateReport(reportData); err != nil {
				log("[MAIN] failed to generate log file: %v", err)
			}
		}

		log("[MAIN] target complete: index=%d offset=%d confidence=%.3f", i, result.OffsetSamples, result.Confidence)
		p.Send(ui.TargetCompleteMsg{TargetIndex: i, Result: result})
	}

	log("[MAIN] all complete in %s", time.Since(batchStart))
	p.Send(ui.AllCompleteMsg{})
}
