// Command kiri records from the microphone, transcribes the speech and
// delivers the text to notes, the clipboard or the focused window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirivoice/kiri/internal/audio"
	"github.com/kirivoice/kiri/internal/config"
	"github.com/kirivoice/kiri/internal/doctor"
	"github.com/kirivoice/kiri/internal/output"
	"github.com/kirivoice/kiri/internal/transcription"
)

func main() {
	var (
		fixedSecs   = flag.Float64("f", 0, "record a fixed number of seconds instead of stopping on silence")
		device      = flag.String("d", "", "input device name substring")
		language    = flag.String("l", "", "transcription language (default from config)")
		model       = flag.String("m", "", "model file name (default from config)")
		noteName    = flag.String("note", "", "notes file name (default: today's date)")
		noNotes     = flag.Bool("no-notes", false, "do not append the transcript to notes")
		toClipboard = flag.Bool("clipboard", false, "copy the transcript to the clipboard")
		typeText    = flag.Bool("type", false, "type the transcript into the focused window")
		listDevices = flag.Bool("list-devices", false, "list audio input devices and exit")
		listModels  = flag.Bool("list-models", false, "list installed models and exit")
		runDoctor   = flag.Bool("doctor", false, "check prerequisites and exit")
	)
	flag.Parse()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fatal("load config: %v", err)
	}
	if *device != "" {
		cfg.AudioDevice = *device
	}
	if *language != "" {
		cfg.Language = *language
	}
	if *model != "" {
		cfg.Model = *model
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid config: %v", err)
	}

	if *runDoctor {
		os.Exit(printDoctor(cfg))
	}
	if *listDevices {
		os.Exit(printDevices(cfg))
	}
	if *listModels {
		os.Exit(printModels(cfg))
	}

	os.Exit(run(cfg, *fixedSecs, *noteName, *noNotes, *toClipboard, *typeText))
}

func run(cfg *config.Config, fixedSecs float64, noteName string, noNotes, toClipboard, typeText bool) int {
	recorder, err := audio.NewRecorder(cfg.AudioConfig())
	if err != nil {
		fatal("audio init: %v", err)
	}
	defer recorder.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var samples []float32
	if fixedSecs > 0 {
		fmt.Fprintf(os.Stderr, "Recording for %.1fs...\n", fixedSecs)
		samples, err = recorder.RecordFixed(ctx, time.Duration(fixedSecs*float64(time.Second)))
	} else {
		fmt.Fprintln(os.Stderr, "Recording... (stops after silence, Ctrl-C to finish early)")
		samples, err = recorder.RecordUntilSilence(ctx)
	}
	if err != nil {
		fatal("recording: %v", err)
	}

	// Anything under a second of audio is noise, not speech.
	if len(samples) < audio.WhisperRate {
		fmt.Fprintln(os.Stderr, "Recording too short, nothing to transcribe.")
		return 1
	}

	transcriber, err := transcription.NewExecTranscriber(transcription.Config{
		Command:    cfg.TranscriberCmd,
		ModelPath:  transcription.ModelPath(cfg.Model),
		SampleRate: audio.WhisperRate,
	})
	if err != nil {
		fatal("transcriber: %v", err)
	}

	fmt.Fprintln(os.Stderr, "Transcribing...")
	text, err := transcriber.Transcribe(ctx, samples, cfg.Language)
	if err != nil {
		fatal("transcription: %v", err)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "No speech recognized.")
		return 1
	}

	fmt.Println(text)

	if !noNotes {
		notesDir, err := config.ExpandPath(cfg.NotesDir)
		if err != nil {
			fatal("notes dir: %v", err)
		}
		path, err := output.SaveToNotes(notesDir, noteName, text)
		if err != nil {
			fatal("save notes: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Saved to %s\n", path)
	}
	if toClipboard {
		if err := output.CopyToClipboard(text); err != nil {
			fatal("clipboard: %v", err)
		}
	}
	if typeText {
		if err := output.TypeText(text); err != nil {
			fatal("type text: %v", err)
		}
	}
	return 0
}

func printDevices(cfg *config.Config) int {
	recorder, err := audio.NewRecorder(cfg.AudioConfig())
	if err != nil {
		fatal("audio init: %v", err)
	}
	defer recorder.Close()

	devices, defaultIndex, err := audio.InputDevices()
	if err != nil {
		fatal("list devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No audio input devices found.")
		return 1
	}
	for _, d := range devices {
		mark := " "
		if d.Index == defaultIndex {
			mark = "*"
		}
		fmt.Printf("%s %d: %s (%d channel(s))\n", mark, d.Index, d.Name, d.MaxInputChannels)
	}
	return 0
}

func printModels(cfg *config.Config) int {
	models := transcription.ListModels()
	if len(models) == 0 {
		fmt.Printf("No models in %s\n", transcription.ModelsDir())
		return 1
	}
	for _, m := range models {
		mark := " "
		if m == cfg.Model {
			mark = "*"
		}
		fmt.Printf("%s %s\n", mark, m)
	}
	return 0
}

func printDoctor(cfg *config.Config) int {
	checks := doctor.Run(cfg)
	for _, c := range checks {
		mark := "ok"
		if !c.OK {
			mark = "FAIL"
		}
		fmt.Printf("%-18s %-4s %s\n", c.Name, mark, c.Detail)
	}
	if !doctor.Healthy(checks) {
		return 1
	}
	return 0
}

func fatal(format string, v ...any) {
	fmt.Fprintf(os.Stderr, "kiri: "+format+"\n", v...)
	os.Exit(1)
}
