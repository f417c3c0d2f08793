// Package doctor verifies the host environment the application
// depends on.
package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/mattn/go-shellwords"

	"github.com/kirivoice/kiri/internal/audio"
	"github.com/kirivoice/kiri/internal/config"
	"github.com/kirivoice/kiri/internal/transcription"
)

// Check is the outcome of a single environment probe.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Run probes the environment and returns one Check per dependency.
func Run(cfg *config.Config) []Check {
	return []Check{
		checkAudioInput(),
		checkCommand("transcriber", cfg.TranscriberCmd),
		checkModel(cfg.Model),
		checkCommand("git", "git"),
		checkCommand("notifications", "notify-send"),
		checkNotesDir(cfg.NotesDir),
	}
}

// Healthy reports whether every check passed.
func Healthy(checks []Check) bool {
	for _, c := range checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func checkAudioInput() Check {
	check := Check{Name: "audio input"}

	rec, err := audio.NewRecorder(audio.DefaultConfig())
	if err != nil {
		check.Detail = fmt.Sprintf("portaudio init failed: %v", err)
		return check
	}
	defer rec.Close()

	devices, _, err := audio.InputDevices()
	if err != nil {
		check.Detail = fmt.Sprintf("device enumeration failed: %v", err)
		return check
	}
	if len(devices) == 0 {
		check.Detail = "no input devices found"
		return check
	}

	check.OK = true
	check.Detail = fmt.Sprintf("%d input device(s)", len(devices))
	return check
}

// checkCommand verifies the first word of command resolves on PATH.
func checkCommand(name, command string) Check {
	check := Check{Name: name}

	words, err := shellwords.Parse(command)
	if err != nil || len(words) == 0 {
		check.Detail = fmt.Sprintf("cannot parse command %q", command)
		return check
	}

	path, err := exec.LookPath(words[0])
	if err != nil {
		check.Detail = fmt.Sprintf("%q not found on PATH", words[0])
		return check
	}

	check.OK = true
	check.Detail = path
	return check
}

func checkModel(name string) Check {
	check := Check{Name: "model"}

	if err := transcription.CheckModel(name); err != nil {
		check.Detail = err.Error()
		return check
	}

	check.OK = true
	check.Detail = transcription.ModelPath(name)
	return check
}

func checkNotesDir(dir string) Check {
	check := Check{Name: "notes directory"}

	if dir == "" {
		check.Detail = "notes directory not configured"
		return check
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		// Created on first use, only the parent has to be sane.
		check.OK = true
		check.Detail = fmt.Sprintf("%s (will be created)", dir)
	case err != nil:
		check.Detail = err.Error()
	case !info.IsDir():
		check.Detail = fmt.Sprintf("%s is not a directory", dir)
	default:
		check.OK = true
		check.Detail = dir
	}
	return check
}
