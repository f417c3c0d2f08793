// Command kiri-daemon runs the background dictation service: system
// tray, global hotkey, optional wake-word listener and a localhost
// status API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/kirivoice/kiri/internal/audio"
	"github.com/kirivoice/kiri/internal/config"
	"github.com/kirivoice/kiri/internal/gitsync"
	"github.com/kirivoice/kiri/internal/hotkey"
	"github.com/kirivoice/kiri/internal/logger"
	"github.com/kirivoice/kiri/internal/notification"
	"github.com/kirivoice/kiri/internal/output"
	"github.com/kirivoice/kiri/internal/server"
	"github.com/kirivoice/kiri/internal/transcription"
	"github.com/kirivoice/kiri/internal/tray"
	"github.com/kirivoice/kiri/internal/wakeword"
)

const version = "0.1.0"

// App holds all daemon state.
type App struct {
	logger      *logger.Logger
	config      *config.Config
	recorder    *audio.Recorder
	transcriber *transcription.ExecTranscriber
	hotkeyMgr   *hotkey.Manager
	trayMgr     *tray.Manager
	httpServer  *server.Server
	notifier    *notification.Manager

	mu    sync.Mutex
	state tray.State

	ctx    context.Context
	cancel context.CancelFunc
}

func init() {
	// The tray and hotkey backends require the main OS thread.
	runtime.LockOSThread()
}

func main() {
	app := &App{}

	loggerConfig := logger.DefaultConfig()
	if lvl := os.Getenv("KIRI_LOG_LEVEL"); lvl != "" {
		loggerConfig.Level = logger.ParseLevel(lvl)
	}
	var err error
	app.logger, err = logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiri-daemon: logger: %v\n", err)
		os.Exit(1)
	}
	defer app.logger.Close()
	app.logger.Info("kiri-daemon %s starting", version)

	app.config, err = config.Load(config.Path())
	if err != nil {
		app.fatal("load config: %v", err)
	}
	if err := app.config.Validate(); err != nil {
		app.fatal("invalid config: %v", err)
	}

	app.recorder, err = audio.NewRecorder(app.config.AudioConfig())
	if err != nil {
		app.fatal("audio init: %v", err)
	}
	defer app.recorder.Close()

	app.transcriber, err = transcription.NewExecTranscriber(transcription.Config{
		Command:    app.config.TranscriberCmd,
		ModelPath:  transcription.ModelPath(app.config.Model),
		SampleRate: audio.WhisperRate,
	})
	if err != nil {
		app.fatal("transcriber: %v", err)
	}

	app.notifier = notification.NewManager("kiri")
	app.ctx, app.cancel = context.WithCancel(context.Background())
	defer app.cancel()

	app.trayMgr = tray.NewManager(tray.Config{
		OnReady:        app.onTrayReady,
		OnToggleRecord: app.toggleRecording,
		OnOpenNotes:    app.openNotes,
		OnSyncNotes:    app.syncNotes,
		OnDeviceChange: app.selectDevice,
		OnQuit:         app.shutdown,
	})

	go app.handleSignals()

	// Blocks until the tray quits.
	app.trayMgr.Run()
	app.logger.Info("kiri-daemon stopped")
}

// onTrayReady starts the remaining subsystems once the tray is up.
func (a *App) onTrayReady() {
	a.refreshDeviceMenu()
	a.startServer()
	a.registerHotkey()

	if a.config.WakeWord {
		go a.wakeLoop()
	}
}

func (a *App) handleSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	a.shutdown()
	a.trayMgr.Quit()
}

func (a *App) shutdown() {
	a.cancel()
	a.recorder.Stop()
	if a.hotkeyMgr != nil {
		if err := a.hotkeyMgr.Close(); err != nil {
			a.logger.Warn("hotkey close: %v", err)
		}
	}
	if a.httpServer != nil {
		if err := a.httpServer.Stop(); err != nil {
			a.logger.Warn("server stop: %v", err)
		}
	}
}

func (a *App) fatal(format string, v ...any) {
	a.logger.Error(format, v...)
	fmt.Fprintf(os.Stderr, "kiri-daemon: "+format+"\n", v...)
	os.Exit(1)
}

// setState updates the shared daemon state and the tray.
func (a *App) setState(state tray.State) {
	a.mu.Lock()
	a.state = state
	a.mu.Unlock()
	a.trayMgr.SetState(state)
}

func (a *App) getState() tray.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// registerHotkey binds the configured key combination.
func (a *App) registerHotkey() {
	hkCfg, err := hotkey.FromSettings(
		a.config.Hotkey.Ctrl, a.config.Hotkey.Shift, a.config.Hotkey.Alt,
		a.config.Hotkey.Key, a.config.RecordingMode)
	if err != nil {
		a.logger.Error("hotkey config: %v", err)
		a.notifier.Error("Invalid hotkey configuration: " + err.Error())
		return
	}

	a.hotkeyMgr = hotkey.New()
	if err := a.hotkeyMgr.Register(hkCfg); err != nil {
		a.logger.Error("hotkey register: %v", err)
		a.notifier.Error("Could not register global hotkey: " + err.Error())
		return
	}
	a.logger.Info("hotkey registered: %s (%s)",
		hotkey.Format(a.config.Hotkey.Ctrl, a.config.Hotkey.Shift, a.config.Hotkey.Alt, a.config.Hotkey.Key),
		a.config.RecordingMode)

	go func() {
		for ev := range a.hotkeyMgr.Events() {
			switch ev.Type {
			case hotkey.Pressed:
				a.toggleRecording()
			case hotkey.Released:
				a.recorder.Stop()
			}
		}
	}()
}

// toggleRecording starts a capture, or stops one already running.
func (a *App) toggleRecording() {
	switch a.getState() {
	case tray.StateRecording:
		a.recorder.Stop()
	case tray.StateIdle:
		go a.record()
	}
	// A transcription in flight ignores further presses.
}

// record captures until silence (or hotkey release), transcribes and
// delivers the text. Runs in its own goroutine.
func (a *App) record() {
	a.setState(tray.StateRecording)
	defer a.setState(tray.StateIdle)

	a.notifier.RecordingStarted()
	a.logger.Info("recording started")

	samples, err := a.recorder.RecordUntilSilence(a.ctx)
	if err != nil {
		a.logger.Error("recording: %v", err)
		a.notifier.RecordingFailed(err.Error())
		return
	}
	a.notifier.RecordingStopped()

	if len(samples) < audio.WhisperRate {
		a.logger.Info("capture too short (%d samples), skipping", len(samples))
		return
	}

	a.setState(tray.StateProcessing)
	a.logger.Info("transcribing %.1fs of audio", float64(len(samples))/audio.WhisperRate)

	text, err := a.transcriber.Transcribe(a.ctx, samples, a.config.Language)
	if err != nil {
		a.logger.Error("transcription: %v", err)
		a.notifier.TranscriptionFailed(err.Error())
		return
	}
	if text == "" {
		a.logger.Info("no speech recognized")
		return
	}

	a.deliver(text)
}

// deliver types the transcript into the focused window and appends it
// to the daily note.
func (a *App) deliver(text string) {
	if err := output.TypeText(text); err != nil {
		a.logger.Warn("type text: %v, falling back to clipboard", err)
		if err := output.CopyToClipboard(text); err != nil {
			a.logger.Error("clipboard: %v", err)
			a.notifier.Error("Could not deliver transcript: " + err.Error())
			return
		}
	}

	notesDir, err := config.ExpandPath(a.config.NotesDir)
	if err == nil {
		if _, err := output.SaveToNotes(notesDir, "", text); err != nil {
			a.logger.Warn("save notes: %v", err)
		}
	}

	a.notifier.TranscriptionComplete(text)
	a.logger.Info("delivered %d characters", len(text))
}

// wakeLoop alternates between wake-word listening and recording. The
// listener owns the capture stream, so it is torn down before each
// recording and restarted after.
func (a *App) wakeLoop() {
	cfg := wakeword.DefaultConfig()
	cfg.Phrases = a.config.WakePhrases
	cfg.Language = a.config.Language
	detector := wakeword.NewDetector(cfg, a.recorder, a.transcriber)

	a.logger.Info("wake word listener started (%d phrases)", len(cfg.Phrases))

	for a.ctx.Err() == nil {
		if a.getState() != tray.StateIdle {
			time.Sleep(500 * time.Millisecond)
			continue
		}

		listenCtx, cancel := context.WithCancel(a.ctx)
		woke := ""
		err := detector.Listen(listenCtx, func(phrase string) {
			woke = phrase
			cancel()
		})
		cancel()

		if woke != "" {
			a.logger.Info("wake phrase %q detected", woke)
			a.record()
			continue
		}
		if err != nil && a.ctx.Err() == nil {
			a.logger.Warn("wake listener: %v, retrying", err)
			time.Sleep(2 * time.Second)
		}
	}
}

// startServer exposes the status API on localhost.
func (a *App) startServer() {
	serverCfg := server.DefaultConfig()
	serverCfg.Port = a.config.ServerPort
	serverCfg.Status = func() server.Status {
		return server.Status{
			State:   a.getState().String(),
			Level:   a.recorder.Level(),
			Version: version,
		}
	}
	serverCfg.Devices = func() ([]audio.Device, error) {
		devices, _, err := audio.InputDevices()
		return devices, err
	}
	serverCfg.GetConfig = func() any {
		a.mu.Lock()
		defer a.mu.Unlock()
		cfg := *a.config
		return cfg
	}
	serverCfg.SetConfig = a.updateConfig

	a.httpServer = server.New(serverCfg)
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("server start: %v", err)
		return
	}
	a.logger.Info("status API on %s", a.httpServer.URL())
}

// updateConfig applies a JSON config update from the API and persists
// it.
func (a *App) updateConfig(body []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	updated := *a.config
	if err := json.Unmarshal(body, &updated); err != nil {
		return fmt.Errorf("parse config update: %w", err)
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	if err := updated.Save(config.Path()); err != nil {
		return err
	}
	*a.config = updated
	a.logger.Info("config updated via API")
	return nil
}

// refreshDeviceMenu fills the tray's device submenu.
func (a *App) refreshDeviceMenu() {
	devices, defaultIndex, err := audio.InputDevices()
	if err != nil {
		a.logger.Warn("device enumeration: %v", err)
		return
	}

	items := make([]tray.Device, 0, len(devices))
	for _, d := range devices {
		items = append(items, tray.Device{
			ID:        d.Index,
			Name:      d.Name,
			IsDefault: d.Index == defaultIndex,
			IsCurrent: a.config.AudioDevice != "" && d.Name == a.config.AudioDevice,
		})
	}
	a.trayMgr.UpdateDeviceMenu(items)
}

// selectDevice pins the device chosen from the tray menu.
func (a *App) selectDevice(deviceID int) {
	devices, _, err := audio.InputDevices()
	if err != nil {
		a.logger.Warn("device enumeration: %v", err)
		return
	}
	for _, d := range devices {
		if d.Index == deviceID {
			a.mu.Lock()
			a.config.AudioDevice = d.Name
			a.mu.Unlock()
			if err := a.config.Save(config.Path()); err != nil {
				a.logger.Warn("save config: %v", err)
			}
			a.logger.Info("input device set to %q", d.Name)
			a.refreshDeviceMenu()
			return
		}
	}
}

func (a *App) openNotes() {
	notesDir, err := config.ExpandPath(a.config.NotesDir)
	if err != nil {
		a.logger.Warn("notes dir: %v", err)
		return
	}
	if err := exec.Command("xdg-open", notesDir).Start(); err != nil {
		a.logger.Warn("open notes: %v", err)
	}
}

func (a *App) syncNotes() {
	go func() {
		notesDir, err := config.ExpandPath(a.config.NotesDir)
		if err != nil {
			a.logger.Warn("notes dir: %v", err)
			return
		}
		if _, err := gitsync.Commit(notesDir, ""); err != nil {
			a.logger.Warn("notes commit: %v", err)
			a.notifier.Error("Notes sync failed")
			return
		}
		if err := gitsync.Push(notesDir); err != nil {
			a.logger.Warn("notes push: %v", err)
			a.notifier.Error("Notes sync failed")
			return
		}
		a.notifier.Info("Notes synced")
	}()
}
