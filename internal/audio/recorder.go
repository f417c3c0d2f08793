package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"
)

// session holds the transient state of one open recording: the owned
// audio blocks, the live signal level, and the monotonic stop flag. A
// fresh session is created for every recording call.
type session struct {
	mu     sync.Mutex
	blocks [][]int16

	level atomic.Uint64 // float64 bits; advisory, display-only

	stop     chan struct{}
	stopOnce sync.Once
}

func newSession() *session {
	return &session{stop: make(chan struct{})}
}

// append takes ownership of block. Callers must pass a private copy; the
// capture driver reuses its delivery buffer after the callback returns.
func (s *session) append(block []int16) {
	s.mu.Lock()
	s.blocks = append(s.blocks, block)
	s.mu.Unlock()
}

func (s *session) takeBlocks() [][]int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocks := s.blocks
	s.blocks = nil
	return blocks
}

func (s *session) setLevel(level float64) {
	s.level.Store(math.Float64bits(level))
}

func (s *session) getLevel() float64 {
	return math.Float64frombits(s.level.Load())
}

// signalStop raises the stop flag. Once set it is never cleared; extra
// calls are no-ops.
func (s *session) signalStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Recorder records from the microphone and produces mono float32
// waveforms at WhisperRate. One recording at a time.
type Recorder struct {
	cfg Config

	mu      sync.Mutex
	session *session
}

// NewRecorder initializes the audio subsystem and returns a recorder.
// Call Close when done.
func NewRecorder(cfg Config) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	return &Recorder{cfg: cfg}, nil
}

// Close releases the audio subsystem.
func (r *Recorder) Close() error {
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminate portaudio: %w", err)
	}
	return nil
}

// RecordFixed records for up to d, or until ctx is cancelled or Stop is
// called, and returns the finalized waveform.
func (r *Recorder) RecordFixed(ctx context.Context, d time.Duration) ([]float32, error) {
	return r.record(ctx, d, nil)
}

// RecordUntilSilence records until trailing silence is detected after
// speech (see EndpointDetector). The configured hard cap, ctx
// cancellation and Stop also end the capture.
func (r *Recorder) RecordUntilSilence(ctx context.Context) ([]float32, error) {
	return r.record(ctx, r.cfg.MaxDuration, NewEndpointDetector(r.cfg.Detector))
}

// Level returns the most recent block's normalized RMS amplitude, for
// level meters. Zero when nothing is recording.
func (r *Recorder) Level() float64 {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s == nil {
		return 0
	}
	return s.getLevel()
}

// Stop asks the active recording to finish early. Whatever was buffered
// so far is finalized normally. Safe to call when nothing is recording.
func (r *Recorder) Stop() {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()
	if s != nil {
		s.signalStop()
	}
}

// Recording reports whether a capture session is currently open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

func (r *Recorder) record(ctx context.Context, limit time.Duration, det *EndpointDetector) ([]float32, error) {
	r.mu.Lock()
	if r.session != nil {
		r.mu.Unlock()
		return nil, fmt.Errorf("recording already in progress")
	}
	s := newSession()
	r.session = s
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.session = nil
		r.mu.Unlock()
	}()

	device, err := findInputDevice(r.cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	stream, err := r.openStream(device, func(in []int16) {
		block := make([]int16, len(in))
		copy(block, in)
		s.append(block)

		level := rmsLevel(block)
		s.setLevel(level)

		if det != nil && det.Observe(level, time.Now()) {
			s.signalStop()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start capture stream: %w", err)
	}

	select {
	case <-s.stop:
	case <-ctx.Done():
	case <-time.After(limit):
	}

	if err := stream.Stop(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("stop capture stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("close capture stream: %w", err)
	}

	// The stream is closed: no callback can race with this read.
	return Finalize(s.takeBlocks(), r.cfg.Channels, r.cfg.SampleRate, WhisperRate)
}

func (r *Recorder) openStream(device *portaudio.DeviceInfo, callback func([]int16)) (*portaudio.Stream, error) {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: r.cfg.Channels,
			Latency:  device.DefaultHighInputLatency,
		},
		SampleRate:      float64(r.cfg.SampleRate),
		FramesPerBuffer: r.cfg.FramesPerBuffer,
	}
	return portaudio.OpenStream(params, callback)
}

// Finalize concatenates captured blocks in arrival order into the final
// mono waveform at toRate. Multi-channel input keeps channel 0 only.
// Zero blocks yield an empty waveform, not an error.
func Finalize(blocks [][]int16, channels, fromRate, toRate int) ([]float32, error) {
	if len(blocks) == 0 {
		return []float32{}, nil
	}
	if channels < 1 {
		channels = 1
	}

	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	mono := make([]float32, 0, total/channels)
	for _, b := range blocks {
		for i := 0; i < len(b); i += channels {
			mono = append(mono, float32(b[i])/32768.0)
		}
	}
	return Resample(mono, fromRate, toRate)
}

// rmsLevel computes a block's root-mean-square amplitude normalized by
// the maximum 16-bit magnitude.
func rmsLevel(block []int16) float64 {
	if len(block) == 0 {
		return 0
	}
	var sum float64
	for _, v := range block {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum/float64(len(block))) / 32768.0
}
