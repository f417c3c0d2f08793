package audio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// Stream is a continuously running capture. Audio accumulates in an
// internal buffer; read it with Snapshot and drop it with Clear. Used by
// the wake-word loop, which inspects the last stride of audio at a time.
type Stream struct {
	pa       *portaudio.Stream
	channels int

	mu     sync.Mutex
	blocks [][]int16
	level  atomic.Uint64
}

// OpenStream starts a continuous capture on the configured device.
func (r *Recorder) OpenStream() (*Stream, error) {
	device, err := findInputDevice(r.cfg.DeviceName)
	if err != nil {
		return nil, err
	}

	st := &Stream{channels: r.cfg.Channels}
	pa, err := r.openStream(device, func(in []int16) {
		block := make([]int16, len(in))
		copy(block, in)
		st.mu.Lock()
		st.blocks = append(st.blocks, block)
		st.mu.Unlock()
		st.level.Store(math.Float64bits(rmsLevel(block)))
	})
	if err != nil {
		return nil, fmt.Errorf("open capture stream: %w", err)
	}
	if err := pa.Start(); err != nil {
		pa.Close()
		return nil, fmt.Errorf("start capture stream: %w", err)
	}
	st.pa = pa
	return st, nil
}

// Snapshot returns a copy of all audio buffered so far as normalized
// mono samples at the native rate.
func (st *Stream) Snapshot() []float32 {
	st.mu.Lock()
	defer st.mu.Unlock()

	channels := st.channels
	if channels < 1 {
		channels = 1
	}
	var out []float32
	for _, b := range st.blocks {
		for i := 0; i < len(b); i += channels {
			out = append(out, float32(b[i])/32768.0)
		}
	}
	return out
}

// Clear drops the buffered audio, e.g. after a snapshot was consumed.
func (st *Stream) Clear() {
	st.mu.Lock()
	st.blocks = nil
	st.mu.Unlock()
}

// Level returns the most recent block's normalized RMS amplitude.
func (st *Stream) Level() float64 {
	return math.Float64frombits(st.level.Load())
}

// Close stops the capture and releases the stream.
func (st *Stream) Close() error {
	if st.pa == nil {
		return nil
	}
	if err := st.pa.Stop(); err != nil {
		st.pa.Close()
		return fmt.Errorf("stop capture stream: %w", err)
	}
	if err := st.pa.Close(); err != nil {
		return fmt.Errorf("close capture stream: %w", err)
	}
	st.pa = nil
	return nil
}
