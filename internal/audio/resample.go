package audio

import (
	"errors"
	"fmt"
	"math"
)

// ErrResample indicates the resampler produced non-finite samples. The
// capture that caused it should be discarded.
var ErrResample = errors.New("resampler produced non-finite output")

// Resample converts samples from fromRate to toRate using polyphase
// rational resampling with a windowed-sinc anti-aliasing filter. The
// output length is ceil(len(samples) * toRate / fromRate). Identical
// input always yields bit-identical output.
func Resample(samples []float32, fromRate, toRate int) ([]float32, error) {
	if fromRate <= 0 || toRate <= 0 {
		return nil, fmt.Errorf("invalid sample rates: %d -> %d", fromRate, toRate)
	}
	if len(samples) == 0 {
		return []float32{}, nil
	}
	if fromRate == toRate {
		out := make([]float32, len(samples))
		copy(out, samples)
		return out, nil
	}

	g := gcd(fromRate, toRate)
	up := toRate / g
	down := fromRate / g

	h := lowpassFIR(up, down)
	center := len(h) / 2

	outLen := (len(samples)*up + down - 1) / down
	out := make([]float32, outLen)

	// The input, zero-stuffed by factor up, convolved with h and decimated
	// by factor down. Only the non-zero taps are visited: input sample n
	// sits at position n*up on the upsampled grid.
	for m := range out {
		j := m*down + center
		nMin := (j - len(h) + 1 + up - 1) / up
		if nMin < 0 {
			nMin = 0
		}
		nMax := j / up
		if nMax > len(samples)-1 {
			nMax = len(samples) - 1
		}
		var acc float64
		for n := nMin; n <= nMax; n++ {
			acc += h[j-n*up] * float64(samples[n])
		}
		out[m] = float32(acc)
	}

	for _, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, ErrResample
		}
	}
	return out, nil
}

// lowpassFIR designs the anti-aliasing filter for an up/down conversion:
// a Hamming-windowed sinc with cutoff at the tighter of the two Nyquist
// limits, scaled by up to preserve amplitude through zero-stuffing.
func lowpassFIR(up, down int) []float64 {
	maxRate := up
	if down > maxRate {
		maxRate = down
	}
	half := 10 * maxRate
	n := 2*half + 1
	fc := 1.0 / float64(2*maxRate)

	h := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i - half)
		var s float64
		if t == 0 {
			s = 2 * fc
		} else {
			s = math.Sin(2*math.Pi*fc*t) / (math.Pi * t)
		}
		w := 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		h[i] = s * w * float64(up)
	}
	return h
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
