package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first len(data)/2 bins of the
// series' Fourier transform. The mean is removed first so bin 0 only holds
// what is left after centering.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest bin above DC for
// a series sampled at sampleRate, along with that bin's magnitude.
func DominantFrequency(data []float64, sampleRate float64) (float64, float64) {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0, 0
	}
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) * sampleRate / float64(len(data)), ps[best]
}
