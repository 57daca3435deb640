// SPDX-License-Identifier: MIT
//
// Package testsignal generates deterministic signals for exercising filters:
// pure tones, a tone buried under an interfering tone, and unit impulses.
package testsignal

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sine returns size samples of amplitude*sin(2*pi*frequency*t).
func Sine(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// Noisy returns a unit-amplitude tone at signalFreq with a second tone at
// noiseFreq and noiseAmplitude added on top. A low-pass filter between the
// two frequencies should recover the first tone.
func Noisy(size int, sampleRate, signalFreq, noiseFreq, noiseAmplitude float64) []float64 {
	buffer := Sine(size, sampleRate, signalFreq, 1)
	floats.Add(buffer, Sine(size, sampleRate, noiseFreq, noiseAmplitude))
	return buffer
}

// Impulse returns size samples that are zero except for a 1 at pos.
func Impulse(size, pos int) []float64 {
	buffer := make([]float64, size)
	if pos >= 0 && pos < size {
		buffer[pos] = 1
	}
	return buffer
}

// RMS returns the root-mean-square level of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
}

// PeakIndex returns the index of the largest value in x[start:end+1]. The
// range is clamped to the slice; an empty range yields -1.
func PeakIndex(x []float64, start, end int) int {
	if start < 0 {
		start = 0
	}
	if end >= len(x) {
		end = len(x) - 1
	}
	if start > end {
		return -1
	}

	peak := start
	for i := start + 1; i <= end; i++ {
		if x[i] > x[peak] {
			peak = i
		}
	}

	return peak
}
