// SPDX-License-Identifier: MIT
/*
Package fir designs and runs linear-phase FIR filters using the
Fourier-series method:
- Low-pass, high-pass and band-pass designs from cutoff frequencies
- Rectangular truncation only (no window applied to the taps)
- Per-sample streaming through a fixed-length shift register

Thread Safety:
- A Filter owns its shift register and is not safe for concurrent use
- Independent Filters share nothing and can run on separate goroutines
- Taps and gain never change after New returns
*/
package fir

import (
	"strconv"
	"strings"
)

type Filter struct {
	spec Spec

	// Design output, immutable after New.
	taps     []float64
	gain     float64
	invGain  float64
	register []float64 // Ring of the last len(taps) inputs
	head     int       // Index of the most recent sample in register
}

// New designs a filter. f1 is the band-pass upper edge and must be zero for
// LowPass and HighPass. All parameter errors wrap ErrInvalidParameter and no
// Filter is returned with them.
//
// Process output is always normalised by the gain (the sum of the taps), so
// a low-pass filter passes DC with unity gain.
func New(kind Kind, numTaps int, fs, f0, f1 float64) (*Filter, error) {
	return NewFromSpec(Spec{
		Kind:       kind,
		NumTaps:    numTaps,
		SampleRate: fs,
		F0:         f0,
		F1:         f1,
	})
}

// NewLowPass designs a low-pass filter with cutoff f0.
func NewLowPass(numTaps int, fs, f0 float64) (*Filter, error) {
	return New(LowPass, numTaps, fs, f0, 0)
}

// NewHighPass designs a high-pass filter with cutoff f0.
func NewHighPass(numTaps int, fs, f0 float64) (*Filter, error) {
	return New(HighPass, numTaps, fs, f0, 0)
}

// NewBandPass designs a band-pass filter passing f0 to f1.
func NewBandPass(numTaps int, fs, f0, f1 float64) (*Filter, error) {
	return New(BandPass, numTaps, fs, f0, f1)
}

// NewFromSpec is New with the parameters gathered into a Spec.
func NewFromSpec(spec Spec) (*Filter, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	taps := design(spec)
	gain := sum(taps)

	return &Filter{
		spec:     spec,
		taps:     taps,
		gain:     gain,
		invGain:  1 / gain,
		register: make([]float64, spec.NumTaps),
	}, nil
}

// Process pushes one sample into the shift register, dropping the oldest,
// and returns the gain-normalised convolution of the register with the
// taps. taps[0] weights the most recent sample.
//
// Performance Critical (Hot Path):
// - No allocations
// - No error path
func (f *Filter) Process(sample float64) float64 {
	n := len(f.register)
	f.head--
	if f.head < 0 {
		f.head = n - 1
	}
	f.register[f.head] = sample

	// Walk the ring from newest to oldest in two straight runs so that the
	// accumulation order is taps[0], taps[1], ... without a modulo per tap.
	var acc float64
	split := n - f.head
	for i, x := range f.register[f.head:] {
		acc += x * f.taps[i]
	}
	for i, x := range f.register[:f.head] {
		acc += x * f.taps[split+i]
	}

	return acc * f.invGain
}

// ProcessBlock runs Process over src in order, appending the outputs to dst.
func (f *Filter) ProcessBlock(dst, src []float64) []float64 {
	for _, x := range src {
		dst = append(dst, f.Process(x))
	}
	return dst
}

// Reset zero-fills the shift register. Taps and gain are unchanged.
func (f *Filter) Reset() {
	clear(f.register)
	f.head = 0
}

// Taps returns a copy of the tap coefficients.
func (f *Filter) Taps() []float64 {
	taps := make([]float64, len(f.taps))
	copy(taps, f.taps)
	return taps
}

// Gain returns the sum of the taps, the filter's response at DC.
func (f *Filter) Gain() float64 {
	return f.gain
}

// Spec returns the parameters the filter was designed with.
func (f *Filter) Spec() Spec {
	return f.spec
}

// Samples returns the shift register contents, most recent first.
func (f *Filter) Samples() []float64 {
	out := make([]float64, 0, len(f.register))
	out = append(out, f.register[f.head:]...)
	return append(out, f.register[:f.head]...)
}

// String describes the filter on three lines: kind and frequencies with the
// gain and tap count, then the taps, then the register (most recent first).
func (f *Filter) String() string {
	var b strings.Builder

	b.WriteString(f.spec.Kind.String())
	b.WriteString(" Fs: ")
	b.WriteString(formatG(f.spec.SampleRate))
	if f.spec.Kind == BandPass {
		b.WriteString(" Fl: ")
		b.WriteString(formatG(f.spec.F0))
		b.WriteString(" Fh: ")
		b.WriteString(formatG(f.spec.F1))
	} else {
		b.WriteString(" Fc: ")
		b.WriteString(formatG(f.spec.F0))
	}
	b.WriteString(" gain: ")
	b.WriteString(formatG(f.gain))
	b.WriteString(" ntaps: ")
	b.WriteString(strconv.Itoa(len(f.taps)))
	b.WriteString("\n\ttaps: ")
	writeList(&b, f.taps)
	b.WriteString("\n\tSamples: ")
	writeList(&b, f.Samples())

	return b.String()
}

func writeList(b *strings.Builder, xs []float64) {
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatG(x))
	}
}

// formatG prints x with six significant digits, trailing zeros dropped.
func formatG(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}
