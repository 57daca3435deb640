// SPDX-License-Identifier: MIT
package fir

import (
	"fmt"
	"math"
	"strings"
)

// MaxNumTaps is the largest tap count a filter may be designed with.
const MaxNumTaps = 1000

// Kind selects the ideal frequency response a filter approximates.
type Kind int

const (
	LowPass Kind = iota
	HighPass
	BandPass
)

// String returns the short name used in descriptions and config files.
func (k Kind) String() string {
	switch k {
	case LowPass:
		return "LPF"
	case HighPass:
		return "HPF"
	case BandPass:
		return "BPF"
	default:
		return "UNKNOWN"
	}
}

// ParseKind converts a name (case-insensitive) to a Kind. Accepted forms
// are the short names ("lpf"), the long names ("lowpass") and the hyphenated
// long names ("low-pass").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lpf", "lowpass", "low-pass":
		return LowPass, nil
	case "hpf", "highpass", "high-pass":
		return HighPass, nil
	case "bpf", "bandpass", "band-pass":
		return BandPass, nil
	default:
		return 0, fmt.Errorf("%w: unknown filter type %q", ErrInvalidParameter, s)
	}
}

func (k Kind) valid() bool {
	return k == LowPass || k == HighPass || k == BandPass
}

// Spec holds the design parameters of a filter.
type Spec struct {
	Kind       Kind
	NumTaps    int
	SampleRate float64 // Fs, in Hz
	F0         float64 // LPF/HPF cutoff, or BPF lower edge, in Hz
	F1         float64 // BPF upper edge in Hz; zero for LPF/HPF
}

// Validate reports the first constraint s violates. The checks run
// in a fixed order so that a spec with several problems always yields the
// same message. Every comparison is phrased so that NaN fails it, and an
// infinite Fs is rejected because it collapses every tap to zero.
func (s Spec) Validate() error {
	nyquist := s.SampleRate / 2
	bandEdge := s.F1 != 0

	switch {
	case !(s.SampleRate > 0) || math.IsInf(s.SampleRate, 1):
		return fmt.Errorf("%w: Fs must be > 0", ErrInvalidParameter)
	case bandEdge && !(s.F0 < s.F1):
		return fmt.Errorf("%w: F0 must be < F1", ErrInvalidParameter)
	case !(s.F0 > 0):
		return fmt.Errorf("%w: F0 must be > 0", ErrInvalidParameter)
	case !(s.F0 < nyquist):
		return fmt.Errorf("%w: F0 must be < Fs/2", ErrInvalidParameter)
	case bandEdge && !(s.F1 > 0):
		return fmt.Errorf("%w: F1 must be 0.0 (LPF/HPF), or > 0 for BPF", ErrInvalidParameter)
	case bandEdge && !(s.F1 < nyquist):
		return fmt.Errorf("%w: F1 must be < Fs/2", ErrInvalidParameter)
	case s.NumTaps <= 0 || s.NumTaps > MaxNumTaps:
		return fmt.Errorf("%w: 0 < num_taps <= %d", ErrInvalidParameter, MaxNumTaps)
	case !s.Kind.valid():
		return fmt.Errorf("%w: valid filter types are {LPF, HPF, BPF}", ErrInvalidParameter)
	}

	return nil
}

// lambda is the angular cutoff of F0 normalised to the Nyquist frequency.
func (s Spec) lambda() float64 {
	return math.Pi * s.F0 / (s.SampleRate / 2)
}

// phi is the angular cutoff of F1 normalised to the Nyquist frequency.
func (s Spec) phi() float64 {
	return math.Pi * s.F1 / (s.SampleRate / 2)
}
