// SPDX-License-Identifier: MIT
package fir

import "math"

// kernel computes the tap at centred offset mm, given the normalised band
// edges lambda (F0) and phi (F1). mm == 0 is the removable singularity of
// sin(x)/x and is evaluated via its limit.
type kernel func(mm, lambda, phi float64) float64

func kernelFor(k Kind) kernel {
	switch k {
	case LowPass:
		return lowPassTap
	case HighPass:
		return highPassTap
	case BandPass:
		return bandPassTap
	default:
		return nil
	}
}

func lowPassTap(mm, lambda, _ float64) float64 {
	if mm == 0 {
		return lambda / math.Pi
	}
	return math.Sin(mm*lambda) / (mm * math.Pi)
}

func highPassTap(mm, lambda, _ float64) float64 {
	if mm == 0 {
		return 1.0 - lambda/math.Pi
	}
	return -math.Sin(mm*lambda) / (mm * math.Pi)
}

func bandPassTap(mm, lambda, phi float64) float64 {
	if mm == 0 {
		return (phi - lambda) / math.Pi
	}
	return (math.Sin(mm*phi) - math.Sin(mm*lambda)) / (mm * math.Pi)
}

// design synthesises the truncated Fourier series of the ideal response
// described by s. s must already be valid.
func design(s Spec) []float64 {
	tap := kernelFor(s.Kind)
	lambda, phi := s.lambda(), s.phi()
	centre := (float64(s.NumTaps) - 1.0) / 2.0

	taps := make([]float64, s.NumTaps)
	for n := range taps {
		taps[n] = tap(float64(n)-centre, lambda, phi)
	}
	return taps
}

// sum adds xs in index order with Neumaier compensation.
func sum(xs []float64) float64 {
	var total, comp float64
	for _, x := range xs {
		t := total + x
		if math.Abs(total) >= math.Abs(x) {
			comp += (total - t) + x
		} else {
			comp += (x - t) + total
		}
		total = t
	}
	return total + comp
}
