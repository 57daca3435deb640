// SPDX-License-Identifier: MIT
package fir

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

const (
	// ResponsePoints is the number of frequencies in a response dump,
	// spaced evenly from DC to Nyquist inclusive.
	ResponsePoints = 1000

	// ResponseFloorDB is the lowest level reported in a response dump.
	ResponseFloorDB = -100.0

	// responseFFTSize places bin k of a real FFT at k*pi/(ResponsePoints-1).
	responseFFTSize = 2 * (ResponsePoints - 1)
)

// ResponsePoint is one line of a frequency-response dump.
type ResponsePoint struct {
	Frequency   float64 // Hz
	MagnitudeDB float64 // dB relative to the peak, floored at ResponseFloorDB
}

// WriteTaps writes the tap count followed by one tap per line.
func (f *Filter) WriteTaps(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(f.taps))
	for _, t := range f.taps {
		fmt.Fprintf(bw, "%15.6f\n", t)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteTapsFile writes the tap dump to path, replacing any existing file.
func (f *Filter) WriteTapsFile(path string) error {
	return writeFile(path, f.WriteTaps)
}

// FrequencyResponse returns the filter's magnitude response.
func (f *Filter) FrequencyResponse() ([]ResponsePoint, error) {
	return FrequencyResponse(f.taps, f.spec.SampleRate)
}

// WriteFrequencyResponse writes one "frequency magnitude" line per response
// point. Nothing is written if the response is degenerate.
func (f *Filter) WriteFrequencyResponse(w io.Writer) error {
	points, err := f.FrequencyResponse()
	if err != nil {
		return err
	}
	return writeResponse(w, points)
}

// WriteFrequencyResponseFile writes the response dump to path. The response
// is computed before the file is created, so a degenerate filter leaves the
// filesystem untouched.
func (f *Filter) WriteFrequencyResponseFile(path string) error {
	points, err := f.FrequencyResponse()
	if err != nil {
		return err
	}
	return writeFile(path, func(w io.Writer) error {
		return writeResponse(w, points)
	})
}

// FrequencyResponse evaluates the magnitude of the DTFT of taps at
// ResponsePoints frequencies from 0 to fs/2.
//
// The DTFT sampled at 2*pi*k/N equals the N-point DFT of the taps folded
// modulo N, so one real FFT of length responseFFTSize gives every point
// exactly, whatever the tap count.
func FrequencyResponse(taps []float64, fs float64) ([]ResponsePoint, error) {
	seq := make([]float64, responseFFTSize)
	for k, t := range taps {
		seq[k%responseFFTSize] += t
	}

	coeffs := fourier.NewFFT(responseFFTSize).Coefficients(nil, seq)

	mags := make([]float64, ResponsePoints)
	for i := range mags {
		c := coeffs[i]
		mags[i] = math.Hypot(real(c), imag(c))
	}

	peak := floats.Max(mags)
	if !(peak > 0) {
		return nil, fmt.Errorf("%w: invalid peak magnitude: %g", ErrDegenerateResponse, peak)
	}

	dw := math.Pi / (ResponsePoints - 1.0)
	points := make([]ResponsePoint, ResponsePoints)
	for i, m := range mags {
		db := ResponseFloorDB
		if m != 0 {
			db = math.Max(20*math.Log10(m/peak), ResponseFloorDB)
		}
		points[i] = ResponsePoint{
			Frequency:   float64(i) * dw * (fs / 2) / math.Pi,
			MagnitudeDB: db,
		}
	}

	return points, nil
}

func writeResponse(w io.Writer, points []ResponsePoint) error {
	bw := bufio.NewWriter(w)
	for _, p := range points {
		fmt.Fprintf(bw, "%.10f %.10f\n", p.Frequency, p.MagnitudeDB)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
