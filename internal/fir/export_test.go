// SPDX-License-Identifier: MIT
package fir

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"firfilt/pkg/testsignal"
)

func TestWriteTaps(t *testing.T) {
	f := mustNew(t, LowPass, 11, 1000, 10, 0)

	var buf bytes.Buffer
	if err := f.WriteTaps(&buf); err != nil {
		t.Fatalf("WriteTaps() error = %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	if lines[0] != "11" {
		t.Errorf("first line = %q, want %q", lines[0], "11")
	}

	taps := f.Taps()
	for i, line := range lines[1:] {
		if len(line) != 15 {
			t.Errorf("line %d = %q has width %d, want 15", i+1, line, len(line))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil {
			t.Fatalf("line %d: %v", i+1, err)
		}
		if math.Abs(v-taps[i]) > 5e-7 {
			t.Errorf("line %d = %v, want %v", i+1, v, taps[i])
		}
		if dot := strings.IndexByte(line, '.'); len(line)-dot-1 != 6 {
			t.Errorf("line %d = %q, want 6 decimals", i+1, line)
		}
	}
}

func TestWriteTapsFile(t *testing.T) {
	f := mustNew(t, HighPass, 5, 1000, 100, 0)
	path := filepath.Join(t.TempDir(), "taps.txt")

	if err := f.WriteTapsFile(path); err != nil {
		t.Fatalf("WriteTapsFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "5\n") {
		t.Errorf("file starts with %q, want tap count", data[:min(len(data), 8)])
	}
}

func TestWriteTapsFileIOFailure(t *testing.T) {
	f := mustNew(t, LowPass, 11, 1000, 10, 0)
	path := filepath.Join(t.TempDir(), "missing", "taps.txt")

	if err := f.WriteTapsFile(path); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTapsWriterFailure(t *testing.T) {
	f := mustNew(t, LowPass, 11, 1000, 10, 0)
	if err := f.WriteTaps(failingWriter{}); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestFrequencyResponseShape(t *testing.T) {
	const fs = 1000.0
	f := mustNew(t, LowPass, 51, fs, 50, 0)

	points, err := f.FrequencyResponse()
	if err != nil {
		t.Fatalf("FrequencyResponse() error = %v", err)
	}
	if len(points) != ResponsePoints {
		t.Fatalf("got %d points, want %d", len(points), ResponsePoints)
	}

	if points[0].Frequency != 0 {
		t.Errorf("first frequency = %v, want 0", points[0].Frequency)
	}
	if last := points[len(points)-1].Frequency; math.Abs(last-fs/2) > 1e-9 {
		t.Errorf("last frequency = %v, want %v", last, fs/2)
	}

	peak := math.Inf(-1)
	for i, p := range points {
		if p.MagnitudeDB > 1e-9 || p.MagnitudeDB < ResponseFloorDB {
			t.Fatalf("point %d magnitude %v outside [%v, 0]", i, p.MagnitudeDB, ResponseFloorDB)
		}
		peak = math.Max(peak, p.MagnitudeDB)
	}
	if math.Abs(peak) > 1e-9 {
		t.Errorf("peak = %v dB, want 0", peak)
	}

	// Well inside the stopband the low-pass must be attenuated.
	if db := points[800].MagnitudeDB; db > -20 {
		t.Errorf("response at %.1f Hz = %.2f dB, want < -20", points[800].Frequency, db)
	}
}

func TestFrequencyResponseBandPassPeak(t *testing.T) {
	const f0, f1 = 100.0, 200.0
	f := mustNew(t, BandPass, 101, 1000, f0, f1)

	points, err := f.FrequencyResponse()
	if err != nil {
		t.Fatalf("FrequencyResponse() error = %v", err)
	}
	magnitudes := make([]float64, len(points))
	for i, p := range points {
		magnitudes[i] = p.MagnitudeDB
	}

	peak := points[testsignal.PeakIndex(magnitudes, 0, len(magnitudes)-1)]
	if peak.Frequency <= f0 || peak.Frequency >= f1 {
		t.Errorf("peak at %.2f Hz, want inside (%v, %v)", peak.Frequency, f0, f1)
	}
	if math.Abs(peak.MagnitudeDB) > 1e-9 {
		t.Errorf("peak magnitude = %v dB, want 0", peak.MagnitudeDB)
	}
}

// The FFT evaluation must agree with a direct DTFT sum at every point.
func TestFrequencyResponseMatchesDirectDTFT(t *testing.T) {
	for _, numTaps := range []int{11, 51, MaxNumTaps} {
		f := mustNew(t, BandPass, numTaps, 1000, 100, 200)
		taps := f.Taps()

		points, err := f.FrequencyResponse()
		if err != nil {
			t.Fatal(err)
		}

		mags := make([]float64, ResponsePoints)
		var peak float64
		dw := math.Pi / (ResponsePoints - 1.0)
		for i := range mags {
			var re, im float64
			for k, tap := range taps {
				re += tap * math.Cos(float64(k)*float64(i)*dw)
				im -= tap * math.Sin(float64(k)*float64(i)*dw)
			}
			mags[i] = math.Sqrt(re*re + im*im)
			peak = math.Max(peak, mags[i])
		}

		for i, m := range mags {
			want := math.Max(20*math.Log10(m/peak), ResponseFloorDB)
			if want > -80 && math.Abs(points[i].MagnitudeDB-want) > 1e-6 {
				t.Fatalf("numTaps=%d point %d: got %v dB, want %v dB", numTaps, i, points[i].MagnitudeDB, want)
			}
		}
	}
}

func TestFrequencyResponseFoldsLongTapVectors(t *testing.T) {
	long := make([]float64, 2*responseFFTSize+3)
	long[0] = 1
	long[len(long)-1] = 1

	points, err := FrequencyResponse(long, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// The folded taps still peak at DC with magnitude 2.
	if math.Abs(points[0].MagnitudeDB) > 1e-9 {
		t.Errorf("DC = %v dB, want 0", points[0].MagnitudeDB)
	}
}

func TestFrequencyResponseDegenerate(t *testing.T) {
	for _, taps := range [][]float64{nil, make([]float64, 11)} {
		if _, err := FrequencyResponse(taps, 1000); !errors.Is(err, ErrDegenerateResponse) {
			t.Errorf("len=%d: expected ErrDegenerateResponse, got %v", len(taps), err)
		}
	}
}

func TestFrequencyResponseFloor(t *testing.T) {
	// A two-tap average has an exact null at Nyquist.
	points, err := FrequencyResponse([]float64{0.5, 0.5}, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if got := points[ResponsePoints-1].MagnitudeDB; got != ResponseFloorDB {
		t.Errorf("Nyquist magnitude = %v, want %v", got, ResponseFloorDB)
	}
}

func TestWriteFrequencyResponseFile(t *testing.T) {
	f := mustNew(t, LowPass, 11, 1000, 10, 0)
	path := filepath.Join(t.TempDir(), "freqresp.txt")

	if err := f.WriteFrequencyResponseFile(path); err != nil {
		t.Fatalf("WriteFrequencyResponseFile() error = %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			t.Fatalf("line %d = %q, want two fields", lines+1, scanner.Text())
		}
		for _, field := range fields {
			if dot := strings.IndexByte(field, '.'); dot < 0 || len(field)-dot-1 != 10 {
				t.Fatalf("line %d field %q, want 10 decimals", lines+1, field)
			}
		}
		lines++
	}
	if lines != ResponsePoints {
		t.Errorf("got %d lines, want %d", lines, ResponsePoints)
	}
}

func TestWriteFrequencyResponseFileIOFailure(t *testing.T) {
	f := mustNew(t, LowPass, 11, 1000, 10, 0)
	path := filepath.Join(t.TempDir(), "missing", "freqresp.txt")

	if err := f.WriteFrequencyResponseFile(path); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestWriteFrequencyResponse(t *testing.T) {
	var buf bytes.Buffer
	if err := mustNew(t, HighPass, 31, 8000, 1000, 0).WriteFrequencyResponse(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "0.0000000000 ") {
		t.Errorf("first line = %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
}
