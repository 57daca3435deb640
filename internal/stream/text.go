// SPDX-License-Identifier: MIT
/*
Package stream runs a designed filter over whole inputs:
- Text streams with one sample per line
- PCM WAV files, one independent filter per channel

The filter itself is never shared: text input is a single stream, and
each WAV channel gets its own fir.Filter on its own goroutine.
*/
package stream

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"firfilt/internal/fir"
	"firfilt/internal/log"
)

// Text filters newline-separated samples from r and writes one output per
// line to w with precision digits after the decimal point. Blank lines and
// lines that do not parse as a number are skipped. It returns the number of
// samples filtered.
func Text(r io.Reader, w io.Writer, f *fir.Filter, precision int) (int, error) {
	scanner := bufio.NewScanner(r)
	out := bufio.NewWriter(w)

	var buf []byte
	count, skipped := 0, 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sample, err := strconv.ParseFloat(line, 64)
		if err != nil {
			skipped++
			continue
		}

		buf = strconv.AppendFloat(buf[:0], f.Process(sample), 'f', precision, 64)
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return count, fmt.Errorf("failed to write sample %d: %w", count, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read samples: %w", err)
	}
	if err := out.Flush(); err != nil {
		return count, fmt.Errorf("failed to flush output: %w", err)
	}

	if skipped > 0 {
		log.Warnf("stream: skipped %d unparseable lines", skipped)
	}
	log.Debugf("stream: filtered %d samples", count)

	return count, nil
}

// WriteText writes samples one per line with precision digits after the
// decimal point.
func WriteText(w io.Writer, samples []float64, precision int) error {
	out := bufio.NewWriter(w)
	var buf []byte
	for _, s := range samples {
		buf = strconv.AppendFloat(buf[:0], s, 'f', precision, 64)
		buf = append(buf, '\n')
		if _, err := out.Write(buf); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
