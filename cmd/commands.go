// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"firfilt/internal/config"
	"firfilt/internal/log"
	"firfilt/internal/stream"
	"firfilt/pkg/testsignal"

	"github.com/spf13/cobra"
)

// stdio is the path that selects stdin or stdout.
const stdio = "-"

func (a *app) describeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Print the filter type, frequencies, gain and taps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.newFilter()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), f)
			return err
		},
	}
}

func (a *app) tapsCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "taps",
		Short: "Write the tap count followed by one tap per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.newFilter()
			if err != nil {
				return err
			}
			if output == stdio {
				return f.WriteTaps(cmd.OutOrStdout())
			}
			if err := f.WriteTapsFile(output); err != nil {
				return err
			}
			log.Infof("wrote %d taps to %s", len(f.Taps()), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file ('-' for stdout)")

	return cmd
}

func (a *app) freqRespCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "freqresp",
		Short: "Write the magnitude response in dB from DC to Nyquist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.newFilter()
			if err != nil {
				return err
			}
			if output == stdio {
				return f.WriteFrequencyResponse(cmd.OutOrStdout())
			}
			if err := f.WriteFrequencyResponseFile(output); err != nil {
				return err
			}
			log.Infof("wrote frequency response to %s", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file ('-' for stdout)")

	return cmd
}

func (a *app) filterCommand() *cobra.Command {
	var input, output string
	var precision int

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter newline-separated samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("precision") {
				a.cfg.Output.Precision = precision
			}
			if p := a.cfg.Output.Precision; p < 0 || p > config.MaxPrecision {
				return fmt.Errorf("precision must be between 0 and %d", config.MaxPrecision)
			}

			f, err := a.newFilter()
			if err != nil {
				return err
			}

			r, closeIn, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer closeIn()

			return writeOutput(cmd, output, func(w io.Writer) error {
				n, err := stream.Text(r, w, f, a.cfg.Output.Precision)
				if err == nil {
					log.Infof("filtered %d samples", n)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", stdio, "Input file ('-' for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", stdio, "Output file ('-' for stdout)")
	cmd.Flags().IntVarP(&precision, "precision", "p", config.DefaultPrecision, "Digits after the decimal point")

	return cmd
}

func (a *app) wavCommand() *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "wav",
		Short: "Filter every channel of a PCM WAV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.cfg.Filter.Spec()
			if err != nil {
				return err
			}
			stats, err := stream.WAVFile(cmd.Context(), input, output, spec)
			if err != nil {
				return fmt.Errorf("failed to filter %s: %w", input, err)
			}
			log.Infof("filtered %d frames x %d channels at %d Hz into %s",
				stats.Frames, stats.Channels, stats.SampleRate, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input WAV file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output WAV file")
	mustMarkRequired(cmd, "input", "output")

	return cmd
}

func (a *app) generateCommand() *cobra.Command {
	var output string
	var flagged config.GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a test tone with an interfering tone added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := a.cfg.Generate
			flags := cmd.Flags()
			if flags.Changed("duration") {
				g.Duration = flagged.Duration
			}
			if flags.Changed("signal-freq") {
				g.SignalFreq = flagged.SignalFreq
			}
			if flags.Changed("noise-freq") {
				g.NoiseFreq = flagged.NoiseFreq
			}
			if flags.Changed("noise-amplitude") {
				g.NoiseAmplitude = flagged.NoiseAmplitude
			}
			if !(g.Duration > 0) {
				return fmt.Errorf("duration must be > 0")
			}
			fs := a.cfg.Filter.SampleRate
			size := int(math.Round(g.Duration * fs))
			samples := testsignal.Noisy(size, fs, g.SignalFreq, g.NoiseFreq, g.NoiseAmplitude)

			return writeOutput(cmd, output, func(w io.Writer) error {
				if err := stream.WriteText(w, samples, a.cfg.Output.Precision); err != nil {
					return err
				}
				log.Infof("generated %d samples at %g Hz", size, fs)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", stdio, "Output file ('-' for stdout)")
	flags.Float64Var(&flagged.Duration, "duration", config.DefaultDuration, "Signal length in seconds")
	flags.Float64Var(&flagged.SignalFreq, "signal-freq", config.DefaultSignalFreq, "Wanted tone in Hz")
	flags.Float64Var(&flagged.NoiseFreq, "noise-freq", config.DefaultNoiseFreq, "Interfering tone in Hz")
	flags.Float64Var(&flagged.NoiseAmplitude, "noise-amplitude", config.DefaultNoiseAmplitude,
		"Interfering tone amplitude relative to the wanted tone")

	return cmd
}

// mustMarkRequired marks flags as required. A missing flag name is a bug in
// the command definition.
func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

// openInput opens path for reading, or returns stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == stdio {
		return cmd.InOrStdin(), func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// writeOutput runs write against stdout for "-", or a newly created file.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == stdio {
		return write(cmd.OutOrStdout())
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
