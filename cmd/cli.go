// SPDX-License-Identifier: MIT
package cmd

import (
	"context"
	"fmt"

	"firfilt/internal/config"
	"firfilt/internal/fir"
	"firfilt/internal/log"
	"firfilt/pkg/build"

	"github.com/spf13/cobra"
)

// options holds the persistent flags. A flag only replaces the config value
// when it was set on the command line.
type options struct {
	configPath string
	filterType string
	numTaps    int
	sampleRate float64
	f0         float64
	f1         float64
	logLevel   string
	verbose    bool
}

// app is shared by all subcommands once the root pre-run has resolved the
// configuration.
type app struct {
	opts options
	cfg  *config.Config
}

// NewRootCommand builds the firfilt command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	buildInfo := build.Get()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.resolveConfig(cmd)
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Configuration
	rootCmd.PersistentFlags().StringVarP(&a.opts.configPath, "config", "c", "",
		"Path to a YAML config file (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", config.DefaultLogLevel,
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&a.opts.verbose, "verbose", "v", false,
		"Show debug output (same as --log-level debug)")

	// Filter design
	rootCmd.PersistentFlags().StringVarP(&a.opts.filterType, "type", "t", config.DefaultFilterType,
		"Filter type: lpf, hpf or bpf")
	rootCmd.PersistentFlags().IntVarP(&a.opts.numTaps, "taps", "n", config.DefaultNumTaps,
		fmt.Sprintf("Number of filter taps (1-%d)", fir.MaxNumTaps))
	rootCmd.PersistentFlags().Float64VarP(&a.opts.sampleRate, "sample-rate", "s", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().Float64Var(&a.opts.f0, "f0", config.DefaultF0,
		"Cutoff frequency (LPF/HPF) or lower band edge (BPF) in Hz")
	rootCmd.PersistentFlags().Float64Var(&a.opts.f1, "f1", config.DefaultF1,
		"Upper band edge in Hz (BPF only)")

	rootCmd.AddCommand(
		a.describeCommand(),
		a.tapsCommand(),
		a.freqRespCommand(),
		a.filterCommand(),
		a.wavCommand(),
		a.generateCommand(),
	)

	return rootCmd
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func (a *app) resolveConfig(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := config.LoadConfig(a.opts.configPath, func(cfg *config.Config) {
		if flags.Changed("type") {
			cfg.Filter.Type = a.opts.filterType
		}
		if flags.Changed("taps") {
			cfg.Filter.NumTaps = a.opts.numTaps
		}
		if flags.Changed("sample-rate") {
			cfg.Filter.SampleRate = a.opts.sampleRate
		}
		if flags.Changed("f0") {
			cfg.Filter.F0 = a.opts.f0
		}
		if flags.Changed("f1") {
			cfg.Filter.F1 = a.opts.f1
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = a.opts.logLevel
		}
		if a.opts.verbose {
			cfg.Debug = true
		}
	})
	if err != nil {
		return err
	}

	log.SetLevel(cfg.Level())
	a.cfg = cfg
	return nil
}

// newFilter designs the configured filter.
func (a *app) newFilter() (*fir.Filter, error) {
	spec, err := a.cfg.Filter.Spec()
	if err != nil {
		return nil, err
	}
	f, err := fir.NewFromSpec(spec)
	if err != nil {
		return nil, err
	}
	log.Debugf("designed %s: %d taps, Fs %g Hz, gain %g", spec.Kind, spec.NumTaps, spec.SampleRate, f.Gain())
	return f, nil
}
