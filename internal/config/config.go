// SPDX-License-Identifier: MIT
package config

// Defaults used when neither a config file, the environment nor a flag
// provides a value. They reproduce the 51-tap 7 Hz low-pass used to clean a
// 1 Hz signal sampled at 1 kHz.
const (
	DefaultFilterType = "lpf"
	DefaultNumTaps    = 51
	DefaultSampleRate = 1000.0 // Hz
	DefaultF0         = 7.0    // Hz
	DefaultF1         = 0.0    // Hz, band-pass only
	DefaultPrecision  = 8      // Digits after the point in text output
	DefaultLogLevel   = "info"
	DefaultConfigFile = "firfilt.yaml"

	// Test signal generator defaults.
	DefaultDuration       = 2.0  // Seconds
	DefaultSignalFreq     = 1.0  // Hz
	DefaultNoiseFreq      = 20.0 // Hz
	DefaultNoiseAmplitude = 0.5

	MaxPrecision = 17
)
