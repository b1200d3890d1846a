package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults sets default configuration values for all components. The
// defaults match the reference configuration for 16 kHz mono speech.
func SetDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "json")
	}

	// Audio input defaults
	if !v.IsSet("audio.sample_rate") {
		v.SetDefault("audio.sample_rate", 16000)
	}

	// Analysis defaults
	if !v.IsSet("analysis.window_duration") {
		v.SetDefault("analysis.window_duration", 1*time.Second)
	}
	if !v.IsSet("analysis.min_tail_fraction") {
		v.SetDefault("analysis.min_tail_fraction", 0.2)
	}
	if !v.IsSet("analysis.smoothing_window") {
		v.SetDefault("analysis.smoothing_window", 3)
	}
	if !v.IsSet("analysis.max_concurrency") {
		v.SetDefault("analysis.max_concurrency", 4)
	}

	// Bandpass defaults: the 300-1500 Hz speech band
	if !v.IsSet("bandpass.low_cut_hz") {
		v.SetDefault("bandpass.low_cut_hz", 300.0)
	}
	if !v.IsSet("bandpass.high_cut_hz") {
		v.SetDefault("bandpass.high_cut_hz", 1500.0)
	}
	if !v.IsSet("bandpass.order") {
		v.SetDefault("bandpass.order", 4)
	}

	// Pitch tracking defaults
	if !v.IsSet("pitch.time_step") {
		v.SetDefault("pitch.time_step", 10*time.Millisecond)
	}
	if !v.IsSet("pitch.floor_hz") {
		v.SetDefault("pitch.floor_hz", 60.0)
	}
	if !v.IsSet("pitch.ceiling_hz") {
		v.SetDefault("pitch.ceiling_hz", 500.0)
	}

	// Classifier defaults
	if !v.IsSet("classifier.energy_threshold") {
		v.SetDefault("classifier.energy_threshold", 100.0)
	}
	if !v.IsSet("classifier.flatness_threshold") {
		v.SetDefault("classifier.flatness_threshold", 0.4)
	}
	if !v.IsSet("classifier.pitch_min_hz") {
		v.SetDefault("classifier.pitch_min_hz", 75.0)
	}
	if !v.IsSet("classifier.pitch_max_hz") {
		v.SetDefault("classifier.pitch_max_hz", 500.0)
	}
	if !v.IsSet("classifier.voicing_threshold") {
		v.SetDefault("classifier.voicing_threshold", 0.25)
	}
	if !v.IsSet("classifier.vbr_threshold") {
		v.SetDefault("classifier.vbr_threshold", -0.35)
	}
	if !v.IsSet("classifier.voice_score") {
		v.SetDefault("classifier.voice_score", 4)
	}
}
