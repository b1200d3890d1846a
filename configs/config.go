package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/vocadian/vocadian/pkg/vad"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`

	// Audio input configuration
	Audio AudioConfig `mapstructure:"audio" yaml:"audio"`

	// Segmentation and smoothing configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`

	// Bandpass filter configuration
	Bandpass BandpassConfig `mapstructure:"bandpass" yaml:"bandpass"`

	// Pitch tracking configuration
	Pitch PitchConfig `mapstructure:"pitch" yaml:"pitch"`

	// Classifier thresholds
	Classifier ClassifierConfig `mapstructure:"classifier" yaml:"classifier"`
}

// AudioConfig contains audio input settings
type AudioConfig struct {
	SampleRate int `mapstructure:"sample_rate" yaml:"sample_rate"`
}

// AnalysisConfig contains segmentation, smoothing, and concurrency settings
type AnalysisConfig struct {
	WindowDuration  time.Duration `mapstructure:"window_duration" yaml:"window_duration"`
	MinTailFraction float64       `mapstructure:"min_tail_fraction" yaml:"min_tail_fraction"`
	SmoothingWindow int           `mapstructure:"smoothing_window" yaml:"smoothing_window"`
	MaxConcurrency  int           `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// BandpassConfig contains the voice-band filter settings
type BandpassConfig struct {
	LowCutHz  float64 `mapstructure:"low_cut_hz" yaml:"low_cut_hz"`
	HighCutHz float64 `mapstructure:"high_cut_hz" yaml:"high_cut_hz"`
	Order     int     `mapstructure:"order" yaml:"order"`
}

// PitchConfig contains pitch tracking settings
type PitchConfig struct {
	TimeStep  time.Duration `mapstructure:"time_step" yaml:"time_step"`
	FloorHz   float64       `mapstructure:"floor_hz" yaml:"floor_hz"`
	CeilingHz float64       `mapstructure:"ceiling_hz" yaml:"ceiling_hz"`
}

// ClassifierConfig contains the decision rule thresholds
type ClassifierConfig struct {
	EnergyThreshold   float64 `mapstructure:"energy_threshold" yaml:"energy_threshold"`
	FlatnessThreshold float64 `mapstructure:"flatness_threshold" yaml:"flatness_threshold"`
	PitchMinHz        float64 `mapstructure:"pitch_min_hz" yaml:"pitch_min_hz"`
	PitchMaxHz        float64 `mapstructure:"pitch_max_hz" yaml:"pitch_max_hz"`
	VoicingThreshold  float64 `mapstructure:"voicing_threshold" yaml:"voicing_threshold"`
	VBRThreshold      float64 `mapstructure:"vbr_threshold" yaml:"vbr_threshold"`
	VoiceScore        int     `mapstructure:"voice_score" yaml:"voice_score"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	config := &Config{}

	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// Validate validates the configuration. All violations are fatal before any
// processing begins; the pipeline re-validates its own slice of the config
// at construction.
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate must be positive")
	}

	switch c.OutputFormat {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("output format must be 'json' or 'yaml', got '%s'", c.OutputFormat)
	}

	return c.VAD().Validate(c.Audio.SampleRate)
}

// VAD maps the application configuration onto the pipeline configuration
func (c *Config) VAD() vad.Config {
	return vad.Config{
		WindowDuration:  c.Analysis.WindowDuration,
		MinTailFraction: c.Analysis.MinTailFraction,
		SmoothingWindow: c.Analysis.SmoothingWindow,
		MaxConcurrency:  c.Analysis.MaxConcurrency,
		LowCutHz:        c.Bandpass.LowCutHz,
		HighCutHz:       c.Bandpass.HighCutHz,
		Order:           c.Bandpass.Order,
		PitchTimeStep:   c.Pitch.TimeStep,
		PitchFloorHz:    c.Pitch.FloorHz,
		PitchCeilingHz:  c.Pitch.CeilingHz,
		Classifier: vad.ClassifierConfig{
			EnergyThreshold:   c.Classifier.EnergyThreshold,
			FlatnessThreshold: c.Classifier.FlatnessThreshold,
			PitchMinHz:        c.Classifier.PitchMinHz,
			PitchMaxHz:        c.Classifier.PitchMaxHz,
			VoicingThreshold:  c.Classifier.VoicingThreshold,
			VBRThreshold:      c.Classifier.VBRThreshold,
			VoiceScore:        c.Classifier.VoiceScore,
		},
	}
}
