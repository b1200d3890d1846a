package vad

import (
	"fmt"
	"math"
	"time"
)

// Config holds every tunable of the analysis pipeline. A single immutable
// Config is passed into NewPipeline; nothing reads thresholds from globals.
type Config struct {
	// Segmentation
	WindowDuration  time.Duration `mapstructure:"window_duration"`
	MinTailFraction float64       `mapstructure:"min_tail_fraction"`

	// Bandpass filter for energy and voice-band features
	LowCutHz  float64 `mapstructure:"low_cut_hz"`
	HighCutHz float64 `mapstructure:"high_cut_hz"`
	Order     int     `mapstructure:"order"`

	// Pitch tracking
	PitchTimeStep  time.Duration `mapstructure:"pitch_time_step"`
	PitchFloorHz   float64       `mapstructure:"pitch_floor_hz"`
	PitchCeilingHz float64       `mapstructure:"pitch_ceiling_hz"`

	// Feature smoothing
	SmoothingWindow int `mapstructure:"smoothing_window"`

	// Classifier thresholds and weights
	Classifier ClassifierConfig `mapstructure:"classifier"`

	// Feature-extraction worker count; values <= 1 run sequentially
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

// ClassifierConfig holds the decision rule thresholds
type ClassifierConfig struct {
	EnergyThreshold   float64 `mapstructure:"energy_threshold"`
	FlatnessThreshold float64 `mapstructure:"flatness_threshold"`
	PitchMinHz        float64 `mapstructure:"pitch_min_hz"`
	PitchMaxHz        float64 `mapstructure:"pitch_max_hz"`
	VoicingThreshold  float64 `mapstructure:"voicing_threshold"`
	VBRThreshold      float64 `mapstructure:"vbr_threshold"`
	VoiceScore        int     `mapstructure:"voice_score"`
}

// DefaultConfig returns the reference configuration for 16 kHz speech
func DefaultConfig() Config {
	return Config{
		WindowDuration:  time.Second,
		MinTailFraction: 0.2,
		LowCutHz:        300,
		HighCutHz:       1500,
		Order:           4,
		PitchTimeStep:   10 * time.Millisecond,
		PitchFloorHz:    60,
		PitchCeilingHz:  500,
		SmoothingWindow: 3,
		Classifier: ClassifierConfig{
			EnergyThreshold:   100,
			FlatnessThreshold: 0.4,
			PitchMinHz:        75,
			PitchMaxHz:        500,
			VoicingThreshold:  0.25,
			VBRThreshold:      -0.35,
			VoiceScore:        4,
		},
		MaxConcurrency: 4,
	}
}

// Validate checks the configuration against the given sample rate. Any
// violation is a fatal configuration error raised before processing begins.
func (c Config) Validate(sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if c.WindowDuration <= 0 {
		return fmt.Errorf("window duration must be positive, got %v", c.WindowDuration)
	}

	if c.MinTailFraction < 0 || c.MinTailFraction >= 1 {
		return fmt.Errorf("min tail fraction must be in [0, 1), got %g", c.MinTailFraction)
	}

	nyquist := float64(sampleRate) / 2
	if c.LowCutHz <= 0 || c.LowCutHz >= c.HighCutHz || c.HighCutHz >= nyquist {
		return fmt.Errorf("bandpass cutoffs must satisfy 0 < low < high < %g Hz, got %g-%g",
			nyquist, c.LowCutHz, c.HighCutHz)
	}

	if c.Order < 1 {
		return fmt.Errorf("filter order must be >= 1, got %d", c.Order)
	}

	if c.PitchTimeStep <= 0 {
		return fmt.Errorf("pitch time step must be positive, got %v", c.PitchTimeStep)
	}

	if c.PitchFloorHz <= 0 || c.PitchFloorHz >= c.PitchCeilingHz {
		return fmt.Errorf("pitch range must satisfy 0 < floor < ceiling, got %g-%g",
			c.PitchFloorHz, c.PitchCeilingHz)
	}

	if c.SmoothingWindow < 1 || c.SmoothingWindow%2 == 0 {
		return fmt.Errorf("smoothing window must be odd and >= 1, got %d", c.SmoothingWindow)
	}

	return c.Classifier.Validate()
}

// Validate checks the classifier thresholds
func (c ClassifierConfig) Validate() error {
	for name, v := range map[string]float64{
		"energy_threshold":   c.EnergyThreshold,
		"flatness_threshold": c.FlatnessThreshold,
		"pitch_min_hz":       c.PitchMinHz,
		"pitch_max_hz":       c.PitchMaxHz,
		"voicing_threshold":  c.VoicingThreshold,
		"vbr_threshold":      c.VBRThreshold,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("classifier %s must be finite, got %g", name, v)
		}
	}

	if c.PitchMinHz > c.PitchMaxHz {
		return fmt.Errorf("classifier pitch range is inverted: %g > %g", c.PitchMinHz, c.PitchMaxHz)
	}

	if c.VoiceScore < 0 || c.VoiceScore > maxScore {
		return fmt.Errorf("voice score must be in [0, %d], got %d", maxScore, c.VoiceScore)
	}

	return nil
}

// WindowSamples converts the window duration to a sample count
func (c Config) WindowSamples(sampleRate int) int {
	return int(math.Round(c.WindowDuration.Seconds() * float64(sampleRate)))
}
