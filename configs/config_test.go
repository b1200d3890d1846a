package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults(viper.GetViper())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	return cfg
}

func TestDefaultsLoadAndValidate(t *testing.T) {
	cfg := loadDefaults(t)

	assert.Equal(t, 16000, cfg.Audio.SampleRate)
	assert.Equal(t, time.Second, cfg.Analysis.WindowDuration)
	assert.Equal(t, 0.2, cfg.Analysis.MinTailFraction)
	assert.Equal(t, 3, cfg.Analysis.SmoothingWindow)
	assert.Equal(t, 300.0, cfg.Bandpass.LowCutHz)
	assert.Equal(t, 1500.0, cfg.Bandpass.HighCutHz)
	assert.Equal(t, 4, cfg.Bandpass.Order)
	assert.Equal(t, 10*time.Millisecond, cfg.Pitch.TimeStep)
	assert.Equal(t, 100.0, cfg.Classifier.EnergyThreshold)
	assert.Equal(t, 4, cfg.Classifier.VoiceScore)

	assert.NoError(t, cfg.Validate())
}

func TestSetDefaultsRespectsExistingValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("audio.sample_rate", 8000)
	SetDefaults(viper.GetViper())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Audio.SampleRate)
}

func TestValidateRejectsUnknownOutputFormat(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.OutputFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg.OutputFormat = "yaml"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadSampleRate(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Audio.SampleRate = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadBandpass(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Bandpass.LowCutHz = 2000
	cfg.Bandpass.HighCutHz = 1000
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsCutoffAboveNyquist(t *testing.T) {
	cfg := loadDefaults(t)
	cfg.Audio.SampleRate = 2000
	assert.Error(t, cfg.Validate())
}

func TestVADMappingCarriesEveryField(t *testing.T) {
	cfg := loadDefaults(t)
	vadCfg := cfg.VAD()

	assert.Equal(t, cfg.Analysis.WindowDuration, vadCfg.WindowDuration)
	assert.Equal(t, cfg.Analysis.MinTailFraction, vadCfg.MinTailFraction)
	assert.Equal(t, cfg.Analysis.SmoothingWindow, vadCfg.SmoothingWindow)
	assert.Equal(t, cfg.Analysis.MaxConcurrency, vadCfg.MaxConcurrency)
	assert.Equal(t, cfg.Bandpass.LowCutHz, vadCfg.LowCutHz)
	assert.Equal(t, cfg.Bandpass.HighCutHz, vadCfg.HighCutHz)
	assert.Equal(t, cfg.Bandpass.Order, vadCfg.Order)
	assert.Equal(t, cfg.Pitch.TimeStep, vadCfg.PitchTimeStep)
	assert.Equal(t, cfg.Pitch.FloorHz, vadCfg.PitchFloorHz)
	assert.Equal(t, cfg.Pitch.CeilingHz, vadCfg.PitchCeilingHz)
	assert.Equal(t, cfg.Classifier.EnergyThreshold, vadCfg.Classifier.EnergyThreshold)
	assert.Equal(t, cfg.Classifier.VoiceScore, vadCfg.Classifier.VoiceScore)
}
