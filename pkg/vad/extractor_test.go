package vad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocadian/vocadian/pkg/logging"
)

// identityFilter passes the signal through unchanged
type identityFilter struct{}

func (identityFilter) Apply(signal []float64) []float64 { return signal }

// halvingFilter drops half the signal amplitude, quartering its power
type halvingFilter struct{}

func (halvingFilter) Apply(signal []float64) []float64 {
	out := make([]float64, len(signal))
	for i, s := range signal {
		out[i] = s / 2
	}
	return out
}

// recordingSpectral tracks which signals reached the analyzer
type recordingSpectral struct {
	calls [][]float64
}

func (rs *recordingSpectral) MagnitudeSpectrum(signal []float64) []float64 {
	rs.calls = append(rs.calls, signal)
	mag := make([]float64, len(signal))
	for i, s := range signal {
		if s < 0 {
			s = -s
		}
		mag[i] = s
	}
	return mag
}

func (rs *recordingSpectral) Energy(magnitude []float64) float64 {
	sum := 0.0
	for _, m := range magnitude {
		sum += m * m
	}
	return sum
}

func (rs *recordingSpectral) Flatness(magnitude []float64) float64 { return 0.5 }

func (rs *recordingSpectral) PowerRatio(bandPower, totalPower float64) float64 {
	if totalPower == 0 {
		return 0
	}
	return bandPower / totalPower
}

func testSegment(samples []float64) Segment {
	return Segment{Index: 0, Start: 0, Samples: samples, SampleRate: 16000}
}

func TestExtractorBandVersusTotalPower(t *testing.T) {
	spectral := &recordingSpectral{}
	e := NewFeatureExtractor(halvingFilter{}, spectral, stubPitch{}, logging.NewNopLogger())

	fv := e.Extract(testSegment([]float64{1, 1, 1, 1}))

	// Band power comes from the filtered signal, total from the raw one
	assert.InDelta(t, 1, fv.Energy, 1e-12)
	assert.InDelta(t, 0.25, fv.VoiceBandRatio, 1e-12)
	assert.InDelta(t, 0.5, fv.SpectralFlatness, 1e-12)

	// The analyzer saw the filtered signal first, then the raw one
	require.Len(t, spectral.calls, 2)
	assert.InDelta(t, 0.5, spectral.calls[0][0], 1e-12)
	assert.InDelta(t, 1, spectral.calls[1][0], 1e-12)
}

func TestExtractorPitchSummary(t *testing.T) {
	tests := []struct {
		name        string
		track       []float64
		wantPitch   float64
		wantVoicing float64
	}{
		{"empty track", nil, 0, 0},
		{"fully voiced", []float64{100, 200, 300}, 200, 1},
		{"partially voiced", []float64{150, 0, 0, 250}, 200, 0.5},
		{"fully unvoiced", []float64{0, 0, 0}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFeatureExtractor(identityFilter{}, &recordingSpectral{},
				stubPitch{track: tt.track}, logging.NewNopLogger())

			fv := e.Extract(testSegment([]float64{1, 2, 3}))
			assert.InDelta(t, tt.wantPitch, fv.PitchHz, 1e-12)
			assert.InDelta(t, tt.wantVoicing, fv.VoicingProbability, 1e-12)
		})
	}
}

func TestExtractorIsPure(t *testing.T) {
	e := NewFeatureExtractor(identityFilter{}, &recordingSpectral{},
		stubPitch{track: []float64{100}}, logging.NewNopLogger())

	seg := testSegment([]float64{0.1, -0.2, 0.3})
	first := e.Extract(seg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.Extract(seg))
	}
}
