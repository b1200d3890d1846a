package vad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSmootherRejectsEvenOrNonPositiveWindows(t *testing.T) {
	for _, w := range []int{0, -1, 2, 4} {
		_, err := NewSmoother(w)
		assert.Error(t, err, "window=%d", w)
	}
}

func TestSmootherIdentityLaw(t *testing.T) {
	s, err := NewSmoother(1)
	require.NoError(t, err)

	in := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	out := s.Smooth(in)

	assert.Equal(t, in, out)
}

func TestSmootherCenteredAverage(t *testing.T) {
	s, err := NewSmoother(3)
	require.NoError(t, err)

	out := s.Smooth([]float64{0, 3, 6, 9, 12})

	// Interior windows average three values, boundary windows two
	assert.InDelta(t, 1.5, out[0], 1e-12)
	assert.InDelta(t, 3, out[1], 1e-12)
	assert.InDelta(t, 6, out[2], 1e-12)
	assert.InDelta(t, 9, out[3], 1e-12)
	assert.InDelta(t, 10.5, out[4], 1e-12)
}

func TestSmootherPreservesLength(t *testing.T) {
	s, err := NewSmoother(5)
	require.NoError(t, err)

	for _, n := range []int{0, 1, 2, 5, 17} {
		in := make([]float64, n)
		assert.Len(t, s.Smooth(in), n)
	}
}

func TestSmootherConstantSequenceIsFixedPoint(t *testing.T) {
	s, err := NewSmoother(5)
	require.NoError(t, err)

	in := []float64{7, 7, 7, 7, 7, 7}
	out := s.Smooth(in)

	for i, v := range out {
		assert.InDelta(t, 7, v, 1e-12, "index %d", i)
	}
}

func TestSmoothFeaturesPerChannel(t *testing.T) {
	s, err := NewSmoother(3)
	require.NoError(t, err)

	in := []FeatureVector{
		{Energy: 0, SpectralFlatness: 0.2, PitchHz: 100, VoicingProbability: 1, VoiceBandRatio: -1},
		{Energy: 300, SpectralFlatness: 0.8, PitchHz: 200, VoicingProbability: 0, VoiceBandRatio: -2},
		{Energy: 600, SpectralFlatness: 0.2, PitchHz: 300, VoicingProbability: 1, VoiceBandRatio: -3},
	}
	out := s.SmoothFeatures(in)

	require.Len(t, out, 3)
	assert.InDelta(t, 150, out[0].Energy, 1e-12)
	assert.InDelta(t, 300, out[1].Energy, 1e-12)
	assert.InDelta(t, 0.4, out[1].SpectralFlatness, 1e-12)
	assert.InDelta(t, 200, out[1].PitchHz, 1e-12)
	assert.InDelta(t, 2.0/3, out[1].VoicingProbability, 1e-12)
	assert.InDelta(t, -2, out[1].VoiceBandRatio, 1e-12)

	// Originals stay untouched for diagnostics
	assert.Equal(t, 0.0, in[0].Energy)
	assert.Equal(t, 0.8, in[1].SpectralFlatness)
}

func TestSmoothFeaturesEmpty(t *testing.T) {
	s, err := NewSmoother(3)
	require.NoError(t, err)

	assert.Nil(t, s.SmoothFeatures(nil))
}
