package vad

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Smoother applies a centered moving average independently to each feature
// channel. Boundary windows are truncated, not padded, so the output always
// has the same length and ordering as the input.
type Smoother struct {
	window int
}

// NewSmoother creates a smoother with the given window size, which must be
// odd and >= 1. A window of 1 is the identity.
func NewSmoother(window int) (*Smoother, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("smoothing window must be odd and >= 1, got %d", window)
	}
	return &Smoother{window: window}, nil
}

// Smooth averages one scalar channel over the centered window
// [i-w/2, i+w/2], clipped to the sequence bounds
func (s *Smoother) Smooth(values []float64) []float64 {
	if s.window == 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	half := s.window / 2
	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-half)
		hi := min(len(values), i+half+1)
		out[i] = stat.Mean(values[lo:hi], nil)
	}
	return out
}

// SmoothFeatures smooths each of the five feature channels across the
// segment timeline and reassembles the vectors. The input sequence is left
// untouched for diagnostics.
func (s *Smoother) SmoothFeatures(vectors []FeatureVector) []FeatureVector {
	n := len(vectors)
	if n == 0 {
		return nil
	}

	energy := make([]float64, n)
	flatness := make([]float64, n)
	pitch := make([]float64, n)
	voicing := make([]float64, n)
	vbr := make([]float64, n)
	for i, fv := range vectors {
		energy[i] = fv.Energy
		flatness[i] = fv.SpectralFlatness
		pitch[i] = fv.PitchHz
		voicing[i] = fv.VoicingProbability
		vbr[i] = fv.VoiceBandRatio
	}

	energy = s.Smooth(energy)
	flatness = s.Smooth(flatness)
	pitch = s.Smooth(pitch)
	voicing = s.Smooth(voicing)
	vbr = s.Smooth(vbr)

	out := make([]FeatureVector, n)
	for i := range out {
		out[i] = FeatureVector{
			Energy:             energy[i],
			SpectralFlatness:   flatness[i],
			PitchHz:            pitch[i],
			VoicingProbability: voicing[i],
			VoiceBandRatio:     vbr[i],
		}
	}
	return out
}
