// Package analyzers provides the acoustic analysis capabilities consumed by
// the feature extractor: real-input spectral analysis and pitch tracking.
package analyzers

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// epsilon guards log and division against zero-magnitude bins
const epsilon = 1e-10

// SpectralAnalyzer computes magnitude spectra and the spectral statistics
// derived from them. It carries no per-call state and is safe for
// concurrent use.
type SpectralAnalyzer struct {
	sampleRate int
}

// NewSpectralAnalyzer creates a spectral analyzer for the given sample rate
func NewSpectralAnalyzer(sampleRate int) *SpectralAnalyzer {
	return &SpectralAnalyzer{sampleRate: sampleRate}
}

// MagnitudeSpectrum computes the magnitude of the real-input Fourier
// transform, keeping only the non-negative frequency bins (DC through
// Nyquist). An empty signal yields an empty spectrum.
func (sa *SpectralAnalyzer) MagnitudeSpectrum(signal []float64) []float64 {
	if len(signal) == 0 {
		return nil
	}

	spectrum := fft.FFTReal(signal)
	bins := len(spectrum)/2 + 1

	magnitude := make([]float64, bins)
	for i := 0; i < bins; i++ {
		magnitude[i] = cmplx.Abs(spectrum[i])
	}
	return magnitude
}

// Energy returns the sum of squared magnitudes, a coarse loudness proxy
func (sa *SpectralAnalyzer) Energy(magnitude []float64) float64 {
	if len(magnitude) == 0 {
		return 0
	}
	return floats.Dot(magnitude, magnitude)
}

// Flatness computes the spectral flatness (Wiener entropy): the ratio of the
// geometric to the arithmetic mean of the magnitude spectrum. Every bin is
// offset by epsilon so silence is well defined. The result lies in (0, 1];
// a perfectly flat spectrum gives exactly 1, tonal spectra approach 0.
func (sa *SpectralAnalyzer) Flatness(magnitude []float64) float64 {
	if len(magnitude) == 0 {
		return 0
	}

	logSum := 0.0
	linSum := 0.0
	for _, mag := range magnitude {
		logSum += math.Log(mag + epsilon)
		linSum += mag + epsilon
	}

	n := float64(len(magnitude))
	geometricMean := math.Exp(logSum / n)
	arithmeticMean := linSum / n

	return geometricMean / arithmeticMean
}

// PowerRatio computes the signed log10 ratio of two spectral powers, with
// epsilon guards on both terms. Used for the voice-band energy ratio.
func (sa *SpectralAnalyzer) PowerRatio(bandPower, totalPower float64) float64 {
	return math.Log10(bandPower+epsilon) - math.Log10(totalPower+epsilon)
}
