package vad

import (
	"math"
	"math/rand"

	"github.com/vocadian/vocadian/pkg/audio"
)

// sineWave generates a pure tone of the given frequency and amplitude
func sineWave(freqHz, amplitude float64, sampleRate int, durationSec float64) []float64 {
	n := int(durationSec * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = amplitude * math.Sin(2*math.Pi*freqHz*t)
	}
	return samples
}

// harmonicTone generates a voiced-speech-like signal: a fundamental plus
// harmonics with 1/k amplitude decay, so part of the energy falls inside
// the 300-1500 Hz voice band
func harmonicTone(f0Hz, amplitude float64, harmonics, sampleRate int, durationSec float64) []float64 {
	n := int(durationSec * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		for k := 1; k <= harmonics; k++ {
			samples[i] += amplitude / float64(k) * math.Sin(2*math.Pi*f0Hz*float64(k)*t)
		}
	}
	return samples
}

// whiteNoise generates uniform noise with the given peak amplitude and a
// fixed seed for reproducibility
func whiteNoise(amplitude float64, sampleRate int, durationSec float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	n := int(durationSec * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amplitude * (2*rng.Float64() - 1)
	}
	return samples
}

func bufferOf(samples []float64, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(samples, sampleRate)
}
