package vad

import (
	"github.com/vocadian/vocadian/pkg/logging"
)

// FeatureVector holds the five acoustic features computed for one segment.
// All fields are always defined; degenerate inputs (silence, no detected
// pitch) fall back to zero rather than NaN.
type FeatureVector struct {
	// Energy is the sum of squared bandpassed spectral magnitudes
	Energy float64 `json:"energy" yaml:"energy"`
	// SpectralFlatness is the geometric/arithmetic mean ratio of the raw
	// magnitude spectrum, in (0, 1]
	SpectralFlatness float64 `json:"spectral_flatness" yaml:"spectral_flatness"`
	// PitchHz is the mean fundamental frequency over voiced frames, 0 when
	// no voiced pitch was detected
	PitchHz float64 `json:"pitch_hz" yaml:"pitch_hz"`
	// VoicingProbability is the fraction of analysis frames with detected
	// pitch, in [0, 1]
	VoicingProbability float64 `json:"voicing_probability" yaml:"voicing_probability"`
	// VoiceBandRatio is the log10 ratio of band-limited to total spectral
	// power
	VoiceBandRatio float64 `json:"voice_band_ratio" yaml:"voice_band_ratio"`
}

// BandpassFilter isolates the speech-relevant frequency band. Apply must
// preserve signal length and introduce no net phase shift.
type BandpassFilter interface {
	Apply(signal []float64) []float64
}

// SpectralAnalyzer computes magnitude spectra and the statistics derived
// from them
type SpectralAnalyzer interface {
	MagnitudeSpectrum(signal []float64) []float64
	Energy(magnitude []float64) float64
	Flatness(magnitude []float64) float64
	PowerRatio(bandPower, totalPower float64) float64
}

// PitchAnalyzer produces per-frame fundamental frequency estimates, with 0
// marking unvoiced frames
type PitchAnalyzer interface {
	Track(signal []float64, sampleRate int) []float64
}

// FeatureExtractor computes one FeatureVector per segment. It holds no
// per-segment state: no segment can influence another's features, which is
// what makes extraction parallelizable across workers.
type FeatureExtractor struct {
	filter   BandpassFilter
	spectral SpectralAnalyzer
	pitch    PitchAnalyzer
	logger   logging.Logger
}

// NewFeatureExtractor wires the three analysis capabilities together
func NewFeatureExtractor(filter BandpassFilter, spectral SpectralAnalyzer, pitch PitchAnalyzer, logger logging.Logger) *FeatureExtractor {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &FeatureExtractor{
		filter:   filter,
		spectral: spectral,
		pitch:    pitch,
		logger: logger.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}
}

// Extract computes the feature vector for one segment. It is a pure
// function of the segment's samples and sample rate.
func (e *FeatureExtractor) Extract(seg Segment) FeatureVector {
	filtered := e.filter.Apply(seg.Samples)
	bandMagnitude := e.spectral.MagnitudeSpectrum(filtered)
	bandPower := e.spectral.Energy(bandMagnitude)

	rawMagnitude := e.spectral.MagnitudeSpectrum(seg.Samples)
	totalPower := e.spectral.Energy(rawMagnitude)

	track := e.pitch.Track(seg.Samples, seg.SampleRate)
	pitch, voicing := summarizePitchTrack(track)

	fv := FeatureVector{
		Energy:             bandPower,
		SpectralFlatness:   e.spectral.Flatness(rawMagnitude),
		PitchHz:            pitch,
		VoicingProbability: voicing,
		VoiceBandRatio:     e.spectral.PowerRatio(bandPower, totalPower),
	}

	e.logger.Debug("Segment features extracted", logging.Fields{
		"segment":  seg.Index,
		"energy":   fv.Energy,
		"flatness": fv.SpectralFlatness,
		"pitch_hz": fv.PitchHz,
		"voicing":  fv.VoicingProbability,
		"vbr":      fv.VoiceBandRatio,
	})

	return fv
}

// summarizePitchTrack reduces a per-frame pitch track to mean voiced pitch
// and voicing probability. An empty track yields (0, 0).
func summarizePitchTrack(track []float64) (pitchHz, voicingProbability float64) {
	if len(track) == 0 {
		return 0, 0
	}

	voiced := 0
	sum := 0.0
	for _, f := range track {
		if f > 0 {
			voiced++
			sum += f
		}
	}

	if voiced > 0 {
		pitchHz = sum / float64(voiced)
	}
	voicingProbability = float64(voiced) / float64(len(track))
	return pitchHz, voicingProbability
}
