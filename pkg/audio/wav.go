package audio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"

	"github.com/vocadian/vocadian/pkg/logging"
)

// WAVLoader decodes WAV files into Buffers. It is the input-boundary
// collaborator: the analysis core never touches the filesystem itself.
type WAVLoader struct {
	expectedRate int
	logger       logging.Logger
}

// NewWAVLoader creates a loader that accepts files at the given sample rate.
// A rate of 0 accepts any rate.
func NewWAVLoader(expectedRate int, logger logging.Logger) *WAVLoader {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &WAVLoader{
		expectedRate: expectedRate,
		logger: logger.WithFields(logging.Fields{
			"component": "wav_loader",
		}),
	}
}

// Load reads and decodes a mono WAV file into a Buffer
func (l *WAVLoader) Load(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}

	format := buf.Format
	if format.NumChannels != 1 {
		return nil, fmt.Errorf("expected mono audio, got %d channels", format.NumChannels)
	}
	if l.expectedRate > 0 && format.SampleRate != l.expectedRate {
		return nil, fmt.Errorf("expected sample rate %d Hz, got %d Hz (resample the file first)",
			l.expectedRate, format.SampleRate)
	}

	samples := normalizePCM(buf.Data, int(decoder.BitDepth))

	l.logger.Debug("WAV file loaded", logging.Fields{
		"path":        path,
		"sample_rate": format.SampleRate,
		"samples":     len(samples),
		"bit_depth":   decoder.BitDepth,
	})

	return NewBuffer(samples, format.SampleRate), nil
}

// normalizePCM converts integer PCM to float64 in [-1, 1]
func normalizePCM(data []int, bitDepth int) []float64 {
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := math.Pow(2, float64(bitDepth-1))

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v) / scale
	}
	return samples
}
