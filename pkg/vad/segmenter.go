package vad

import (
	"github.com/vocadian/vocadian/pkg/audio"
)

// Segment is a non-owning view into an audio buffer covering one analysis
// window. Index doubles as the segment's start offset in seconds, since each
// full window is exactly one WindowDuration long.
type Segment struct {
	Index      int
	Start      int
	Samples    []float64
	SampleRate int
}

// Len returns the segment length in samples
func (s Segment) Len() int {
	return len(s.Samples)
}

// Segmenter splits a buffer into fixed-duration non-overlapping windows
type Segmenter struct {
	cfg Config
}

// NewSegmenter creates a segmenter. Validation of the window parameters
// happens in Config.Validate before the pipeline is constructed.
func NewSegmenter(cfg Config) *Segmenter {
	return &Segmenter{cfg: cfg}
}

// Split produces the ordered segment sequence for a buffer. The trailing
// remainder is emitted as a final partial segment only when it is longer
// than MinTailFraction of a full window. An empty buffer yields no segments.
func (s *Segmenter) Split(buf *audio.Buffer) []Segment {
	windowSamples := s.cfg.WindowSamples(buf.SampleRate)
	if windowSamples <= 0 || buf.Len() == 0 {
		return nil
	}

	full := buf.Len() / windowSamples
	segments := make([]Segment, 0, full+1)

	for i := 0; i < full; i++ {
		start := i * windowSamples
		segments = append(segments, Segment{
			Index:      i,
			Start:      start,
			Samples:    buf.Samples[start : start+windowSamples],
			SampleRate: buf.SampleRate,
		})
	}

	tail := buf.Len() - full*windowSamples
	if float64(tail) > s.cfg.MinTailFraction*float64(windowSamples) {
		start := full * windowSamples
		segments = append(segments, Segment{
			Index:      full,
			Start:      start,
			Samples:    buf.Samples[start:],
			SampleRate: buf.SampleRate,
		})
	}

	return segments
}
