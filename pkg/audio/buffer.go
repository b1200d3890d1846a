package audio

import "time"

// Buffer holds a fully loaded mono recording as float64 samples in [-1, 1].
// Buffers are immutable once created; downstream stages take sub-slice views
// and never write through them.
type Buffer struct {
	Samples    []float64
	SampleRate int
}

// NewBuffer wraps a sample slice and its rate. The buffer takes ownership
// of the slice.
func NewBuffer(samples []float64, sampleRate int) *Buffer {
	return &Buffer{
		Samples:    samples,
		SampleRate: sampleRate,
	}
}

// Len returns the number of samples
func (b *Buffer) Len() int {
	return len(b.Samples)
}

// Duration returns the buffer length as wall-clock time
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	secs := float64(len(b.Samples)) / float64(b.SampleRate)
	return time.Duration(secs * float64(time.Second))
}
