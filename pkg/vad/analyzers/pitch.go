package analyzers

import (
	"fmt"
	"math"
	"time"
)

// PitchTracker estimates per-frame fundamental frequency by normalized
// autocorrelation. Frames with no confident periodic peak are reported as
// unvoiced (0 Hz). The tracker holds only its configuration and is safe for
// concurrent use.
type PitchTracker struct {
	timeStep  time.Duration
	floorHz   float64
	ceilingHz float64
}

// Autocorrelation peaks below this value are treated as aperiodic and the
// frame reported unvoiced
const voicedPeakThreshold = 0.45

// Frames whose RMS falls below this are silence; autocorrelation of near-zero
// signals is numerically meaningless
const silenceRMS = 1e-4

// NewPitchTracker creates a pitch tracker analyzing frames every timeStep
// within the [floorHz, ceilingHz] search range
func NewPitchTracker(timeStep time.Duration, floorHz, ceilingHz float64) (*PitchTracker, error) {
	if timeStep <= 0 {
		return nil, fmt.Errorf("pitch time step must be positive, got %v", timeStep)
	}
	if floorHz <= 0 || floorHz >= ceilingHz {
		return nil, fmt.Errorf("pitch range must satisfy 0 < floor < ceiling, got %g-%g", floorHz, ceilingHz)
	}
	return &PitchTracker{
		timeStep:  timeStep,
		floorHz:   floorHz,
		ceilingHz: ceilingHz,
	}, nil
}

// Track runs pitch analysis over the signal and returns one frequency per
// analysis frame, 0 for unvoiced frames. A signal too short for a single
// frame yields an empty track.
func (pt *PitchTracker) Track(signal []float64, sampleRate int) []float64 {
	// Three periods of the lowest trackable pitch per analysis frame
	frameLen := int(3 * float64(sampleRate) / pt.floorHz)
	step := int(pt.timeStep.Seconds() * float64(sampleRate))
	if step < 1 {
		step = 1
	}
	if frameLen > len(signal) || frameLen < 2 {
		return nil
	}

	minLag := int(float64(sampleRate) / pt.ceilingHz)
	maxLag := int(float64(sampleRate) / pt.floorHz)
	if minLag < 2 {
		minLag = 2
	}
	if maxLag >= frameLen {
		maxLag = frameLen - 1
	}

	var track []float64
	for start := 0; start+frameLen <= len(signal); start += step {
		frame := signal[start : start+frameLen]
		track = append(track, pt.framePitch(frame, sampleRate, minLag, maxLag))
	}
	return track
}

// framePitch estimates the fundamental frequency of one frame, or 0 when
// the frame is silent or aperiodic
func (pt *PitchTracker) framePitch(frame []float64, sampleRate, minLag, maxLag int) float64 {
	n := len(frame)

	mean := 0.0
	for _, s := range frame {
		mean += s
	}
	mean /= float64(n)

	centered := make([]float64, n)
	energy := 0.0
	for i, s := range frame {
		centered[i] = s - mean
		energy += centered[i] * centered[i]
	}

	if math.Sqrt(energy/float64(n)) < silenceRMS {
		return 0
	}

	corr := make([]float64, maxLag-minLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		corr[lag-minLag] = normalizedAutocorrelation(centered, lag)
	}

	// The correlation of a periodic signal peaks near-identically at every
	// multiple of the period, so the shortest qualifying peak is the
	// fundamental. Taking the global maximum instead risks octave errors.
	// Only interior maxima count: the lag range can open or close mid-slope,
	// and a boundary sample on a slope is not a peak.
	bestIdx, bestCorr := -1, 0.0
	for i := 1; i < len(corr)-1; i++ {
		r := corr[i]
		if r < voicedPeakThreshold {
			continue
		}
		if corr[i-1] <= r && corr[i+1] < r {
			bestIdx, bestCorr = i, r
			break
		}
	}

	if bestIdx < 0 {
		return 0
	}

	// Parabolic interpolation around the peak for sub-sample lag precision
	refined := float64(minLag + bestIdx)
	if bestIdx > 0 && bestIdx < len(corr)-1 {
		prev, next := corr[bestIdx-1], corr[bestIdx+1]
		denom := prev - 2*bestCorr + next
		if denom < 0 {
			refined += 0.5 * (prev - next) / denom
		}
	}

	return float64(sampleRate) / refined
}

// normalizedAutocorrelation computes r(lag) normalized by the energies of
// the two overlapping windows, yielding a value in [-1, 1]
func normalizedAutocorrelation(x []float64, lag int) float64 {
	n := len(x) - lag
	var cross, e0, e1 float64
	for i := 0; i < n; i++ {
		cross += x[i] * x[i+lag]
		e0 += x[i] * x[i]
		e1 += x[i+lag] * x[i+lag]
	}
	norm := math.Sqrt(e0 * e1)
	if norm == 0 {
		return 0
	}
	return cross / norm
}
