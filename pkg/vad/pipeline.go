// Package vad labels fixed windows of a buffered mono recording as voice or
// noise. The pipeline segments the buffer, extracts five acoustic features
// per window, smooths the feature timelines, and applies a deterministic
// weighted-threshold decision rule.
package vad

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vocadian/vocadian/pkg/audio"
	"github.com/vocadian/vocadian/pkg/logging"
	"github.com/vocadian/vocadian/pkg/vad/analyzers"
	"github.com/vocadian/vocadian/pkg/vad/filters"
)

// ClassificationResult is one labeled second of the timeline. StartTime
// equals the segment index because every full window is one second long.
type ClassificationResult struct {
	SegmentIndex int   `json:"-" yaml:"-"`
	StartTime    int   `json:"start_time" yaml:"start_time"`
	EndTime      int   `json:"end_time" yaml:"end_time"`
	Label        Label `json:"label" yaml:"label"`
}

// Analysis is the complete output of one pipeline run. All four slices are
// parallel, indexed by segment. Raw features are retained alongside the
// smoothed ones for diagnostics and plotting.
type Analysis struct {
	Results          []ClassificationResult `json:"results"`
	RawFeatures      []FeatureVector        `json:"raw_features"`
	SmoothedFeatures []FeatureVector        `json:"smoothed_features"`
	Evaluations      []Evaluation           `json:"evaluations"`
}

// Pipeline orchestrates segmentation, feature extraction, smoothing, and
// classification as a single forward pass over an immutable buffer.
type Pipeline struct {
	cfg        Config
	sampleRate int

	filter   BandpassFilter
	spectral SpectralAnalyzer
	pitch    PitchAnalyzer

	segmenter  *Segmenter
	extractor  *FeatureExtractor
	smoother   *Smoother
	classifier *Classifier
	logger     logging.Logger
}

// Option overrides a pipeline collaborator before defaults are filled in
type Option func(*Pipeline)

// WithLogger sets the pipeline logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithBandpassFilter substitutes the bandpass filter implementation
func WithBandpassFilter(f BandpassFilter) Option {
	return func(p *Pipeline) { p.filter = f }
}

// WithSpectralAnalyzer substitutes the spectral analysis implementation
func WithSpectralAnalyzer(sa SpectralAnalyzer) Option {
	return func(p *Pipeline) { p.spectral = sa }
}

// WithPitchAnalyzer substitutes the pitch tracking implementation
func WithPitchAnalyzer(pa PitchAnalyzer) Option {
	return func(p *Pipeline) { p.pitch = pa }
}

// NewPipeline validates the configuration and assembles the pipeline for
// the given sample rate. All configuration errors surface here, before any
// audio is processed.
func NewPipeline(cfg Config, sampleRate int, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(sampleRate); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	p := &Pipeline{
		cfg:        cfg,
		sampleRate: sampleRate,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = logging.NewDefaultLogger()
	}
	p.logger = p.logger.WithFields(logging.Fields{
		"component":   "vad_pipeline",
		"sample_rate": sampleRate,
	})

	if p.filter == nil {
		filter, err := filters.NewBandpass(cfg.LowCutHz, cfg.HighCutHz, sampleRate, cfg.Order)
		if err != nil {
			return nil, err
		}
		p.filter = filter
	}
	if p.spectral == nil {
		p.spectral = analyzers.NewSpectralAnalyzer(sampleRate)
	}
	if p.pitch == nil {
		tracker, err := analyzers.NewPitchTracker(cfg.PitchTimeStep, cfg.PitchFloorHz, cfg.PitchCeilingHz)
		if err != nil {
			return nil, err
		}
		p.pitch = tracker
	}

	smoother, err := NewSmoother(cfg.SmoothingWindow)
	if err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(cfg.Classifier)
	if err != nil {
		return nil, err
	}

	p.segmenter = NewSegmenter(cfg)
	p.extractor = NewFeatureExtractor(p.filter, p.spectral, p.pitch, p.logger)
	p.smoother = smoother
	p.classifier = classifier

	return p, nil
}

// Process runs the full pipeline over a buffer. An empty buffer yields an
// empty analysis; the only failure modes are a sample-rate mismatch and
// context cancellation during extraction.
func (p *Pipeline) Process(ctx context.Context, buf *audio.Buffer) (*Analysis, error) {
	if buf.SampleRate != p.sampleRate {
		return nil, fmt.Errorf("pipeline configured for %d Hz, buffer is %d Hz",
			p.sampleRate, buf.SampleRate)
	}

	segments := p.segmenter.Split(buf)
	p.logger.Debug("Buffer segmented", logging.Fields{
		"total_samples": buf.Len(),
		"segments":      len(segments),
	})
	if len(segments) == 0 {
		return &Analysis{}, nil
	}

	raw, err := p.extractFeatures(ctx, segments)
	if err != nil {
		return nil, err
	}

	smoothed := p.smoother.SmoothFeatures(raw)

	analysis := &Analysis{
		Results:          make([]ClassificationResult, len(segments)),
		RawFeatures:      raw,
		SmoothedFeatures: smoothed,
		Evaluations:      make([]Evaluation, len(segments)),
	}
	for i, fv := range smoothed {
		ev := p.classifier.Evaluate(fv)
		analysis.Evaluations[i] = ev
		analysis.Results[i] = ClassificationResult{
			SegmentIndex: segments[i].Index,
			StartTime:    segments[i].Index,
			EndTime:      segments[i].Index + 1,
			Label:        ev.Label,
		}
	}

	p.logger.Info("Analysis completed", logging.Fields{
		"segments":       len(segments),
		"voice_segments": countLabel(analysis.Results, LabelVoice),
	})

	return analysis, nil
}

// extractFeatures computes feature vectors for every segment, fanning out
// across a bounded worker pool when configured. Each worker writes only its
// own index, so results come back in segment order without re-sorting.
func (p *Pipeline) extractFeatures(ctx context.Context, segments []Segment) ([]FeatureVector, error) {
	features := make([]FeatureVector, len(segments))

	if p.cfg.MaxConcurrency <= 1 {
		for i, seg := range segments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			features[i] = p.extractor.Extract(seg)
		}
		return features, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxConcurrency)
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			features[i] = p.extractor.Extract(seg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return features, nil
}

func countLabel(results []ClassificationResult, label Label) int {
	n := 0
	for _, r := range results {
		if r.Label == label {
			n++
		}
	}
	return n
}
