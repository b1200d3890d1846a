package vad

import "fmt"

// Label is the binary per-segment decision
type Label string

const (
	LabelVoice Label = "voice"
	LabelNoise Label = "noise"
)

// maxScore is the sum of all criterion weights
const maxScore = 6

// Evaluation records how a feature vector fared against each criterion.
// The diagnostic reporter consumes this to render per-threshold pass/fail.
type Evaluation struct {
	EnergyPass   bool  `json:"energy_pass"`
	FlatnessPass bool  `json:"flatness_pass"`
	PitchPass    bool  `json:"pitch_pass"`
	VoicingPass  bool  `json:"voicing_pass"`
	VBRPass      bool  `json:"vbr_pass"`
	Score        int   `json:"score"`
	Label        Label `json:"label"`
}

// Classifier maps a feature vector to a label with a deterministic
// weighted-threshold rule. It is pure and memoryless: identical vectors
// always yield identical labels, and no state persists between segments.
//
// The energy check is an amplitude gate: a segment below the energy
// threshold is noise regardless of all other evidence. Past the gate, the
// strong discriminators (flatness, voice-band concentration) weigh 2 each
// and the weaker ones (pitch in range, voicing probability) weigh 1 each,
// so a voice decision needs both strong signals, or one strong plus both
// weak ones.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier creates a classifier, validating the threshold
// configuration up front
func NewClassifier(cfg ClassifierConfig) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid classifier configuration: %w", err)
	}
	return &Classifier{cfg: cfg}, nil
}

// Classify returns the label for one feature vector
func (c *Classifier) Classify(fv FeatureVector) Label {
	return c.Evaluate(fv).Label
}

// Evaluate scores a feature vector against every criterion
func (c *Classifier) Evaluate(fv FeatureVector) Evaluation {
	ev := Evaluation{
		EnergyPass:   fv.Energy >= c.cfg.EnergyThreshold,
		FlatnessPass: fv.SpectralFlatness < c.cfg.FlatnessThreshold,
		PitchPass:    fv.PitchHz >= c.cfg.PitchMinHz && fv.PitchHz <= c.cfg.PitchMaxHz,
		VoicingPass:  fv.VoicingProbability > c.cfg.VoicingThreshold,
		VBRPass:      fv.VoiceBandRatio > c.cfg.VBRThreshold,
	}

	if !ev.EnergyPass {
		ev.Label = LabelNoise
		return ev
	}

	if ev.FlatnessPass {
		ev.Score += 2
	}
	if ev.PitchPass {
		ev.Score++
	}
	if ev.VoicingPass {
		ev.Score++
	}
	if ev.VBRPass {
		ev.Score += 2
	}

	if ev.Score >= c.cfg.VoiceScore {
		ev.Label = LabelVoice
	} else {
		ev.Label = LabelNoise
	}
	return ev
}
