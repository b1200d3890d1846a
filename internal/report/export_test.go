package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vocadian/vocadian/pkg/vad"
)

func sampleAnalysis() *vad.Analysis {
	return &vad.Analysis{
		Results: []vad.ClassificationResult{
			{SegmentIndex: 0, StartTime: 0, EndTime: 1, Label: vad.LabelVoice},
			{SegmentIndex: 1, StartTime: 1, EndTime: 2, Label: vad.LabelNoise},
		},
		RawFeatures: []vad.FeatureVector{
			{Energy: 500, SpectralFlatness: 0.2, PitchHz: 150, VoicingProbability: 0.9, VoiceBandRatio: -0.1},
			{Energy: 50, SpectralFlatness: 0.8, PitchHz: 0, VoicingProbability: 0.1, VoiceBandRatio: -1.2},
		},
		SmoothedFeatures: []vad.FeatureVector{
			{Energy: 275, SpectralFlatness: 0.5, PitchHz: 75, VoicingProbability: 0.5, VoiceBandRatio: -0.65},
			{Energy: 275, SpectralFlatness: 0.5, PitchHz: 75, VoicingProbability: 0.5, VoiceBandRatio: -0.65},
		},
		Evaluations: []vad.Evaluation{
			{EnergyPass: true, FlatnessPass: true, PitchPass: true, VoicingPass: true, VBRPass: true, Score: 6, Label: vad.LabelVoice},
			{Score: 0, Label: vad.LabelNoise},
		},
	}
}

func TestWriteResultsSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, sampleAnalysis().Results))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, float64(0), decoded[0]["start_time"])
	assert.Equal(t, float64(1), decoded[0]["end_time"])
	assert.Equal(t, "voice", decoded[0]["label"])
	assert.Equal(t, "noise", decoded[1]["label"])

	// The internal segment index never leaks into the export
	_, present := decoded[0]["SegmentIndex"]
	assert.False(t, present)
}

func TestWriteResultsEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, nil))
	assert.Equal(t, "[]", string(bytes.TrimSpace(buf.Bytes())))
}

func TestWriteResultsYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResultsAs(&buf, sampleAnalysis().Results, "yaml"))

	var decoded []vad.ClassificationResult
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, vad.LabelVoice, decoded[0].Label)
	assert.Equal(t, 1, decoded[0].EndTime)
}

func TestWriteResultsRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteResultsAs(&buf, nil, "xml"))
}

func TestWriteResultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.json")
	require.NoError(t, WriteResultsFile(path, sampleAnalysis().Results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []vad.ClassificationResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 2)
}

func TestWriteFeaturesJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, sampleAnalysis(), "json"))

	var decoded FeatureTimelines
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.RawFeatures, 2)
	require.Len(t, decoded.SmoothedFeatures, 2)
	assert.Equal(t, 500.0, decoded.RawFeatures[0].Energy)
	assert.Equal(t, 275.0, decoded.SmoothedFeatures[0].Energy)
}

func TestWriteFeaturesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, sampleAnalysis(), "yaml"))

	var decoded FeatureTimelines
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.RawFeatures, 2)
	assert.Equal(t, 150.0, decoded.RawFeatures[0].PitchHz)
}

func TestWriteFeaturesRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteFeatures(&buf, sampleAnalysis(), "xml"))
}

func TestWriteFeaturesFileInfersFormat(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "features.yaml")
	require.NoError(t, WriteFeaturesFile(yamlPath, sampleAnalysis()))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML FeatureTimelines
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Len(t, fromYAML.RawFeatures, 2)

	jsonPath := filepath.Join(dir, "features.json")
	require.NoError(t, WriteFeaturesFile(jsonPath, sampleAnalysis()))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON FeatureTimelines
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON.RawFeatures, 2)
}

func TestDiagnosticsToleratesShortSlices(t *testing.T) {
	// A hand-assembled analysis with fewer features than evaluations must
	// render the complete rows and skip the rest
	analysis := sampleAnalysis()
	analysis.SmoothedFeatures = analysis.SmoothedFeatures[:1]

	var buf bytes.Buffer
	NewDiagnostics(&buf).Print(analysis)

	out := buf.String()
	assert.Contains(t, out, "Second 0:")
	assert.NotContains(t, out, "Second 1:")
}

func TestDiagnosticsOutput(t *testing.T) {
	var buf bytes.Buffer
	NewDiagnostics(&buf).Print(sampleAnalysis())

	out := buf.String()
	assert.Contains(t, out, "Segment Classification Summary")
	assert.Contains(t, out, "Second 0:")
	assert.Contains(t, out, "Second 1:")
	assert.Contains(t, out, "VOICE")
	assert.Contains(t, out, "NOISE")
	assert.Contains(t, out, "Voice Band Ratio")
}
