// Package report contains the presentation collaborators around the
// analysis core: results export, feature timeline export, and per-segment
// terminal diagnostics. It consumes only already-computed analysis output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vocadian/vocadian/pkg/vad"
)

// FeatureTimelines pairs the raw and smoothed per-segment feature sequences
// for external plotting
type FeatureTimelines struct {
	RawFeatures      []vad.FeatureVector `json:"raw_features" yaml:"raw_features"`
	SmoothedFeatures []vad.FeatureVector `json:"smoothed_features" yaml:"smoothed_features"`
}

// WriteResults encodes the labeled timeline as a JSON array of
// {start_time, end_time, label} records in segment order
func WriteResults(w io.Writer, results []vad.ClassificationResult) error {
	return WriteResultsAs(w, results, "json")
}

// WriteResultsAs encodes the labeled timeline in the given format
// ("json" or "yaml")
func WriteResultsAs(w io.Writer, results []vad.ClassificationResult, format string) error {
	if results == nil {
		results = []vad.ClassificationResult{}
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported results format: %s", format)
	}
}

// WriteResultsFile writes the labeled timeline to a file, creating parent
// directories as needed
func WriteResultsFile(path string, results []vad.ClassificationResult) error {
	return WriteResultsFileAs(path, results, "json")
}

// WriteResultsFileAs writes the labeled timeline to a file in the given
// format
func WriteResultsFileAs(path string, results []vad.ClassificationResult, format string) error {
	return writeFile(path, func(f io.Writer) error {
		return WriteResultsAs(f, results, format)
	})
}

// WriteFeatures encodes the raw and smoothed feature timelines in the given
// format ("json" or "yaml")
func WriteFeatures(w io.Writer, analysis *vad.Analysis, format string) error {
	timelines := FeatureTimelines{
		RawFeatures:      analysis.RawFeatures,
		SmoothedFeatures: analysis.SmoothedFeatures,
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		if err := enc.Encode(timelines); err != nil {
			return fmt.Errorf("failed to encode feature timelines: %w", err)
		}
		return nil
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(timelines); err != nil {
			return fmt.Errorf("failed to encode feature timelines: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported feature export format: %s", format)
	}
}

// WriteFeaturesFile writes the feature timelines to a file. The format is
// inferred from the extension (.yaml/.yml selects YAML, anything else JSON).
func WriteFeaturesFile(path string, analysis *vad.Analysis) error {
	format := "json"
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		format = "yaml"
	}

	return writeFile(path, func(f io.Writer) error {
		return WriteFeatures(f, analysis, format)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return write(f)
}
