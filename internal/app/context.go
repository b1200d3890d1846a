// Package app wires the collaborators around the analysis core: it loads
// the recording, runs the pipeline, and hands the results to the export and
// diagnostics reporters.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vocadian/vocadian/configs"
	"github.com/vocadian/vocadian/internal/report"
	"github.com/vocadian/vocadian/pkg/audio"
	"github.com/vocadian/vocadian/pkg/logging"
	"github.com/vocadian/vocadian/pkg/vad"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	InputFile    string
	OutputFile   string
	FeaturesFile string
	Diagnostics  bool
	Verbose      bool

	// Runtime context
	Logger logging.Logger
	Config *configs.Config
}

// AnalyzeApp handles the analysis application lifecycle
type AnalyzeApp struct {
	ctx    *Context
	config *configs.Config
	logger logging.Logger
}

// NewAnalyzeApp loads and validates configuration and prepares the
// application. Configuration errors are fatal here, before any audio is
// touched.
func NewAnalyzeApp(ctx *Context) (*AnalyzeApp, error) {
	logger := ctx.Logger
	if logger == nil {
		logger = logging.NewDefaultLogger()
		ctx.Logger = logger
	}

	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	ctx.Config = config

	logger.Debug("Analysis application initialized", logging.Fields{
		"input_file":      ctx.InputFile,
		"output_file":     ctx.OutputFile,
		"sample_rate":     config.Audio.SampleRate,
		"window_duration": config.Analysis.WindowDuration.Seconds(),
	})

	return &AnalyzeApp{
		ctx:    ctx,
		config: config,
		logger: logger,
	}, nil
}

// Run loads the recording, executes the pipeline, and writes all requested
// outputs
func (app *AnalyzeApp) Run(ctx context.Context) error {
	loader := audio.NewWAVLoader(app.config.Audio.SampleRate, app.logger)
	buf, err := loader.Load(app.ctx.InputFile)
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	app.logger.Info("Recording loaded", logging.Fields{
		"path":     app.ctx.InputFile,
		"duration": buf.Duration().Seconds(),
	})

	pipeline, err := vad.NewPipeline(app.config.VAD(), buf.SampleRate, vad.WithLogger(app.logger))
	if err != nil {
		return fmt.Errorf("failed to construct pipeline: %w", err)
	}

	analysis, err := pipeline.Process(ctx, buf)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	return app.outputResults(analysis)
}

// outputResults writes the labeled timeline, the optional feature
// timelines, and the optional diagnostics table
func (app *AnalyzeApp) outputResults(analysis *vad.Analysis) error {
	if app.ctx.Diagnostics {
		report.NewDiagnostics(os.Stderr).Print(analysis)
	}

	if app.ctx.FeaturesFile != "" {
		if err := report.WriteFeaturesFile(app.ctx.FeaturesFile, analysis); err != nil {
			return err
		}
		app.logger.Debug("Feature timelines written", logging.Fields{
			"features_file": app.ctx.FeaturesFile,
		})
	}

	if app.ctx.OutputFile != "" {
		if err := report.WriteResultsFileAs(app.ctx.OutputFile, analysis.Results, app.config.OutputFormat); err != nil {
			return err
		}
		app.logger.Debug("Results written", logging.Fields{
			"output_file":   app.ctx.OutputFile,
			"output_format": app.config.OutputFormat,
			"segments":      len(analysis.Results),
		})
		return nil
	}

	return report.WriteResultsAs(os.Stdout, analysis.Results, app.config.OutputFormat)
}
