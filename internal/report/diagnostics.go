package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vocadian/vocadian/pkg/vad"
)

// Diagnostics renders a per-segment summary of every feature value against
// its threshold, colored green on pass and red on fail. It is a human
// debugging aid only; machine consumers use the JSON export.
type Diagnostics struct {
	out     io.Writer
	printer *message.Printer

	pass  lipgloss.Style
	fail  lipgloss.Style
	title lipgloss.Style
	label lipgloss.Style
}

// NewDiagnostics creates a diagnostics reporter writing to out
func NewDiagnostics(out io.Writer) *Diagnostics {
	return &Diagnostics{
		out:     out,
		printer: message.NewPrinter(language.English),
		pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// Print writes the classification summary for every segment, pairing each
// smoothed feature value with its pass/fail status
func (d *Diagnostics) Print(analysis *vad.Analysis) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.title.Render("=== Segment Classification Summary ==="))
	fmt.Fprintln(d.out)

	// The analysis slices are parallel by construction; bound by the
	// shortest so a hand-assembled partial Analysis cannot panic here
	n := min(len(analysis.Evaluations), len(analysis.Results), len(analysis.SmoothedFeatures))
	for i := 0; i < n; i++ {
		ev := analysis.Evaluations[i]
		fv := analysis.SmoothedFeatures[i]

		fmt.Fprintf(d.out, "Second %d:\n", analysis.Results[i].StartTime)
		fmt.Fprintf(d.out, "  Label:            %s\n",
			d.label.Render(strings.ToUpper(string(ev.Label))))
		fmt.Fprintf(d.out, "  Energy:           %s\n",
			d.render(ev.EnergyPass, d.printer.Sprintf("%.2f", fv.Energy)))
		fmt.Fprintf(d.out, "  Flatness:         %s\n",
			d.render(ev.FlatnessPass, fmt.Sprintf("%.3f", fv.SpectralFlatness)))
		fmt.Fprintf(d.out, "  Pitch:            %s\n",
			d.render(ev.PitchPass, fmt.Sprintf("%.1f Hz", fv.PitchHz)))
		fmt.Fprintf(d.out, "  Voicing Prob:     %s\n",
			d.render(ev.VoicingPass, fmt.Sprintf("%.3f", fv.VoicingProbability)))
		fmt.Fprintf(d.out, "  Voice Band Ratio: %s\n",
			d.render(ev.VBRPass, fmt.Sprintf("%.3f", fv.VoiceBandRatio)))
		fmt.Fprintln(d.out, strings.Repeat("-", 40))
	}
}

func (d *Diagnostics) render(pass bool, value string) string {
	if pass {
		return d.pass.Render(value)
	}
	return d.fail.Render(value)
}
