package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotUpdates charts the number of objects moved per replayed step.
func PlotUpdates(counts []float64, width, height int) string {
	if len(counts) == 0 {
		return Subtle.Render("no steps replayed")
	}
	if len(counts) == 1 {
		counts = append(counts, counts[0])
	}
	return asciigraph.Plot(counts,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("objects updated per step"),
	)
}
