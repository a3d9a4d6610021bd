package report

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/aria-lang/compseq-go/internal/pairwise"
)

// HistogramBins is the number of bins over [0, 100].
const HistogramBins = 20

var (
	identityColor   = color.RGBA{R: 66, G: 133, B: 244, A: 160}
	similarityColor = color.RGBA{R: 219, G: 68, B: 55, A: 160}
)

// Histogram draws the identity and similarity distributions of the aligned
// pairs to file. The image format follows the file extension: png, svg,
// pdf, eps, jpg or tif.
func Histogram(results []*pairwise.Result, file string) error {
	identities := make(plotter.Values, 0, len(results))
	similarities := make(plotter.Values, 0, len(results))
	for _, r := range results {
		if r.Skipped {
			continue
		}
		identities = append(identities, float64(r.Identity))
		similarities = append(similarities, float64(r.Similarity))
	}
	if len(identities) == 0 {
		return fmt.Errorf("no aligned pairs to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d aligned pairs", len(identities))
	p.X.Label.Text = "percent"
	p.Y.Label.Text = "pairs"
	p.X.Min, p.X.Max = 0, 100

	for _, h := range []struct {
		name   string
		values plotter.Values
		color  color.Color
	}{
		{"identity", identities, identityColor},
		{"similarity", similarities, similarityColor},
	} {
		hist, err := plotter.NewHist(h.values, HistogramBins)
		if err != nil {
			return errors.Wrapf(err, "%s histogram", h.name)
		}
		hist.FillColor = h.color
		hist.LineStyle.Width = vg.Length(0)
		p.Add(hist)
		p.Legend.Add(h.name, hist)
	}
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, file); err != nil {
		return errors.Wrapf(err, "save %s", file)
	}
	return nil
}
