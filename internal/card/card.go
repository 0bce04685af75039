// Package card renders a finished run as a shareable PNG bar chart.
package card

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/verte-zerg/inkblade/internal/model"
	"github.com/verte-zerg/inkblade/internal/stats"
)

const (
	canvasW = 800
	canvasH = 450

	chartTop    = 130.0
	chartBottom = 380.0
	barWidth    = 120.0
)

var barColors = []string{"#2563EB", "#DC2626", "#CA8A04"}

// The built-in face only covers ASCII; these stand in for the CJK labels
// when no font file is configured.
var asciiLabels = map[string]string{
	"進度":      "PROGRESS",
	"連擊":      "COMBO",
	"總分":      "TOTAL",
	"玄華界・救贖":  "VICTORY",
	"勝敗乃兵家常事": "DEFEAT",
}

// Options controls rendering. Width 0 keeps the native size.
type Options struct {
	Width    int
	FontPath string
}

// Render draws the end-of-run chart for run.
func Render(run model.RunRecord, opts Options) (image.Image, error) {
	dc := gg.NewContext(canvasW, canvasH)
	dc.SetHexColor("#0F172A")
	dc.Clear()

	hasFont := false
	if opts.FontPath != "" {
		if err := dc.LoadFontFace(opts.FontPath, 28); err != nil {
			return nil, fmt.Errorf("failed to load font %s: %w", opts.FontPath, err)
		}
		hasFont = true
	}
	label := func(s string) string {
		if hasFont {
			return s
		}
		if v, ok := asciiLabels[s]; ok {
			return v
		}
		return s
	}

	dc.SetHexColor("#F8FAFC")
	dc.DrawStringAnchored(label(stats.Headline(run.Outcome)), canvasW/2, 40, 0.5, 0.5)
	dc.SetHexColor("#94A3B8")
	sub := fmt.Sprintf("%s  L%d  SCORE %d  MAX COMBO %d",
		strings.ToUpper(run.Difficulty.String()), run.Level, run.Score, run.MaxCombo)
	dc.DrawStringAnchored(sub, canvasW/2, 80, 0.5, 0.5)

	drawBars(dc, stats.RunBars(run), label)

	img := dc.Image()
	if opts.Width > 0 && opts.Width != canvasW {
		img = imaging.Resize(img, opts.Width, 0, imaging.Lanczos)
	}
	return img, nil
}

func drawBars(dc *gg.Context, bars []stats.Bar, label func(string) string) {
	if len(bars) == 0 {
		return
	}
	slot := float64(canvasW) / float64(len(bars))
	height := chartBottom - chartTop

	// baseline
	dc.SetHexColor("#334155")
	dc.DrawRectangle(40, chartBottom, canvasW-80, 2)
	dc.Fill()

	for i, b := range bars {
		cx := slot*float64(i) + slot/2
		x := cx - barWidth/2

		dc.SetHexColor("#1E293B")
		dc.DrawRoundedRectangle(x, chartTop, barWidth, height, 6)
		dc.Fill()

		h := height * b.Value / 100
		if h > 0 {
			dc.SetHexColor(barColors[i%len(barColors)])
			dc.DrawRoundedRectangle(x, chartBottom-h, barWidth, h, 6)
			dc.Fill()
		}

		dc.SetHexColor("#F8FAFC")
		dc.DrawStringAnchored(fmt.Sprintf("%.0f%%", b.Value), cx, chartBottom-h-14, 0.5, 0.5)
		dc.DrawStringAnchored(label(b.Label), cx, chartBottom+28, 0.5, 0.5)
	}
}

// Save writes img to path; the format follows the file extension.
func Save(path string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("unsupported card format %q: %w", filepath.Ext(path), err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save card: %w", err)
	}
	return nil
}
