package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/lumen-data/multiphase/internal/grouping"
	"github.com/lumen-data/multiphase/internal/model"
)

// floorOutlineColor draws room floor outlines behind the aperture
// markers.
var floorOutlineColor = color.RGBA{R: 158, G: 158, B: 158, A: 255}

// WritePlanPNG saves a plan-view PNG of the model: room floor outlines
// in gray, aperture centers as glyphs colored per group with a legend.
// Apertures outside every record plot under the static label.
func WritePlanPNG(path string, m *model.Model, records []grouping.GroupRecord, title string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	// Floor outlines first so group glyphs draw on top.
	for _, room := range m.Rooms {
		for _, face := range room.Faces {
			if face.FaceType != model.FaceTypeFloor {
				continue
			}
			outline := make(plotter.XYs, 0, len(face.Geometry.Boundary)+1)
			for _, v := range face.Geometry.Boundary {
				outline = append(outline, plotter.XY{X: v.X, Y: v.Y})
			}
			if len(outline) > 0 {
				outline = append(outline, outline[0])
			}
			line, err := plotter.NewLine(outline)
			if err != nil {
				return fmt.Errorf("floor outline for %s: %w", face.Identifier, err)
			}
			line.Color = floorOutlineColor
			line.Width = vg.Points(1)
			p.Add(line)
		}
	}

	grouped := make(map[string]bool)
	colors := groupColors(len(records))
	for i, rec := range records {
		pts := make(plotter.XYs, 0, len(rec.Apertures))
		for _, id := range rec.Apertures {
			ap, ok := m.ApertureByIdentifier(id)
			if !ok {
				return fmt.Errorf("group %s references unknown aperture %q", rec.Identifier, id)
			}
			grouped[id] = true
			c := ap.Center()
			pts = append(pts, plotter.XY{X: c.X, Y: c.Y})
		}
		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter for %s: %w", rec.Identifier, err)
		}
		scatter.GlyphStyle.Color = colors[i]
		scatter.GlyphStyle.Radius = vg.Points(4)
		p.Add(scatter)
		p.Legend.Add(rec.Identifier, scatter)
	}

	// Remaining apertures are the static set.
	var staticPts plotter.XYs
	for _, ap := range m.Apertures() {
		if grouped[ap.Identifier] {
			continue
		}
		c := ap.Center()
		staticPts = append(staticPts, plotter.XY{X: c.X, Y: c.Y})
	}
	if len(staticPts) > 0 {
		scatter, err := plotter.NewScatter(staticPts)
		if err != nil {
			return fmt.Errorf("scatter for static apertures: %w", err)
		}
		scatter.GlyphStyle.Color = floorOutlineColor
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(scatter)
		p.Legend.Add(grouping.StaticName, scatter)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(10*vg.Inch, 10*vg.Inch, path); err != nil {
		return fmt.Errorf("save plan plot: %w", err)
	}
	return nil
}

// groupColors creates a palette of distinct colors for group glyphs.
func groupColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
