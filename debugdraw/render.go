package debugdraw

import (
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"

	"go.viam.com/broadphase/config"
)

var (
	labelFont     *truetype.Font
	labelFontErr  error
	labelFontOnce sync.Once
)

// Font returns the font labels are drawn in.
func Font() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
	})
	return labelFont, labelFontErr
}

// project maps a point onto the view plane. The first coordinate runs right, the second up.
func project(view string, p r3.Vector) (float64, float64) {
	switch view {
	case config.ViewXZ:
		return p.X, p.Z
	case config.ViewZY:
		return p.Z, p.Y
	default:
		return p.X, p.Y
	}
}

// Render rasterizes the render list as an orthographic projection scaled to fit the image.
func (w *Wireframe) Render(rc config.RenderConfig) (image.Image, error) {
	if err := rc.Validate("render"); err != nil {
		return nil, err
	}
	bg, err := config.ParseHexColor(rc.Background)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(rc.Width, rc.Height)
	dc.SetColor(bg)
	dc.Clear()

	lines := w.Lines()
	if len(lines) == 0 {
		return dc.Image(), nil
	}

	minU, minV := math.Inf(1), math.Inf(1)
	maxU, maxV := math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range []r3.Vector{l.A, l.B} {
			u, v := project(rc.View, p)
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
	}

	usableW := float64(rc.Width) - 2*rc.Margin
	usableH := float64(rc.Height) - 2*rc.Margin
	scale := 1.0
	if spanU, spanV := maxU-minU, maxV-minV; spanU > 0 || spanV > 0 {
		scale = math.Min(usableW/math.Max(spanU, 1e-12), usableH/math.Max(spanV, 1e-12))
	}
	// center the drawing in the image
	offU := rc.Margin + (usableW-(maxU-minU)*scale)/2
	offV := rc.Margin + (usableH-(maxV-minV)*scale)/2
	toPixel := func(p r3.Vector) (float64, float64) {
		u, v := project(rc.View, p)
		return offU + (u-minU)*scale, float64(rc.Height) - (offV + (v-minV)*scale)
	}

	dc.SetLineWidth(rc.LineWidth)
	for _, l := range lines {
		x1, y1 := toPixel(l.A)
		x2, y2 := toPixel(l.B)
		dc.SetColor(l.Color)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	if rc.Labels {
		f, err := Font()
		if err != nil {
			return nil, errors.Wrap(err, "failed to load label font")
		}
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: rc.FontSize}))
		for _, c := range w.cubes {
			x, y := toPixel(c.Box.Center())
			dc.SetColor(c.Color)
			dc.DrawStringAnchored(c.Label, x, y, 0.5, 0.5)
		}
	}
	return dc.Image(), nil
}

// RenderPNG renders the render list and writes it to path as a PNG.
func (w *Wireframe) RenderPNG(path string, rc config.RenderConfig) error {
	img, err := w.Render(rc)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return errors.Wrapf(err, "failed to write %q", path)
	}
	return nil
}
