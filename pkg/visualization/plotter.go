package visualization

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	"quadfit/pkg/approximation"
)

// ErrNothingToPlot is returned when no finite point is available
var ErrNothingToPlot = errors.New("nothing to plot")

var (
	backgroundColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	frameColor      = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	gridColor       = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	curveColor      = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	residualColor   = color.RGBA{R: 60, G: 160, B: 60, A: 255}
	sampleColor     = color.RGBA{R: 210, G: 40, B: 40, A: 255}
)

const (
	markerRadius = 3
	gridLines    = 5

	// residual dash pattern in pixels
	dashOn  = 6
	dashOff = 3
)

// Plotter draws sample points and a fitted curve into a raster image.
// The curve is drawn as a polyline through its points in order, residuals as
// dashed vertical segments from each sample to the model's prediction, and
// samples on top as square markers.
type Plotter struct {
	width  int
	height int
	margin int
}

// NewPlotter creates a plotter producing width x height images with the
// given margin around the plot area
func NewPlotter(width, height, margin int) *Plotter {
	return &Plotter{
		width:  width,
		height: height,
		margin: margin,
	}
}

// bounds is the data range mapped onto the plot area
type bounds struct {
	minX, maxX float64
	minY, maxY float64
}

// Render draws samples, curve and, when model is not nil, the residual of
// each sample. Points with non-finite coordinates are skipped. Residuals
// reaching outside the sample and curve range are clipped.
func (p *Plotter) Render(samples, curve []approximation.Point2D, model *approximation.PolynomialResult) (*image.RGBA, error) {
	if p.width <= 0 || p.height <= 0 || 2*p.margin >= p.width || 2*p.margin >= p.height {
		return nil, fmt.Errorf("invalid plot size %dx%d with margin %d", p.width, p.height, p.margin)
	}

	samples = finitePoints(samples)
	curve = finitePoints(curve)

	b, ok := dataBounds(samples, curve)
	if !ok {
		return nil, ErrNothingToPlot
	}

	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	p.drawGrid(img)

	for i := 1; i < len(curve); i++ {
		x0, y0 := p.toPixel(curve[i-1], b)
		x1, y1 := p.toPixel(curve[i], b)
		drawLine(img, x0, y0, x1, y1, curveColor)
	}

	if model != nil {
		for _, s := range samples {
			predicted := approximation.Point2D{X: s.X, Y: model.EvaluateAt(s.X)}
			if math.IsNaN(predicted.Y) || math.IsInf(predicted.Y, 0) {
				continue
			}
			x0, y0 := p.toPixel(s, b)
			x1, y1 := p.toPixel(predicted, b)
			drawDashedLine(img, x0, y0, x1, y1, residualColor)
		}
	}

	for _, s := range samples {
		x, y := p.toPixel(s, b)
		drawMarker(img, x, y, sampleColor)
	}

	return img, nil
}

// PixelOf returns the pixel a data point maps to for the given samples and
// curve, the same mapping Render uses.
func (p *Plotter) PixelOf(point approximation.Point2D, samples, curve []approximation.Point2D) (image.Point, error) {
	b, ok := dataBounds(finitePoints(samples), finitePoints(curve))
	if !ok {
		return image.Point{}, ErrNothingToPlot
	}
	x, y := p.toPixel(point, b)
	return image.Pt(x, y), nil
}

func (p *Plotter) toPixel(pt approximation.Point2D, b bounds) (int, int) {
	plotW := float64(p.width - 2*p.margin - 1)
	plotH := float64(p.height - 2*p.margin - 1)

	fx := (pt.X - b.minX) / (b.maxX - b.minX)
	fy := (pt.Y - b.minY) / (b.maxY - b.minY)

	x := p.margin + int(math.Round(fx*plotW))
	y := p.height - 1 - p.margin - int(math.Round(fy*plotH))
	return x, y
}

func (p *Plotter) drawGrid(img *image.RGBA) {
	left, right := p.margin, p.width-1-p.margin
	top, bottom := p.margin, p.height-1-p.margin

	for i := 1; i < gridLines; i++ {
		x := left + (right-left)*i/gridLines
		y := top + (bottom-top)*i/gridLines
		drawLine(img, x, top, x, bottom, gridColor)
		drawLine(img, left, y, right, y, gridColor)
	}

	drawLine(img, left, top, right, top, frameColor)
	drawLine(img, left, bottom, right, bottom, frameColor)
	drawLine(img, left, top, left, bottom, frameColor)
	drawLine(img, right, top, right, bottom, frameColor)
}

// dataBounds spans every point; a degenerate axis is widened by one unit on
// each side.
func dataBounds(sets ...[]approximation.Point2D) (bounds, bool) {
	var xs, ys []float64
	for _, set := range sets {
		xs = append(xs, approximation.XValues(set)...)
		ys = append(ys, approximation.YValues(set)...)
	}
	if len(xs) == 0 {
		return bounds{}, false
	}

	b := bounds{
		minX: floats.Min(xs),
		maxX: floats.Max(xs),
		minY: floats.Min(ys),
		maxY: floats.Max(ys),
	}
	if b.maxX == b.minX {
		b.minX--
		b.maxX++
	}
	if b.maxY == b.minY {
		b.minY--
		b.maxY++
	}
	return b, true
}

func finitePoints(points []approximation.Point2D) []approximation.Point2D {
	out := make([]approximation.Point2D, 0, len(points))
	for _, pt := range points {
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.X, 0) || math.IsInf(pt.Y, 0) {
			continue
		}
		out = append(out, pt)
	}
	return out
}

// drawLine rasterises a solid segment
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	rasterise(x0, y0, x1, y1, func(x, y, _ int) {
		img.SetRGBA(x, y, c)
	})
}

// drawDashedLine rasterises a segment starting with a dash at (x0, y0)
func drawDashedLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	rasterise(x0, y0, x1, y1, func(x, y, step int) {
		if step%(dashOn+dashOff) < dashOn {
			img.SetRGBA(x, y, c)
		}
	})
}

// rasterise walks a segment with Bresenham's algorithm, calling plot for
// every pixel with its index along the segment
func rasterise(x0, y0, x1, y1 int, plot func(x, y, step int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for step := 0; ; step++ {
		plot(x0, y0, step)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func drawMarker(img *image.RGBA, cx, cy int, c color.RGBA) {
	for y := cy - markerRadius; y <= cy+markerRadius; y++ {
		for x := cx - markerRadius; x <= cx+markerRadius; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Save writes img to filename, choosing PNG or JPEG from the extension
func Save(img image.Image, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return SavePNG(img, filename)
	case ".jpg", ".jpeg":
		return SaveJPEG(img, filename)
	default:
		return fmt.Errorf("unsupported image format: %q", filepath.Ext(filename))
	}
}

// SaveJPEG saves img as a JPEG image
func SaveJPEG(img image.Image, filename string) error {
	file, err := create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SavePNG saves img as a PNG image
func SavePNG(img image.Image, filename string) error {
	file, err := create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

func create(filename string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, err
	}
	return os.Create(filename)
}
