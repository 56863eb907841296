// Package layout draws a diagram of window bounds as a PNG image.
package layout

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mj1618/backtick/internal/model"
)

// DefaultMaxSize is the default length of the image's longer side in pixels.
const DefaultMaxSize = 1600

// ErrNoWindows is returned when there is nothing to draw.
var ErrNoWindows = errors.New("no windows with non-empty bounds")

// Options controls rendering.
type Options struct {
	MaxSize int // Longer side of the image in pixels (0 = DefaultMaxSize)
	Padding int // Margin around the union of all bounds, in pixels
}

var (
	background   = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	boxColor     = color.RGBA{R: 120, G: 160, B: 255, A: 255}
	frontColor   = color.RGBA{R: 255, G: 80, B: 80, A: 255}
	frontFill    = color.RGBA{R: 255, G: 80, B: 80, A: 40}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)

// Render draws every window in windows, which are ordered front to back.
// The focused window, or the first one when none is marked, is highlighted
// and drawn last so it is never hidden.
func Render(windows []model.Window, opts Options) (*image.RGBA, error) {
	visible := make([]model.Window, 0, len(windows))
	for _, w := range windows {
		if w.Bounds[2] > 0 && w.Bounds[3] > 0 {
			visible = append(visible, w)
		}
	}
	if len(visible) == 0 {
		return nil, ErrNoWindows
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	pad := opts.Padding
	if pad < 0 {
		pad = 0
	}

	union := unionBounds(visible)
	scale := float64(maxSize-2*pad) / float64(max(union.Dx(), union.Dy()))
	if scale <= 0 {
		return nil, fmt.Errorf("padding %d leaves no room in a %dpx image", pad, maxSize)
	}

	width := px(union.Dx(), scale) + 2*pad
	height := px(union.Dy(), scale) + 2*pad
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	front := frontIndex(visible)
	toImage := func(b [4]int) image.Rectangle {
		x := pad + px(b[0]-union.Min.X, scale)
		y := pad + px(b[1]-union.Min.Y, scale)
		return image.Rect(x, y, x+px(b[2], scale), y+px(b[3], scale))
	}

	// Back to front so nearer windows overdraw farther ones.
	for i := len(visible) - 1; i >= 0; i-- {
		if i == front {
			continue
		}
		drawWindow(img, visible[i], toImage(visible[i].Bounds), boxColor)
	}
	r := toImage(visible[front].Bounds)
	draw.Draw(img, r, image.NewUniform(frontFill), image.Point{}, draw.Over)
	drawWindow(img, visible[front], r, frontColor)

	return img, nil
}

// WritePNG encodes img to w as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Label returns the caption drawn for a window.
func Label(w model.Window) string {
	if w.Title == "" {
		return fmt.Sprintf("[%d] %s", w.ID, w.App)
	}
	return fmt.Sprintf("[%d] %s", w.ID, w.Title)
}

func px(points int, scale float64) int {
	return int(math.Round(float64(points) * scale))
}

func unionBounds(windows []model.Window) image.Rectangle {
	var u image.Rectangle
	for i, w := range windows {
		r := image.Rect(w.Bounds[0], w.Bounds[1], w.Bounds[0]+w.Bounds[2], w.Bounds[1]+w.Bounds[3])
		if i == 0 {
			u = r
			continue
		}
		u = u.Union(r)
	}
	return u
}

func frontIndex(windows []model.Window) int {
	for i, w := range windows {
		if w.Focused {
			return i
		}
	}
	return 0
}

func drawWindow(img *image.RGBA, w model.Window, r image.Rectangle, c color.Color) {
	drawRectangle(img, r, c)
	// Label sits just inside the top-left corner, clipped to the box width.
	label := Label(w)
	if maxChars := (r.Dx() - 4) / 7; maxChars < len(label) {
		if maxChars <= 0 {
			return
		}
		label = label[:maxChars]
	}
	drawTextWithOutline(img, label, r.Min.X+3, r.Min.Y+13, textColor, outlineColor)
}

// drawRectangle draws a two-pixel outline of r, clamped to the image.
func drawRectangle(img *image.RGBA, r image.Rectangle, c color.Color) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for inset := 0; inset < 2; inset++ {
		x1, y1, x2, y2 := r.Min.X+inset, r.Min.Y+inset, r.Max.X-1-inset, r.Max.Y-1-inset
		if x2 < x1 || y2 < y1 {
			return
		}
		for x := x1; x <= x2; x++ {
			img.Set(x, y1, c)
			img.Set(x, y2, c)
		}
		for y := y1; y <= y2; y++ {
			img.Set(x1, y, c)
			img.Set(x2, y, c)
		}
	}
}

// drawTextWithOutline draws text with its baseline starting at (x, y).
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, x+dx, y+dy, outlineColor)
		}
	}
	drawString(img, text, x, y, textColor)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
