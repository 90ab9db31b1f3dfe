package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/JonnyWalker81/yearinmotion/internal/models"
)

// Share card scale bounds. The card is laid out at 1x and resampled.
const (
	DefaultScale = 2
	MaxScale     = 4
)

const (
	cardWidth   = 360
	cardHeight  = 480
	cardPadding = 24
	chartHeight = 72
	barGap      = 8
)

var (
	gradientFrom = color.RGBA{R: 0xfc, G: 0x4c, B: 0x02, A: 0xff}
	gradientTo   = color.RGBA{R: 0xff, G: 0x8c, B: 0x00, A: 0xff}
	textColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelColor   = color.RGBA{R: 0xff, G: 0xe8, B: 0xd6, A: 0xff}
	ruleColor    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33}
	barColor     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb3}
)

// ErrInvalidScale is returned for scales outside 1..MaxScale.
var ErrInvalidScale = errors.New("share card scale out of range")

// ShareCardOptions tunes the rendered image.
type ShareCardOptions struct {
	// Scale multiplies the 360x480 layout. Zero means DefaultScale.
	Scale int
}

// ShareCardFileName is the download name for a year's card.
func ShareCardFileName(year int) string {
	return fmt.Sprintf("Strava-%d-Review.png", year)
}

// ShareCard draws the summary card for a review.
func ShareCard(review *models.Review, opts ShareCardOptions) (image.Image, error) {
	if review == nil || review.Stats == nil {
		return nil, errors.New("share card needs a review with stats")
	}

	scale := opts.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, scale)
	}

	d := NewDashboard(review)
	card := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	fillGradient(card)

	title := inconsolata.Bold8x16
	small := basicfont.Face7x13

	y := cardPadding
	y = drawText(card, fmt.Sprintf("STRAVA %d REVIEW", d.Year), cardPadding, y, title, 1, textColor) + 20

	y = drawText(card, "Total Distance", cardPadding, y, small, 1, labelColor) + 4
	y = drawText(card, d.Distance.Value, cardPadding, y, title, 3, textColor) + 14

	y = drawText(card, "Activities", cardPadding, y, small, 1, labelColor) + 4
	y = drawText(card, d.Activities.Value, cardPadding, y, title, 2, textColor) + 14

	half := cardWidth / 2
	drawText(card, "Elevation", cardPadding, y, small, 1, labelColor)
	rowY := drawText(card, "Time", half, y, small, 1, labelColor) + 4
	drawText(card, d.Elevation.Value, cardPadding, rowY, title, 1, textColor)
	y = drawText(card, d.TotalTime, half, rowY, title, 1, textColor) + 20

	drawWeekChart(card, review.Stats.DayDistribution, y, small)

	footerY := cardHeight - cardPadding - 13
	rule := image.Rect(cardPadding, footerY-12, cardWidth-cardPadding, footerY-11)
	draw.Draw(card, rule, image.NewUniform(ruleColor), image.Point{}, draw.Over)

	footer := "STRAVA // YEAR IN MOTION"
	footerX := (cardWidth - font.MeasureString(small, footer).Ceil()) / 2
	drawText(card, footer, footerX, footerY, small, 1, textColor)

	if scale == 1 {
		return card, nil
	}
	return resize.Resize(uint(cardWidth*scale), uint(cardHeight*scale), card, resize.Lanczos3), nil
}

// EncodeShareCard renders the card and writes it as PNG.
func EncodeShareCard(w io.Writer, review *models.Review, opts ShareCardOptions) error {
	img, err := ShareCard(review, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// fillGradient paints a diagonal gradient from gradientFrom to gradientTo.
func fillGradient(img *image.RGBA) {
	b := img.Bounds()
	span := float64(b.Dx() + b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			t := float64(x+y) / span
			img.SetRGBA(x, y, color.RGBA{
				R: lerp(gradientFrom.R, gradientTo.R, t),
				G: lerp(gradientFrom.G, gradientTo.G, t),
				B: lerp(gradientFrom.B, gradientTo.B, t),
				A: 0xff,
			})
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawText renders s with its top-left corner at (x, top), enlarged factor
// times with nearest-neighbour sampling so bitmap glyphs stay crisp.
// It returns the y coordinate just below the text.
func drawText(dst draw.Image, s string, x, top int, face font.Face, factor int, col color.Color) int {
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()
	width := font.MeasureString(face, s).Ceil()
	if width == 0 {
		return top + height*factor
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, m.Ascent.Ceil()),
	}
	d.DrawString(s)

	var src image.Image = glyphs
	if factor > 1 {
		src = resize.Resize(uint(width*factor), uint(height*factor), glyphs, resize.NearestNeighbor)
	}

	sb := src.Bounds()
	draw.Draw(dst, sb.Sub(sb.Min).Add(image.Pt(x, top)), src, sb.Min, draw.Over)
	return top + sb.Dy()
}

// drawWeekChart draws one bar per weekday, Sunday first, scaled to the busiest day.
func drawWeekChart(dst *image.RGBA, days [7]int, top int, face font.Face) {
	peak := 0
	for _, c := range days {
		peak = max(peak, c)
	}

	slot := (cardWidth - 2*cardPadding) / len(days)
	barWidth := slot - barGap
	baseline := top + chartHeight

	for i, c := range days {
		x := cardPadding + i*slot + barGap/2
		if peak > 0 && c > 0 {
			h := max(c*chartHeight/peak, 2)
			bar := image.Rect(x, baseline-h, x+barWidth, baseline)
			draw.Draw(dst, bar, image.NewUniform(barColor), image.Point{}, draw.Over)
		}

		label := models.DayLabels[i]
		lx := x + (barWidth-font.MeasureString(face, label).Ceil())/2
		drawText(dst, label, lx, baseline+4, face, 1, labelColor)
	}
}
