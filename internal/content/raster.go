package content

import (
	"fmt"
	"image"
	"strings"

	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/vrtherapy/internal/logger"
)

const (
	// pixelsPerUnit converts a panel font size in world units to pixels.
	pixelsPerUnit = 480
	minTextPx     = 12
	maxTextPx     = 40
	titleScale    = 1.4
	padding       = 16
)

// Rasterizer draws panels into RGBA images.
type Rasterizer struct {
	font     *opentype.Font
	width    int
	faces    map[int]font.Face
	fallback bool
}

// NewRasterizer parses fontData and lays panels out width pixels wide.
// Go Regular is used when fontData is empty or cannot be parsed.
func NewRasterizer(fontData []byte, width int) (*Rasterizer, error) {
	if width <= 2*padding {
		return nil, fmt.Errorf("panel width %d too small", width)
	}

	r := &Rasterizer{width: width, faces: make(map[int]font.Face)}
	if len(fontData) > 0 {
		f, err := opentype.Parse(fontData)
		if err == nil {
			r.font = f
			return r, nil
		}
		logger.Warn("panel font unusable, falling back to Go Regular", zap.Error(err))
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse fallback font: %w", err)
	}
	r.font = f
	r.fallback = true
	return r, nil
}

// Fallback reports whether the built-in font is in use.
func (r *Rasterizer) Fallback() bool {
	return r.fallback
}

// Width returns the panel width in pixels.
func (r *Rasterizer) Width() int {
	return r.width
}

func (r *Rasterizer) face(px int) (font.Face, error) {
	if f, ok := r.faces[px]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
		Size:    float64(px),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	r.faces[px] = f
	return f, nil
}

// TextSize returns the body and title pixel sizes for a panel.
func TextSize(p Panel) (body, title int) {
	body = int(p.FontSize*pixelsPerUnit + 0.5)
	if body < minTextPx {
		body = minTextPx
	}
	if body > maxTextPx {
		body = maxTextPx
	}
	return body, int(float32(body)*titleScale + 0.5)
}

type line struct {
	text string
	face font.Face
}

// Render draws p onto a new image. pic is drawn above the caption when
// the panel has an image; nil skips it.
func (r *Rasterizer) Render(p Panel, pic image.Image) (*image.RGBA, error) {
	bodyPx, titlePx := TextSize(p)
	bodyFace, err := r.face(bodyPx)
	if err != nil {
		return nil, fmt.Errorf("body face: %w", err)
	}
	titleFace, err := r.face(titlePx)
	if err != nil {
		return nil, fmt.Errorf("title face: %w", err)
	}

	inner := r.width - 2*padding
	var lines []line
	for _, l := range p.TitleLines() {
		for _, w := range wrap(titleFace, l, inner) {
			lines = append(lines, line{w, titleFace})
		}
	}
	if len(lines) > 0 && p.Body != "" {
		lines = append(lines, line{"", bodyFace})
	}
	for _, l := range p.BodyLines() {
		for _, w := range wrap(bodyFace, l, inner) {
			lines = append(lines, line{w, bodyFace})
		}
	}

	var picRect image.Rectangle
	height := padding
	if pic != nil && p.HasImage() {
		pw := int(float32(inner) * p.ImageScale[0])
		ph := int(float32(inner) * p.ImageScale[1])
		x := padding + (inner-pw)/2
		picRect = image.Rect(x, height, x+pw, height+ph)
		height += ph + padding
	}
	for _, l := range lines {
		height += l.face.Metrics().Height.Ceil()
	}
	height += padding

	dst := image.NewRGBA(image.Rect(0, 0, r.width, height))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(p.Background()), image.Point{}, xdraw.Src)

	if !picRect.Empty() {
		xdraw.CatmullRom.Scale(dst, picRect, pic, pic.Bounds(), xdraw.Over, nil)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(p.TextColor())}
	y := padding
	if !picRect.Empty() {
		y = picRect.Max.Y + padding
	}
	for _, l := range lines {
		m := l.face.Metrics()
		d.Face = l.face
		d.Dot = fixed.P(padding, y+m.Ascent.Ceil())
		d.DrawString(l.text)
		y += m.Height.Ceil()
	}
	return dst, nil
}

// labelPadding surrounds label text.
const labelPadding = 6

// Label draws a single line of white text on a translucent plate sized to
// fit it. px is clamped like panel text.
func (r *Rasterizer) Label(text string, px int) (*image.RGBA, error) {
	if px < minTextPx {
		px = minTextPx
	}
	face, err := r.face(px)
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}

	m := face.Metrics()
	w := font.MeasureString(face, text).Ceil() + 2*labelPadding
	h := m.Height.Ceil() + 2*labelPadding

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(labelBackground), image.Point{}, xdraw.Src)

	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	d.Dot = fixed.P(labelPadding, labelPadding+m.Ascent.Ceil())
	d.DrawString(text)
	return dst, nil
}

// Close releases cached faces.
func (r *Rasterizer) Close() error {
	for px, f := range r.faces {
		_ = f.Close()
		delete(r.faces, px)
	}
	return nil
}

// wrap breaks s into lines no wider than maxWidth pixels. A single word
// wider than maxWidth gets a line of its own.
func wrap(face font.Face, s string, maxWidth int) []string {
	limit := fixed.I(maxWidth)
	if font.MeasureString(face, s) <= limit {
		return []string{s}
	}

	var out []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}
		candidate := cur.String() + " " + word
		if font.MeasureString(face, candidate) > limit {
			out = append(out, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}
		cur.WriteString(" " + word)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
