package ogimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	margin     = 96
	textWidth  = 880
	avatarSize = 72

	labelSize  = 26
	titleSize  = 68
	bodySize   = 32
	footerSize = 28

	maxTitleLines       = 3
	maxDescriptionLines = 2
)

// Renderer draws preview images. It is safe for concurrent use; faces are
// created per call.
type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
	avatar  image.Image
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAvatar draws img as a round portrait next to the author name. Use
// LoadAvatar to prepare it.
func WithAvatar(img image.Image) Option {
	return func(r *Renderer) {
		r.avatar = img
	}
}

// NewRenderer parses the embedded Go fonts and applies opts.
func NewRenderer(opts ...Option) (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ogimage: parse bold font: %w", err)
	}
	r := &Renderer{regular: regular, bold: bold}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

var defaultRenderer = sync.OnceValues(func() (*Renderer, error) {
	return NewRenderer()
})

// Render draws spec with a renderer that has no avatar.
func Render(spec Spec) ([]byte, error) {
	r, err := defaultRenderer()
	if err != nil {
		return nil, err
	}
	return r.Render(spec)
}

// Render draws spec and encodes it as PNG.
func (r *Renderer) Render(spec Spec) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	theme := spec.Theme.withDefaults()

	faces, err := r.newFaces()
	if err != nil {
		return nil, err
	}
	defer faces.close()

	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(theme.Background), image.Point{}, draw.Src)
	drawDecorations(dst, theme, spec.Template)

	y := 150
	if label := spec.label(); label != "" {
		drawText(dst, faces.label, theme.Primary, margin, y, strings.ToUpper(label))
		y += 40
	}

	y += lineHeight(faces.title)
	for _, line := range wrap(faces.title, strings.TrimSpace(spec.Title), maxTitleLines) {
		drawText(dst, faces.title, theme.Text, margin, y, line)
		y += lineHeight(faces.title)
	}

	if spec.Template != TemplatePost && spec.Description != "" {
		y += 8
		for _, line := range wrap(faces.body, spec.Description, maxDescriptionLines) {
			drawText(dst, faces.body, withAlpha(theme.Text, 0xcc), margin, y, line)
			y += lineHeight(faces.body)
		}
	}

	r.drawFooter(dst, faces, theme, spec)

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("ogimage: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawFooter(dst *image.RGBA, faces *faceSet, theme Theme, spec Spec) {
	baseline := Height - 72
	x := margin

	if r.avatar != nil && spec.Author != "" {
		top := baseline - avatarSize + 20
		rect := image.Rect(x, top, x+avatarSize, top+avatarSize)
		mask := &circle{c: image.Pt(avatarSize/2, avatarSize/2), r: avatarSize / 2, a: 0xff}
		draw.DrawMask(dst, rect, r.avatar, r.avatar.Bounds().Min, mask, image.Point{}, draw.Over)
		x += avatarSize + 24
	}

	var parts []string
	if spec.Author != "" {
		parts = append(parts, spec.Author)
	}
	if !spec.Date.IsZero() {
		parts = append(parts, spec.Date.Format("January 2, 2006"))
	}
	if len(parts) == 0 {
		return
	}
	drawText(dst, faces.footer, theme.Text, x, baseline, strings.Join(parts, "  ·  "))
}

// drawDecorations paints the accent bar and the translucent circles that give
// each template its look.
func drawDecorations(dst *image.RGBA, theme Theme, tmpl Template) {
	bar := image.Rect(0, 0, 16, Height)
	draw.Draw(dst, bar, image.NewUniform(theme.Primary), image.Point{}, draw.Src)

	fillCircle(dst, image.Pt(Width-60, 40), 260, theme.Primary, 0x66)
	fillCircle(dst, image.Pt(Width-250, Height+10), 150, theme.Secondary, 0x88)

	switch tmpl {
	case TemplatePost:
		fillCircle(dst, image.Pt(Width-120, Height-200), 36, theme.Secondary, 0xff)
	case TemplateEvent:
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				sq := image.Rect(0, 0, 14, 14).Add(image.Pt(Width-200+i*32, Height-260+j*32))
				draw.Draw(dst, sq, image.NewUniform(withAlpha(theme.Secondary, 0xcc)), image.Point{}, draw.Over)
			}
		}
	default:
		fillCircle(dst, image.Pt(Width-360, 120), 24, theme.Secondary, 0xff)
	}
}

func fillCircle(dst *image.RGBA, c image.Point, radius int, col color.RGBA, alpha uint8) {
	mask := &circle{c: c, r: radius, a: alpha}
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
}

// circle is an alpha mask that is opaque (to a) inside the disc.
type circle struct {
	c image.Point
	r int
	a uint8
}

func (m *circle) ColorModel() color.Model { return color.AlphaModel }

func (m *circle) Bounds() image.Rectangle {
	return image.Rect(m.c.X-m.r, m.c.Y-m.r, m.c.X+m.r, m.c.Y+m.r)
}

func (m *circle) At(x, y int) color.Color {
	dx, dy := x-m.c.X, y-m.c.Y
	if dx*dx+dy*dy < m.r*m.r {
		return color.Alpha{m.a}
	}
	return color.Alpha{0}
}

type faceSet struct {
	label, title, body, footer font.Face
}

func (r *Renderer) newFaces() (*faceSet, error) {
	newFace := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	fs := &faceSet{}
	var err error
	if fs.label, err = newFace(r.bold, labelSize); err != nil {
		return nil, fmt.Errorf("ogimage: label face: %w", err)
	}
	if fs.title, err = newFace(r.bold, titleSize); err != nil {
		return nil, fmt.Errorf("ogimage: title face: %w", err)
	}
	if fs.body, err = newFace(r.regular, bodySize); err != nil {
		return nil, fmt.Errorf("ogimage: body face: %w", err)
	}
	if fs.footer, err = newFace(r.regular, footerSize); err != nil {
		return nil, fmt.Errorf("ogimage: footer face: %w", err)
	}
	return fs, nil
}

func (fs *faceSet) close() {
	for _, f := range []font.Face{fs.label, fs.title, fs.body, fs.footer} {
		if f != nil {
			f.Close()
		}
	}
}

func drawText(dst *image.RGBA, face font.Face, col color.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func lineHeight(face font.Face) int {
	return face.Metrics().Height.Ceil() * 11 / 10
}

// wrap breaks s into at most maxLines lines that fit textWidth. Overflowing
// text is cut and the last line ends in an ellipsis.
func wrap(face font.Face, s string, maxLines int) []string {
	limit := fixed.I(textWidth)
	words := strings.Fields(s)
	var lines []string
	line := ""
	truncated := false
	for i, w := range words {
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if line == "" || font.MeasureString(face, candidate) <= limit {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
		if len(lines) == maxLines {
			rest := strings.Join(words[i:], " ")
			lines[maxLines-1] += " " + rest
			line = ""
			truncated = true
			break
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	for i, l := range lines {
		last := truncated && i == len(lines)-1
		if last || font.MeasureString(face, l) > limit {
			lines[i] = ellipsize(face, l, limit)
		}
	}
	return lines
}

// ellipsize returns the longest prefix of s that fits within limit once an
// ellipsis is appended.
func ellipsize(face font.Face, s string, limit fixed.Int26_6) string {
	const ellipsis = "…"
	runes := []rune(strings.TrimSpace(s))
	fits := func(n int) bool {
		return font.MeasureString(face, strings.TrimRight(string(runes[:n]), " ")+ellipsis) <= limit
	}
	// Prefix width grows with n, so the cut point can be found by bisection.
	n := sort.Search(len(runes)+1, func(n int) bool { return !fits(n) }) - 1
	for n > 0 && !fits(n) {
		n--
	}
	if n <= 0 {
		return ellipsis
	}
	return strings.TrimRight(string(runes[:n]), " ") + ellipsis
}

func withAlpha(c color.RGBA, a uint8) color.RGBA {
	// color.RGBA is alpha-premultiplied.
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(a) / 0xff),
		G: uint8(uint16(c.G) * uint16(a) / 0xff),
		B: uint8(uint16(c.B) * uint16(a) / 0xff),
		A: a,
	}
}
