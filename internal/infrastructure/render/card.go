// Package render draws rise up cards as PNG images.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
	pkgdiscord "riseup/pkg/discord"
)

const (
	width        = 400
	bannerHeight = 120
	padding      = 12
	lineHeight   = 18
)

var (
	background = color.RGBA{R: 0x2b, G: 0x2d, B: 0x31, A: 0xff}
	banner     = color.RGBA{R: 0x40, G: 0x44, B: 0x4b, A: 0xff}
	textColor  = color.RGBA{R: 0xf2, G: 0xf3, B: 0xf5, A: 0xff}
	dimColor   = color.RGBA{R: 0x94, G: 0x9b, B: 0xa4, A: 0xff}
	lateColor  = color.RGBA{R: 0xf0, G: 0xb2, B: 0x32, A: 0xff}
	fullColor  = color.RGBA{R: 0x23, G: 0xa5, B: 0x5a, A: 0xff}
)

var _ output.Renderer = (*CardRenderer)(nil)

// CardRenderer draws a banner with the game art, the header line and the
// attending and unavailable lists. Game art paths are resolved against
// assetDir and decoded images are cached.
type CardRenderer struct {
	assetDir string
	text     output.Localizer
	labels   labels

	mu    sync.Mutex
	cache map[string]image.Image
}

type labels struct {
	available   string
	unavailable string
	late        string
}

// NewCardRenderer creates a renderer whose section labels come from text.
func NewCardRenderer(assetDir string, text output.Localizer) *CardRenderer {
	return &CardRenderer{
		assetDir: assetDir,
		text:     text,
		labels: labels{
			available:   text.Msg("card.available", nil),
			unavailable: text.Msg("card.unavailable", nil),
			late:        text.Msg("card.late", nil),
		},
		cache: make(map[string]image.Image),
	}
}

type line struct {
	text  string
	color color.Color
}

func (r *CardRenderer) Render(ctx context.Context, card entities.CardSnapshot) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := r.cardLines(card)
	height := bannerHeight + padding*2 + lineHeight*len(lines)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	bannerRect := image.Rect(0, 0, width, bannerHeight)
	if art := r.art(card.Activity.ImagePath); art != nil {
		draw.CatmullRom.Scale(img, bannerRect, art, art.Bounds(), draw.Src, nil)
	} else {
		draw.Draw(img, bannerRect, image.NewUniform(banner), image.Point{}, draw.Src)
		drawText(img, padding, bannerHeight/2+4, card.Activity.Name, textColor)
	}

	y := bannerHeight + padding + lineHeight - 4
	for _, l := range lines {
		drawText(img, padding, y, l.text, l.color)
		y += lineHeight
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) cardLines(card entities.CardSnapshot) []line {
	countColor := textColor
	if len(card.Attending) >= card.Capacity {
		countColor = fullColor
	}
	players := r.text.Msg("card.players", map[string]any{"Count": len(card.Attending), "Capacity": card.Capacity})
	lines := []line{
		{text: fmt.Sprintf("%s  -  %s", card.Owner.Name, card.Activity.Name), color: textColor},
		{text: pkgdiscord.FormatShortTime(card.ScheduledAt) + "   " + players, color: countColor},
		{text: "", color: textColor},
		{text: r.labels.available, color: dimColor},
	}
	for _, e := range card.Attending {
		l := line{text: "  " + displayName(e.Participant), color: textColor}
		if e.Status == entities.StatusLate {
			l.text += "  " + r.labels.late
			l.color = lateColor
		}
		lines = append(lines, l)
	}
	if len(card.Unavailable) > 0 {
		lines = append(lines, line{text: "", color: textColor}, line{text: r.labels.unavailable, color: dimColor})
		for _, e := range card.Unavailable {
			lines = append(lines, line{text: "  " + displayName(e.Participant), color: dimColor})
		}
	}
	return lines
}

func displayName(p entities.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func drawText(dst draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// art loads the activity image, or returns nil when there is none.
func (r *CardRenderer) art(path string) image.Image {
	if path == "" {
		return nil
	}
	if !filepath.IsAbs(path) && r.assetDir != "" {
		path = filepath.Join(r.assetDir, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if img, ok := r.cache[path]; ok {
		return img
	}
	img, err := decodeFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("game art unavailable")
	}
	// Failures are cached too, as nil, so that a missing file is only
	// reported once.
	r.cache[path] = img
	return img
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
