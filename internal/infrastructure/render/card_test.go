package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"riseup/internal/domain/entities"
	"riseup/internal/ports/output"
)

func snapshot(art string) entities.CardSnapshot {
	return entities.CardSnapshot{
		Owner:       entities.Participant{ID: "1", Name: "Alice"},
		Activity:    entities.Activity{Name: "Warzone", ImagePath: art},
		ScheduledAt: time.Date(2026, 3, 10, 20, 5, 0, 0, time.UTC),
		Capacity:    4,
		Attending: []entities.ParticipantEntry{
			{Participant: entities.Participant{ID: "2", Name: "Bob"}, Status: entities.StatusAvailable},
			{Participant: entities.Participant{ID: "3", Name: "Carol"}, Status: entities.StatusLate},
		},
		Unavailable: []entities.ParticipantEntry{
			{Participant: entities.Participant{ID: "4"}, Status: entities.StatusUnavailable},
		},
	}
}

func TestRenderProducesPNG(t *testing.T) {
	r := NewCardRenderer("", output.Localizer{})
	data, err := r.Render(context.Background(), snapshot(""))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	wantHeight := bannerHeight + padding*2 + lineHeight*len(r.cardLines(snapshot("")))
	if b := img.Bounds(); b.Dx() != width || b.Dy() != wantHeight {
		t.Fatalf("bounds = %v, want %dx%d", b, width, wantHeight)
	}
}

func TestRenderScalesGameArt(t *testing.T) {
	dir := t.TempDir()
	art := image.NewRGBA(image.Rect(0, 0, 8, 8))
	red := color.RGBA{R: 0xff, A: 0xff}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			art.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, art); err != nil {
		t.Fatalf("encode art: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wz.png"), buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write art: %v", err)
	}

	data, err := NewCardRenderer(dir, output.Localizer{}).Render(context.Background(), snapshot("wz.png"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	r, g, b, _ := img.At(width/2, bannerHeight/2).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 {
		t.Fatalf("banner pixel = %d,%d,%d, want scaled red art", r>>8, g>>8, b>>8)
	}
}

func TestRenderMissingArtFallsBack(t *testing.T) {
	r := NewCardRenderer(t.TempDir(), output.Localizer{})
	if _, err := r.Render(context.Background(), snapshot("missing.png")); err != nil {
		t.Fatalf("Render with missing art: %v", err)
	}
}

func TestRenderHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCardRenderer("", output.Localizer{}).Render(ctx, snapshot("")); err == nil {
		t.Fatalf("expected context error")
	}
}

type frenchLabels struct{}

func (frenchLabels) T(_, key string, data map[string]any) string {
	switch key {
	case "card.available":
		return "Disponibles"
	case "card.unavailable":
		return "Indisponibles"
	case "card.late":
		return "(en retard)"
	case "card.players":
		return fmt.Sprintf("%v/%v joueurs", data["Count"], data["Capacity"])
	}
	return key
}

func TestCardLinesUseLocalizedLabels(t *testing.T) {
	r := NewCardRenderer("", output.Localizer{Translator: frenchLabels{}, Locale: "fr"})
	var texts []string
	for _, l := range r.cardLines(snapshot("")) {
		texts = append(texts, l.text)
	}
	got := strings.Join(texts, "\n")
	for _, want := range []string{"8:05pm   2/4 joueurs", "Disponibles", "  Carol  (en retard)", "Indisponibles", "  4"} {
		if !strings.Contains(got, want) {
			t.Fatalf("card lines missing %q:\n%s", want, got)
		}
	}
	for _, english := range []string{"Available", "players", "(late)"} {
		if strings.Contains(got, english) {
			t.Fatalf("card lines contain untranslated %q:\n%s", english, got)
		}
	}
}
