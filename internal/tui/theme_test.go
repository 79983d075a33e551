package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/hylla/tavla/internal/domain"
)

func TestPaletteForDefaultsToLight(t *testing.T) {
	if got := paletteFor("").glamour; got != "light" {
		t.Fatalf("expected light palette fallback, got %q", got)
	}
	if got := paletteFor(domain.ThemeDark).glamour; got != "dark" {
		t.Fatalf("expected dark palette, got %q", got)
	}
}

func TestRenderPaletteListsEverySwatch(t *testing.T) {
	out := ansi.Strip(RenderPalette(domain.ThemeDark))
	for _, want := range []string{"dark theme (glamour: dark)", "accent", "bar empty", "status in_progress", "status completed", "60%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in palette preview %q", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 1+len(paletteFor(domain.ThemeDark).swatches())+1 {
		t.Fatalf("unexpected line count %d in %q", lines, out)
	}
}

func TestColorCode(t *testing.T) {
	if got := colorCode(nil); got != "-" {
		t.Fatalf("expected placeholder for nil color, got %q", got)
	}
	if got := colorCode(paletteFor(domain.ThemeLight).accent); !strings.HasPrefix(got, "#") || len(got) != 7 {
		t.Fatalf("expected hex triplet, got %q", got)
	}
}
