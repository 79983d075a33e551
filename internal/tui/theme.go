package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/hylla/tavla/internal/domain"
)

// palette holds the colors used to render one theme.
type palette struct {
	accent    color.Color
	text      color.Color
	muted     color.Color
	dim       color.Color
	selected  color.Color
	fade      color.Color
	barFill   color.Color
	barEmpty  color.Color
	celebrate color.Color
	status    map[domain.Status]color.Color
	// glamour names the matching glamour standard style.
	glamour string
}

// paletteFor returns the palette for theme, defaulting to light.
func paletteFor(theme domain.Theme) palette {
	if theme == domain.ThemeDark {
		return palette{
			accent:    lipgloss.Color("62"),
			text:      lipgloss.Color("252"),
			muted:     lipgloss.Color("245"),
			dim:       lipgloss.Color("239"),
			selected:  lipgloss.Color("212"),
			fade:      lipgloss.Color("236"),
			barFill:   lipgloss.Color("42"),
			barEmpty:  lipgloss.Color("238"),
			celebrate: lipgloss.Color("220"),
			status: map[domain.Status]color.Color{
				domain.StatusNotStarted: lipgloss.Color("110"),
				domain.StatusInProgress: lipgloss.Color("214"),
				domain.StatusCompleted:  lipgloss.Color("78"),
			},
			glamour: "dark",
		}
	}
	return palette{
		accent:    lipgloss.Color("25"),
		text:      lipgloss.Color("235"),
		muted:     lipgloss.Color("242"),
		dim:       lipgloss.Color("250"),
		selected:  lipgloss.Color("161"),
		fade:      lipgloss.Color("253"),
		barFill:   lipgloss.Color("28"),
		barEmpty:  lipgloss.Color("252"),
		celebrate: lipgloss.Color("166"),
		status: map[domain.Status]color.Color{
			domain.StatusNotStarted: lipgloss.Color("24"),
			domain.StatusInProgress: lipgloss.Color("130"),
			domain.StatusCompleted:  lipgloss.Color("22"),
		},
		glamour: "light",
	}
}

// statusColor returns the column accent for status.
func (p palette) statusColor(status domain.Status) color.Color {
	if c, ok := p.status[status]; ok {
		return c
	}
	return p.accent
}

// swatch is one named palette entry in a preview.
type swatch struct {
	name  string
	color color.Color
}

// swatches lists the palette entries in display order.
func (p palette) swatches() []swatch {
	out := []swatch{
		{"accent", p.accent},
		{"text", p.text},
		{"muted", p.muted},
		{"dim", p.dim},
		{"selected", p.selected},
		{"fade", p.fade},
		{"bar fill", p.barFill},
		{"bar empty", p.barEmpty},
		{"celebrate", p.celebrate},
	}
	for _, status := range domain.Statuses() {
		out = append(out, swatch{"status " + string(status), p.statusColor(status)})
	}
	return out
}

// RenderPalette draws the theme's colors as labelled swatches followed by a sample progress bar.
func RenderPalette(theme domain.Theme) string {
	p := paletteFor(theme)
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(p.accent)
	fmt.Fprintf(&b, "%s\n", title.Render(fmt.Sprintf("%s theme (glamour: %s)", theme, p.glamour)))
	for _, sw := range p.swatches() {
		chip := lipgloss.NewStyle().Background(sw.color).Width(6).Render("")
		fmt.Fprintf(&b, "%s %-20s %s\n", chip, sw.name, colorCode(sw.color))
	}
	fill := lipgloss.NewStyle().Foreground(p.barFill).Render(strings.Repeat("█", 12))
	empty := lipgloss.NewStyle().Foreground(p.barEmpty).Render(strings.Repeat("░", 8))
	fmt.Fprintf(&b, "%s%s 60%%\n", fill, empty)
	return b.String()
}

// colorCode formats c as a hex triplet.
func colorCode(c color.Color) string {
	if c == nil {
		return "-"
	}
	r, g, bl, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8)
}
