package display

import (
	_ "embed"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

//go:embed banner.txt
var bannerRaw string

const tagline = "restaurant ordering simulator"

// RenderBanner returns the banner art and tagline horizontally centred for
// the current terminal width. To change the banner replace banner.txt.
func RenderBanner() string {
	return renderBanner(bannerRaw, termWidth())
}

func renderBanner(art string, width int) string {
	lines := strings.Split(strings.TrimRight(art, "\n"), "\n")
	lines = append(lines, "", tagline)

	// Centre the block on its widest line so the art keeps its shape.
	maxW := 0
	for _, l := range lines {
		if len(l) > maxW {
			maxW = len(l)
		}
	}
	pad := 0
	if width > maxW {
		pad = (width - maxW) / 2
	}

	var b strings.Builder
	for i, l := range lines {
		left := pad
		if i == len(lines)-1 {
			// Tagline is centred on its own.
			left += (maxW - len(l)) / 2
		}
		if l != "" {
			b.WriteString(strings.Repeat(" ", left))
			b.WriteString(BannerStyle.Render(l))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// termWidth returns the current terminal column count, or 80 as fallback.
func termWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
