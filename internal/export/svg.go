package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/render"
)

// bands colors balls by tens: 1-10, 11-20, 21-30, 31-40, 41 and up.
var bands = [5]string{"#fbc400", "#69c8f2", "#ff7272", "#aaaaaa", "#b0d840"}

func bandColor(n int) string {
	i := (n - 1) / 10
	if i < 0 {
		i = 0
	}
	if i >= len(bands) {
		i = len(bands) - 1
	}
	return bands[i]
}

type Point struct{ X, Y float64 }

func header(sb *strings.Builder, drum config.MachineConfig) {
	size := drum.Radius*2 + 20
	minX := drum.CenterX - drum.Radius - 10
	minY := drum.CenterY - drum.Radius - 10
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="%.1f %.1f %.1f %.1f">
<rect x="%.1f" y="%.1f" width="100%%" height="100%%" fill="#0a0a0a"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#444466" stroke-width="3"/>
`, size, size, minX, minY, size, size, minX, minY, drum.CenterX, drum.CenterY, drum.Radius))
}

// DrumSVG draws the drum and every visible ball, numbered and colored by
// band. Dimmed balls are drawn faded, picked balls with a white ring.
func DrumSVG(ps []machine.Particle, drum config.MachineConfig) string {
	var sb strings.Builder
	header(&sb, drum)

	sb.WriteString(`<g font-family="sans-serif" font-weight="bold" text-anchor="middle">` + "\n")
	for _, p := range ps {
		if !p.Visible {
			continue
		}
		opacity := 1.0
		stroke := "none"
		switch p.State {
		case render.Dimmed:
			opacity = 0.3
		case render.Picked:
			stroke = "#ffffff"
		}
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="2" opacity="%.1f"/>`+"\n",
			p.X, p.Y, p.Radius, bandColor(p.ID), stroke, opacity))
		sb.WriteString(fmt.Sprintf(
			`<text x="%.1f" y="%.1f" font-size="%.0f" fill="#111111" opacity="%.1f">%d</text>`+"\n",
			p.X, p.Y+p.Radius*0.35, p.Radius, opacity, p.ID))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrailSVG draws the path one ball took inside the drum.
func TrailSVG(points []Point, drum config.MachineConfig, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, drum)

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
