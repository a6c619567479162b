package viz

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/san-kum/vizsync/internal/control"
	"github.com/san-kum/vizsync/internal/scene"
)

// CanvasToSVG draws the lit sub-pixels of a canvas as dots, dim layer
// first so bright pixels stay on top.
func CanvasToSVG(c *Canvas, scale float64, t Theme) string {
	if c == nil {
		return ""
	}
	width := float64(c.SubWidth()) * scale
	height := float64(c.SubHeight()) * scale

	var sb strings.Builder
	writeHeader(&sb, width, height)
	r := scale * 0.4
	for _, layer := range []struct {
		grid  [][]rune
		color string
	}{
		{c.Dim, string(t.Dim)},
		{c.Grid, string(t.Bright)},
	} {
		fmt.Fprintf(&sb, "<g fill=\"%s\">\n", layer.color)
		for row := range layer.grid {
			for col, ch := range layer.grid[row] {
				if ch <= blank {
					continue
				}
				pattern := int(ch - blank)
				for dy := 0; dy < 4; dy++ {
					for dx := 0; dx < 2; dx++ {
						if pattern&pixelMap[dy][dx] == 0 {
							continue
						}
						cx := (float64(col*2+dx) + 0.5) * scale
						cy := (float64(row*4+dy) + 0.5) * scale
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
					}
				}
			}
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WireframeToSVG projects the wireframe through cam and draws each edge
// as a line, far edges first. Dim edges are drawn faded.
func WireframeToSVG(w *Wireframe, cam *Camera, width, height int, t Theme) string {
	var sb strings.Builder
	writeHeader(&sb, float64(width), float64(height))
	if w != nil && cam != nil {
		proj := make([]projectedEdge, 0, len(w.Edges))
		for _, e := range w.Edges {
			x1, y1, d1, v1 := cam.Project(e.Start, width, height)
			x2, y2, d2, v2 := cam.Project(e.End, width, height)
			if v1 || v2 {
				proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Dim})
			}
		}
		sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })

		sb.WriteString("<g stroke-linecap=\"round\" stroke-width=\"1\">\n")
		for _, e := range proj {
			color, opacity := t.Bright, 1.0
			if e.dim {
				color, opacity = t.Dim, 0.3
			}
			fmt.Fprintf(&sb, "<line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-opacity=\"%.1f\"/>\n",
				e.x1, e.y1, e.x2, e.y2, color, opacity)
		}
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteSVG frames objs by bounds and writes them to out as an SVG
// wireframe.
func WriteSVG(out io.Writer, objs []*scene.Object, b control.Bounds, width, height int, t Theme) error {
	cam := NewCamera()
	cam.Frame(b)
	_, err := io.WriteString(out, WireframeToSVG(Extract(objs), cam, width, height, t))
	return err
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}
