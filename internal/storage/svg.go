package storage

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mariogeiger/gradcmp-optim/internal/trace"
)

// WriteSVG renders the loss curve of a trace as a standalone SVG polyline,
// loss against accumulated time. The vertical axis switches to log10 when
// every loss is positive, matching the terminal plots.
func WriteSVG(out io.Writer, tr trace.Trace, width, height int) error {
	if len(tr) < 2 {
		return fmt.Errorf("need at least two samples to draw a curve")
	}

	xs := tr.Times()
	ys := tr.Losses()
	if positive(ys) {
		for i, v := range ys {
			ys[i] = math.Log10(v)
		}
	}

	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	// Pad 10% so the curve never touches the frame.
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff87" stroke-width="1.5" d="M`,
		width, height, width, height))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(out, sb.String())
	return err
}

func bounds(vals []float64) (min, max float64) {
	min, max = vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func positive(vals []float64) bool {
	for _, v := range vals {
		if v <= 0 {
			return false
		}
	}
	return true
}
