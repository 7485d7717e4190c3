// Package layout holds the pixel rectangle helpers of the raster preview.
package layout

import (
	"image"
	"math"
)

// Inset shrinks rect by paddingPx on all sides. Padding wider than half a
// side collapses the result to the center of rect.
func Inset(rect image.Rectangle, paddingPx int) image.Rectangle {
	if paddingPx <= 0 {
		return rect
	}
	rect = Normalize(rect)
	if 2*paddingPx > rect.Dx() || 2*paddingPx > rect.Dy() {
		c := Center(rect)
		return image.Rectangle{Min: c, Max: c}
	}
	return image.Rect(rect.Min.X+paddingPx, rect.Min.Y+paddingPx, rect.Max.X-paddingPx, rect.Max.Y-paddingPx)
}

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeightPx is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeightPx int) (top image.Rectangle, bottom image.Rectangle) {
	rect = Normalize(rect)
	topHeightPx = max(0, min(topHeightPx, rect.Dy()))
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeightPx)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeightPx, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// Center returns the middle pixel of rect, rounded down.
func Center(rect image.Rectangle) image.Point {
	rect = Normalize(rect)
	return image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
}

// FitLongest scales (w, h) so the longer side equals longestPx. Neither side
// drops below one pixel.
func FitLongest(w, h, longestPx int) image.Point {
	if w <= 0 || h <= 0 || longestPx <= 0 {
		return image.Point{}
	}
	scale := float64(longestPx) / float64(max(w, h))
	return image.Pt(
		max(1, int(math.Round(float64(w)*scale))),
		max(1, int(math.Round(float64(h)*scale))),
	)
}

// CenterSpan places a span of widthPx centered inside rect and returns its
// left edge. Spans wider than rect start at rect.Min.X.
func CenterSpan(rect image.Rectangle, widthPx int) int {
	rect = Normalize(rect)
	return rect.Min.X + max(0, (rect.Dx()-widthPx)/2)
}
