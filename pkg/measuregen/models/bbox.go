// Package models defines data structures for measure image generation.
package models

import "image"

// BoundingBox represents an axis-aligned rectangle in XYWH format with a
// top-left origin. Depending on context the unit is either SVG canvas units
// or raster pixels.
type BoundingBox struct {
	// X is the left edge.
	X int `json:"x"`
	// Y is the top edge.
	Y int `json:"y"`
	// W is the width.
	W int `json:"w"`
	// H is the height.
	H int `json:"h"`
}

// Merge returns the smallest box that contains both a and b.
func Merge(a, b BoundingBox) BoundingBox {
	x := min(a.X, b.X)
	y := min(a.Y, b.Y)
	return BoundingBox{
		X: x,
		Y: y,
		W: max(a.Right(), b.Right()) - x,
		H: max(a.Bottom(), b.Bottom()) - y,
	}
}

// Merge returns the smallest box that contains both b and other.
func (b BoundingBox) Merge(other BoundingBox) BoundingBox {
	return Merge(b, other)
}

// Right returns the right edge X coordinate.
func (b BoundingBox) Right() int {
	return b.X + b.W
}

// Bottom returns the bottom edge Y coordinate.
func (b BoundingBox) Bottom() int {
	return b.Y + b.H
}

// Rect returns the box as an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.Right(), b.Bottom())
}
