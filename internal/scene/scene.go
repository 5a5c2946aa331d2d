// Package scene mounts the sketch surface in a host page and paints the
// green circle.
package scene

import (
	"greensketch/internal/dom"
	"greensketch/internal/sketch"
)

const (
	Width  = 500
	Height = 500

	CircleX        = 250
	CircleY        = 250
	CircleDiameter = 100
)

// InitializeCanvas creates a width×height surface under container and
// removes the inline style size so it displays at its pixel dimensions.
func InitializeCanvas(p *sketch.Sketch, container *dom.Element, width, height int) {
	elt := p.CreateCanvas(width, height).Parent(container).Elt()
	elt.SetStyle("width", "")
	elt.SetStyle("height", "")
}

// Setup initialises the canvas and paints one frame.
func Setup(p *sketch.Sketch, container *dom.Element) {
	InitializeCanvas(p, container, Width, Height)
	p.NoLoop()
	Paint(p)
}

// Paint draws the scene onto an initialised surface. Repainting yields
// the same pixels.
func Paint(p *sketch.Sketch) {
	p.Background(0)

	p.NoStroke()
	p.Fill(0, 255, 0)
	p.Circle(CircleX, CircleY, CircleDiameter)
}
