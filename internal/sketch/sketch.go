// Package sketch is an instance-mode drawing API in the manner of p5,
// rasterised with gg.
package sketch

import (
	"context"
	"image"
	"image/color"
	"io"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"

	"greensketch/internal/dom"
)

// FrameRate is the number of draw calls per second while looping.
const FrameRate = 60

// ErrNoCanvas is returned when the surface is read before CreateCanvas.
var ErrNoCanvas = errors.New("sketch: no canvas created")

// Sketch holds the drawing state of one sketch instance.
type Sketch struct {
	canvas *Canvas

	fill         *color.RGBA
	stroke       *color.RGBA
	strokeWeight float64

	looping    bool
	frameCount int
	draw       func(*Sketch)
}

// Canvas is the drawing surface together with the element hosting it.
type Canvas struct {
	dc  *gg.Context
	elt *dom.Element
}

// New returns a sketch with white fill, a black stroke of weight 1 and
// looping enabled.
func New() *Sketch {
	return &Sketch{
		fill:         &color.RGBA{255, 255, 255, 255},
		stroke:       &color.RGBA{0, 0, 0, 255},
		strokeWeight: 1,
		looping:      true,
	}
}

// CreateCanvas allocates a width×height surface. Its element gets the
// layout size as inline style, as a browser canvas would. A previous
// canvas of the sketch is detached from the page.
func (s *Sketch) CreateCanvas(width, height int) *Canvas {
	if s.canvas != nil {
		s.canvas.elt.Remove()
	}

	elt := dom.NewElement("canvas")
	elt.SetAttr("id", "defaultCanvas0")
	elt.SetAttr("class", "p5Canvas")
	elt.SetAttr("width", strconv.Itoa(width))
	elt.SetAttr("height", strconv.Itoa(height))
	elt.SetStyle("width", strconv.Itoa(width)+"px")
	elt.SetStyle("height", strconv.Itoa(height)+"px")

	s.canvas = &Canvas{
		dc:  gg.NewContext(width, height),
		elt: elt,
	}
	return s.canvas
}

// Canvas returns the current surface, or nil.
func (s *Sketch) Canvas() *Canvas {
	return s.canvas
}

// Parent attaches the canvas element under el.
func (c *Canvas) Parent(el *dom.Element) *Canvas {
	el.AppendChild(c.elt)
	return c
}

// Elt returns the element hosting the canvas.
func (c *Canvas) Elt() *dom.Element {
	return c.elt
}

// Width returns the intrinsic pixel width.
func (c *Canvas) Width() int {
	return c.dc.Width()
}

// Height returns the intrinsic pixel height.
func (c *Canvas) Height() int {
	return c.dc.Height()
}

// Background fills the surface with a gray level, discarding what was
// drawn before.
func (s *Sketch) Background(gray int) {
	s.BackgroundRGB(gray, gray, gray)
}

// BackgroundRGB fills the surface with a colour.
func (s *Sketch) BackgroundRGB(r, g, b int) {
	if s.canvas == nil {
		return
	}
	s.canvas.dc.SetRGB255(r, g, b)
	s.canvas.dc.Clear()
}

// Fill sets the colour for the interior of subsequent shapes.
func (s *Sketch) Fill(r, g, b int) {
	s.fill = &color.RGBA{clamp(r), clamp(g), clamp(b), 255}
}

// NoFill disables filling of subsequent shapes.
func (s *Sketch) NoFill() {
	s.fill = nil
}

// Stroke sets the outline colour of subsequent shapes.
func (s *Sketch) Stroke(r, g, b int) {
	s.stroke = &color.RGBA{clamp(r), clamp(g), clamp(b), 255}
}

// StrokeWeight sets the outline width in pixels.
func (s *Sketch) StrokeWeight(w float64) {
	s.strokeWeight = w
}

// NoStroke disables outlines of subsequent shapes.
func (s *Sketch) NoStroke() {
	s.stroke = nil
}

// Circle draws a circle centred at (x, y) with diameter d.
func (s *Sketch) Circle(x, y, d float64) {
	if s.canvas == nil {
		return
	}
	dc := s.canvas.dc
	dc.DrawCircle(x, y, d/2)
	if s.fill != nil {
		dc.SetColor(*s.fill)
		dc.FillPreserve()
	}
	if s.stroke != nil && s.strokeWeight > 0 {
		dc.SetColor(*s.stroke)
		dc.SetLineWidth(s.strokeWeight)
		dc.StrokePreserve()
	}
	dc.ClearPath()
}

// NoLoop stops draw from being called after the current frame.
func (s *Sketch) NoLoop() {
	s.looping = false
}

// Loop resumes continuous drawing.
func (s *Sketch) Loop() {
	s.looping = true
}

// IsLooping reports whether draw is called every frame.
func (s *Sketch) IsLooping() bool {
	return s.looping
}

// FrameCount returns the number of frames rendered so far.
func (s *Sketch) FrameCount() int {
	return s.frameCount
}

// Redraw renders one frame, regardless of looping. The frame is counted
// even without a draw function.
func (s *Sketch) Redraw() {
	s.frameCount++
	if s.draw != nil {
		s.draw(s)
	}
}

// Run calls setup once and then draw once per frame. When looping is
// disabled, draw runs for the first frame only and Run returns; otherwise
// Run returns when ctx is done. Either function may be nil.
func (s *Sketch) Run(ctx context.Context, setup, draw func(*Sketch)) error {
	s.draw = draw
	if setup != nil {
		setup(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Redraw()
	if !s.looping {
		return nil
	}

	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.looping {
				return nil
			}
			s.Redraw()
		}
	}
}

// Image returns the surface's pixels.
func (s *Sketch) Image() image.Image {
	if s.canvas == nil {
		return nil
	}
	return s.canvas.dc.Image()
}

// EncodePNG writes the surface to w as PNG.
func (s *Sketch) EncodePNG(w io.Writer) error {
	if s.canvas == nil {
		return ErrNoCanvas
	}
	if err := s.canvas.dc.EncodePNG(w); err != nil {
		return errors.Wrap(err, "sketch: encode png")
	}
	return nil
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	} else if 255 < v {
		return 255
	}
	return uint8(v)
}
