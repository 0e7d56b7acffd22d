package ui

import (
	"image"
	"io"
)

// UI connects the emulation and debugger goroutines to the GUI goroutine. All
// channels are buffered so that neither side ever blocks on the other
type UI struct {
	SetImage      chan *image.RGBA
	RegisterAudio chan io.Reader
	UserInput     chan Input
}

func NewUI() *UI {
	return &UI{
		SetImage:      make(chan *image.RGBA, 1),
		RegisterAudio: make(chan io.Reader, 1),
		UserInput:     make(chan Input, 16),
	}
}
