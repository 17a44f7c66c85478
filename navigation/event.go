// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package navigation turns user input into viewport changes.
//
// Input arrives as Events. Hosts translate platform input into Events
// (usually through a Translator) and push them onto a Queue; the frame
// driver drains the Queue once per frame and applies every Event to a
// Controller, which is the only writer of the viewport parameters.
package navigation

import "fmt"

// Kind identifies the variant of an Event.
type Kind uint8

const (
	KindNone Kind = iota
	KindZoomIn
	KindZoomOut
	KindPanBy
	KindIncreaseIterations
	KindDecreaseIterations
	KindResize
	KindReset
)

var kindNames = [...]string{
	KindNone:               "None",
	KindZoomIn:             "ZoomIn",
	KindZoomOut:            "ZoomOut",
	KindPanBy:              "PanBy",
	KindIncreaseIterations: "IncreaseIterations",
	KindDecreaseIterations: "DecreaseIterations",
	KindResize:             "Resize",
	KindReset:              "Reset",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Event is a single navigation request.
//
// DX and DY are only meaningful for KindPanBy and hold a screen-space
// delta in pixels (y grows downwards). Width and Height are only
// meaningful for KindResize.
type Event struct {
	Kind   Kind
	DX, DY float32
	Width  int
	Height int
}

// ZoomIn magnifies by the controller's zoom factor.
func ZoomIn() Event { return Event{Kind: KindZoomIn} }

// ZoomOut undoes one ZoomIn.
func ZoomOut() Event { return Event{Kind: KindZoomOut} }

// PanBy moves the view by a screen-space delta in pixels.
func PanBy(dx, dy float32) Event { return Event{Kind: KindPanBy, DX: dx, DY: dy} }

// IncreaseIterations raises the iteration cap by one step.
func IncreaseIterations() Event { return Event{Kind: KindIncreaseIterations} }

// DecreaseIterations lowers the iteration cap by one step.
func DecreaseIterations() Event { return Event{Kind: KindDecreaseIterations} }

// Resize reports a new surface size in pixels.
func Resize(width, height int) Event {
	return Event{Kind: KindResize, Width: width, Height: height}
}

// Reset restores the initial view.
func Reset() Event { return Event{Kind: KindReset} }

func (e Event) String() string {
	switch e.Kind {
	case KindPanBy:
		return fmt.Sprintf("PanBy(%g, %g)", e.DX, e.DY)
	case KindResize:
		return fmt.Sprintf("Resize(%d, %d)", e.Width, e.Height)
	default:
		return e.Kind.String()
	}
}
